package api

import (
	"mediator/domain"
	"mediator/search"
	"mediator/services"
	"time"

	"github.com/samber/lo"
)

type roomResponse struct {
	RoomCode       string    `json:"room_code"`
	RoomName       string    `json:"room_name,omitempty"`
	Description    string    `json:"description"`
	MediatorType   string    `json:"mediator_type"`
	MediatorLabel  string    `json:"mediator_label"`
	CreatorEmail   string    `json:"creator_email"`
	ParentRoomCode string    `json:"parent_room_code,omitempty"`
	IsChatEnded    bool      `json:"is_chat_ended"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toRoomResponse(r domain.Room) roomResponse {
	return roomResponse{
		RoomCode:       r.Code,
		RoomName:       r.Name,
		Description:    r.Description,
		MediatorType:   string(r.Mediator),
		MediatorLabel:  r.Mediator.Label(),
		CreatorEmail:   r.CreatorEmail,
		ParentRoomCode: r.ParentRoomCode,
		IsChatEnded:    r.IsChatEnded,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toRoomResponses(rooms []domain.Room) []roomResponse {
	return lo.Map(rooms, func(r domain.Room, _ int) roomResponse { return toRoomResponse(r) })
}

type messageResponse struct {
	ID        string    `json:"id"`
	RoomCode  string    `json:"room_code"`
	Email     string    `json:"email"`
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	IsPublic  bool      `json:"is_public"`
	IsContext bool      `json:"is_context"`
	CreatedAt time.Time `json:"created_at"`
}

func toMessageResponse(m domain.Message) messageResponse {
	return messageResponse{
		ID:        m.ID.String(),
		RoomCode:  m.RoomCode,
		Email:     m.Email,
		Content:   m.Content,
		Role:      string(m.Role),
		IsPublic:  m.IsPublic,
		IsContext: m.IsContext,
		CreatedAt: m.CreatedAt,
	}
}

func toMessageResponses(messages []domain.Message) []messageResponse {
	return lo.Map(messages, func(m domain.Message, _ int) messageResponse { return toMessageResponse(m) })
}

type participantResponse struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Initials    string `json:"initials"`
	Status      string `json:"status"`
	CanType     bool   `json:"is_input_enable"`
}

type membershipResponse struct {
	RoomCode      string    `json:"room_code"`
	Email         string    `json:"email"`
	IsInputEnable bool      `json:"is_input_enable"`
	Status        string    `json:"status"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type statusResponse struct {
	RoomCode      string `json:"room_code"`
	Status        string `json:"status"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	IsInputEnable bool   `json:"is_input_enable"`
}

func toStatusResponse(s services.StatusView) statusResponse {
	return statusResponse{
		RoomCode:      s.RoomCode,
		Status:        string(s.Status),
		Title:         s.Title,
		Description:   s.Description,
		IsInputEnable: s.CanType,
	}
}

type toolResultResponse struct {
	Tool    string `json:"tool"`
	Applied bool   `json:"applied"`
	Text    string `json:"text"`
}

type turnResponse struct {
	Message     messageResponse      `json:"message"`
	Replies     []messageResponse    `json:"replies"`
	ToolResults []toolResultResponse `json:"tool_results"`
}

func toTurnResponse(t services.TurnResult) turnResponse {
	return turnResponse{
		Message: toMessageResponse(t.UserMessage),
		Replies: toMessageResponses(t.Replies),
		ToolResults: lo.Map(t.ToolResults, func(r services.ToolResult, _ int) toolResultResponse {
			return toolResultResponse{Tool: r.Tool, Applied: r.Applied, Text: r.Text}
		}),
	}
}

type hitResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
}

func toHitResponses(hits []search.Hit) []hitResponse {
	return lo.Map(hits, func(h search.Hit, _ int) hitResponse {
		return hitResponse{
			ID: h.ID, Email: h.Email, Content: h.Content,
			Role: string(h.Role), IsPublic: h.IsPublic, CreatedAt: h.CreatedAt,
		}
	})
}
