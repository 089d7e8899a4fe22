package services

import (
	"context"
	"fmt"
	"log/slog"
	"mediator/ai"
	"mediator/auth"
	"mediator/domain"
	"mediator/errors"
	"mediator/mediation"
	"mediator/moderation"
	"mediator/repositories"
	"time"

	"github.com/google/uuid"
)

// Censor masks forbidden words and reports the ones it found.
type Censor interface {
	Censor(content string) (string, []string)
}

type UserTurn struct {
	RoomCode  domain.RoomCode
	Content   string
	IsPrivate bool
	IsContext bool
}

// ToolResult is the outcome of one tool call requested by the model.
type ToolResult struct {
	CallID  string
	Tool    string
	Applied bool
	Text    string
}

type TurnResult struct {
	UserMessage domain.Message
	Replies     []domain.Message
	ToolResults []ToolResult
	// Conversation is the context sent to the model followed by the tool exchange.
	Conversation []ai.Message
}

type IMediatorService interface {
	HandleUserMessage(ctx context.Context, turn UserTurn) (TurnResult, error)
}

// MediatorService runs the mediator turn that follows every user message.
type MediatorService struct {
	rooms      repositories.IRoomRepository
	members    repositories.IMembershipRepository
	messages   repositories.IMessageRepository
	completion ai.CompletionClient
	censor     Censor
	log        *slog.Logger
	now        func() time.Time
}

// NewMediatorService accepts a nil censor when no word list is configured.
func NewMediatorService(
	rooms repositories.IRoomRepository,
	members repositories.IMembershipRepository,
	messages repositories.IMessageRepository,
	completion ai.CompletionClient,
	censor Censor,
	log *slog.Logger,
) *MediatorService {
	return &MediatorService{
		rooms:      rooms,
		members:    members,
		messages:   messages,
		completion: completion,
		censor:     censor,
		log:        log,
		now:        time.Now,
	}
}

func (s *MediatorService) HandleUserMessage(ctx context.Context, turn UserTurn) (TurnResult, error) {
	requester, err := auth.EmailFromContext(ctx)
	if err != nil {
		return TurnResult{}, err
	}
	if err = auth.ValidateTurn(auth.TurnRequest{
		Content:   turn.Content,
		IsPrivate: turn.IsPrivate,
		IsContext: turn.IsContext,
	}); err != nil {
		return TurnResult{}, err
	}

	room, err := s.rooms.GetRoom(turn.RoomCode)
	if err != nil {
		return TurnResult{}, err
	}
	if room.IsChatEnded {
		return TurnResult{}, fmt.Errorf("%w: %s", errors.ErrChatEnded, room.Code)
	}
	membership, err := s.members.GetMember(room.Code, requester)
	if err != nil {
		return TurnResult{}, err
	}
	if !membership.IsInputEnable {
		return TurnResult{}, fmt.Errorf("%w: %s in %s", errors.ErrInputDisabled, requester, room.Code)
	}

	content := turn.Content
	if s.censor != nil {
		var found []string
		if content, found = s.censor.Censor(content); len(found) > 0 {
			s.log.Info("Message censored", "room_code", room.Code, "words", found, "lang", moderation.Language(turn.Content))
		}
	}

	isPublic := !turn.IsPrivate
	result := TurnResult{UserMessage: s.newMessage(room.Code, requester, content, domain.RoleUser, isPublic, turn.IsContext, s.now().UTC())}
	if err = s.messages.StoreMessage(result.UserMessage); err != nil {
		return TurnResult{}, err
	}

	history, err := s.messages.GetMessages(room.Code)
	if err != nil {
		return result, err
	}
	conversation := mediation.AssembleContext(room, requester, history)

	response, err := s.completion.Complete(ctx, ai.CompletionRequest{Messages: conversation, Tools: mediation.Tools()})
	if err != nil {
		result.Conversation = conversation
		return result, err
	}

	// Replies share one base time and keep their emission order in the message keys
	repliesAt, replies := s.now().UTC(), 0
	replyAt := func() time.Time {
		replies++
		return repliesAt.Add(time.Duration(replies))
	}

	if len(response.ToolCalls) > 0 {
		conversation = append(conversation, ai.Message{
			Role:      ai.RoleAssistant,
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})
		for _, call := range response.ToolCalls {
			toolResult, ok := s.executeTool(room, call)
			if !ok {
				continue
			}
			result.ToolResults = append(result.ToolResults, toolResult)
			conversation = append(conversation, ai.Message{Role: ai.RoleTool, Content: toolResult.Text, ToolCallID: call.ID})

			reply := s.newMessage(room.Code, requester, toolResult.Text, domain.RoleAssistant, isPublic, false, replyAt())
			if err := s.messages.StoreMessage(reply); err != nil {
				s.log.Error("Tool result not stored", "room_code", room.Code, "tool", call.Name, "error", err)
				continue
			}
			result.Replies = append(result.Replies, reply)
		}
	}

	if response.Content != "" {
		reply := s.newMessage(room.Code, requester, response.Content, domain.RoleAssistant, isPublic, false, replyAt())
		if err = s.messages.StoreMessage(reply); err != nil {
			result.Conversation = conversation
			return result, err
		}
		result.Replies = append(result.Replies, reply)
	}

	result.Conversation = conversation
	s.log.Debug("Mediator turn done", "room_code", room.Code, "email", requester,
		"tool_calls", len(response.ToolCalls), "replies", len(result.Replies))
	return result, nil
}

// executeTool runs one tool call. It reports false when the call produced
// nothing the room should see.
func (s *MediatorService) executeTool(room domain.Room, call ai.ToolCall) (ToolResult, bool) {
	invocation, err := mediation.ParseToolCall(call)
	if err != nil {
		s.log.Warn("Tool call rejected", "room_code", room.Code, "tool", call.Name, "error", err)
		return ToolResult{}, false
	}

	switch inv := invocation.(type) {
	case mediation.EnableUserChat:
		return s.enableUserChat(room, inv), true
	case mediation.UnknownTool:
		s.log.Warn("Unknown tool", "room_code", room.Code, "tool", inv.Name)
		return ToolResult{}, false
	default:
		s.log.Warn("Unhandled tool", "room_code", room.Code, "tool", invocation.ToolName())
		return ToolResult{}, false
	}
}

func (s *MediatorService) enableUserChat(room domain.Room, inv mediation.EnableUserChat) ToolResult {
	result := ToolResult{CallID: inv.ID, Tool: inv.ToolName(), Text: inv.FailureText()}
	// The mediator of a room only acts on that room
	if inv.RoomCode != room.Code {
		s.log.Warn("Tool call outside its room", "room_code", room.Code, "target_room_code", inv.RoomCode, "email", inv.UserEmail)
		return result
	}
	if _, err := s.members.SetInputEnabled(inv.RoomCode, inv.UserEmail, inv.IsInputEnable, s.now().UTC()); err != nil {
		s.log.Warn("Chat toggle failed", "room_code", inv.RoomCode, "email", inv.UserEmail, "error", err)
		return result
	}
	s.log.Info("Chat toggled", "room_code", inv.RoomCode, "email", inv.UserEmail, "is_input_enable", inv.IsInputEnable)
	result.Applied = true
	result.Text = inv.SuccessText()
	return result
}

func (s *MediatorService) newMessage(roomCode domain.RoomCode, email, content string, role domain.Role, isPublic, isContext bool, at time.Time) domain.Message {
	return domain.Message{
		ID:        uuid.New(),
		RoomCode:  roomCode,
		Email:     email,
		Content:   content,
		Role:      role,
		IsPublic:  isPublic,
		IsContext: isContext,
		CreatedAt: at,
	}
}
