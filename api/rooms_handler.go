package api

import (
	"log/slog"
	"mediator/auth"
	"mediator/domain"
	"mediator/services"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
)

type RoomHandler struct {
	lifecycle services.ILifecycleService
	breakouts services.IBreakoutResolver
	rooms     services.IRoomService
	mediator  services.IMediatorService
	gateway   services.IGateway
	log       *slog.Logger
}

func NewRoomHandler(
	lifecycle services.ILifecycleService,
	breakouts services.IBreakoutResolver,
	rooms services.IRoomService,
	mediator services.IMediatorService,
	gateway services.IGateway,
	log *slog.Logger,
) *RoomHandler {
	return &RoomHandler{
		lifecycle: lifecycle,
		breakouts: breakouts,
		rooms:     rooms,
		mediator:  mediator,
		gateway:   gateway,
		log:       log,
	}
}

func roomCode(r *http.Request) domain.RoomCode {
	return mux.Vars(r)["code"]
}

func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var body auth.CreateRoomRequest
	if err := decode(r, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	code, err := h.lifecycle.CreateRoom(r.Context(), services.CreateRoomInput{
		Mediator:       domain.MediatorType(body.Mediator),
		Description:    body.Description,
		Participants:   body.Participants,
		RoomName:       body.RoomName,
		CreatorEmail:   body.CreatorEmail,
		ParentRoomCode: body.ParentRoomCode,
	})
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"room_code": code})
}

func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.UserRooms(r.Context())
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponses(rooms))
}

func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.GetRoom(r.Context(), roomCode(r))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(room))
}

func (h *RoomHandler) ParentRoomCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.rooms.ParentRoomCode(r.Context(), roomCode(r))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"parent_room_code": code})
}

func (h *RoomHandler) CreateBreakouts(w http.ResponseWriter, r *http.Request) {
	// Only members may fan a room out
	if _, _, err := h.rooms.VerifyMembership(r.Context(), roomCode(r)); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	codes, err := h.lifecycle.CreateBreakoutRooms(r.Context(), roomCode(r))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string][]string{"room_codes": codes})
}

func (h *RoomHandler) GetBreakout(w http.ResponseWriter, r *http.Request) {
	room, err := h.breakouts.GetBreakoutRoom(r.Context(), roomCode(r))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(room))
}

func (h *RoomHandler) Participants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.rooms.Participants(r.Context(), roomCode(r))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(participants, func(p domain.Participant, _ int) participantResponse {
		return participantResponse{
			Email:       p.Email,
			DisplayName: p.DisplayName,
			Initials:    p.Initials,
			Status:      string(p.Status),
			CanType:     p.CanType,
		}
	}))
}

func (h *RoomHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.rooms.RoomStatus(r.Context(), roomCode(r))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatusResponse(status))
}

func (h *RoomHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	membership, err := h.rooms.SetStatus(r.Context(), roomCode(r), mux.Vars(r)["email"], domain.MembershipStatus(body.Status))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, membershipResponse{
		RoomCode:      membership.RoomCode,
		Email:         membership.Email,
		IsInputEnable: membership.IsInputEnable,
		Status:        string(membership.Status),
		UpdatedAt:     membership.UpdatedAt,
	})
}

func (h *RoomHandler) EndChat(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.EndChat(r.Context(), roomCode(r))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(room))
}

// Messages lists the room log; ?debug also returns system messages.
func (h *RoomHandler) Messages(w http.ResponseWriter, r *http.Request) {
	_, debug := r.URL.Query()["debug"]
	messages, err := h.rooms.ListMessages(r.Context(), roomCode(r), debug)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMessageResponses(messages))
}

func (h *RoomHandler) Turn(w http.ResponseWriter, r *http.Request) {
	var body auth.TurnRequest
	if err := decode(r, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	result, err := h.mediator.HandleUserMessage(r.Context(), services.UserTurn{
		RoomCode:  roomCode(r),
		Content:   body.Content,
		IsPrivate: body.IsPrivate,
		IsContext: body.IsContext,
	})
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTurnResponse(result))
}

func (h *RoomHandler) Search(w http.ResponseWriter, r *http.Request) {
	hits, err := h.rooms.Search(r.Context(), roomCode(r), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHitResponses(hits))
}

func (h *RoomHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if _, _, err := h.rooms.VerifyMembership(r.Context(), roomCode(r)); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	if err := h.gateway.SyncContext(r.Context(), roomCode(r)); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
