package api

import (
	"log/slog"
	"mediator/auth"
	"mediator/domain"
	"mediator/services"
	"net/http"
)

type MessageHandler struct {
	gateway services.IGateway
	log     *slog.Logger
}

func NewMessageHandler(gateway services.IGateway, log *slog.Logger) *MessageHandler {
	return &MessageHandler{gateway: gateway, log: log}
}

// Send answers 202 once the message is queued for the router.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var body auth.MessageRequest
	if err := decode(r, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	if err := h.gateway.SendMessage(r.Context(), services.OutboundMessage{
		Email:     body.Email,
		Content:   body.Content,
		RoomCode:  body.RoomCode,
		Role:      domain.Role(body.Role),
		IsPublic:  body.IsPublic,
		IsContext: body.IsContext,
	}); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
