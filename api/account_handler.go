package api

import (
	"log/slog"
	"mediator/auth"
	"mediator/services"
	"net/http"
)

type AccountHandler struct {
	accounts services.IAccountService
	log      *slog.Logger
}

func NewAccountHandler(accounts services.IAccountService, log *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, log: log}
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body auth.RegisterRequest
	if err := decode(r, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	token, err := h.accounts.Register(body.Email, body.Password)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: string(token)})
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body auth.RegisterRequest
	if err := decode(r, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	token, err := h.accounts.Login(body.Email, body.Password)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: string(token)})
}
