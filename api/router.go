// Package api exposes the mediated chat over HTTP.
package api

import (
	"log/slog"
	"mediator/auth"
	"net/http"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Accounts *AccountHandler
	Rooms    *RoomHandler
	Messages *MessageHandler
}

// NewRouter wires every route behind the bearer token interceptor.
// Only /healthz and the account routes are public.
func NewRouter(h Handlers, tokens auth.TokenManager, log *slog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(auth.Interceptor(tokens, log))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/auth/register", h.Accounts.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Accounts.Login).Methods(http.MethodPost)

	r.HandleFunc("/messages", h.Messages.Send).Methods(http.MethodPost)

	rooms := r.PathPrefix("/rooms").Subrouter()
	rooms.HandleFunc("", h.Rooms.CreateRoom).Methods(http.MethodPost)
	rooms.HandleFunc("", h.Rooms.ListRooms).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}", h.Rooms.GetRoom).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/parent", h.Rooms.ParentRoomCode).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/breakouts", h.Rooms.CreateBreakouts).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/breakout", h.Rooms.GetBreakout).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/participants", h.Rooms.Participants).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/status", h.Rooms.Status).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/members/{email}/status", h.Rooms.SetStatus).Methods(http.MethodPut)
	rooms.HandleFunc("/{code}/end", h.Rooms.EndChat).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/messages", h.Rooms.Messages).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/turns", h.Rooms.Turn).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/search", h.Rooms.Search).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/sync", h.Rooms.Sync).Methods(http.MethodPost)

	return r
}
