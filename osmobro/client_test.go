package osmobro

import (
	"context"
	"io"
	"log/slog"
	"mediator/errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	method string
	path   string
	body   []byte
}

func newRouterServer(t *testing.T, status int) (*httptest.Server, func() []recordedCall) {
	var mu sync.Mutex
	var calls []recordedCall
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recordedCall{method: r.Method, path: r.URL.Path, body: body})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server, func() []recordedCall {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedCall(nil), calls...)
	}
}

func TestClient_SendMessage(t *testing.T) {
	req := require.New(t)
	server, calls := newRouterServer(t, http.StatusOK)
	client := NewClient(slog.Default(), server.URL+"/", time.Second)

	err := client.SendMessage(context.Background(), Message{
		Email: "alice@x.com", Content: "hi", RoomCode: "ROOMAAAAAAAAA", Role: "user", IsPublic: true,
	})
	req.NoError(err)

	recorded := calls()
	req.Len(recorded, 1)
	req.Equal(http.MethodPost, recorded[0].method)
	req.Equal("/message", recorded[0].path)
	req.JSONEq(`{"email":"alice@x.com","content":"hi","room_code":"ROOMAAAAAAAAA","role":"user","is_public":true,"is_context":false}`,
		string(recorded[0].body))
}

func TestClient_RoomTriggers(t *testing.T) {
	req := require.New(t)
	server, calls := newRouterServer(t, http.StatusNoContent)
	client := NewClient(slog.Default(), server.URL, time.Second)

	req.NoError(client.InitialiseRoom(context.Background(), "ROOMAAAAAAAAA"))
	req.NoError(client.SyncContext(context.Background(), "ROOMAAAAAAAAA"))

	recorded := calls()
	req.Len(recorded, 2)
	req.Equal("/room/ROOMAAAAAAAAA/initialise", recorded[0].path)
	req.Equal("/room/ROOMAAAAAAAAA/sync_context", recorded[1].path)
}

func TestClient_RouterFailure(t *testing.T) {
	req := require.New(t)
	server, _ := newRouterServer(t, http.StatusBadGateway)
	client := NewClient(slog.Default(), server.URL, time.Second)

	err := client.InitialiseRoom(context.Background(), "ROOMAAAAAAAAA")
	req.ErrorIs(err, errors.ErrRouterUnavailable)

	unreachable := NewClient(slog.Default(), "http://127.0.0.1:1", 100*time.Millisecond)
	err = unreachable.SyncContext(context.Background(), "ROOMAAAAAAAAA")
	req.ErrorIs(err, errors.ErrRouterUnavailable)
}
