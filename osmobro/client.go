//go:generate go run go.uber.org/mock/mockgen -source=client.go -destination=../mocks/mock_osmobro.go -package=mocks
package osmobro

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mediator/errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Message is the body the router expects on /message.
type Message struct {
	Email     string `json:"email"`
	Content   string `json:"content"`
	RoomCode  string `json:"room_code"`
	Role      string `json:"role"`
	IsPublic  bool   `json:"is_public"`
	IsContext bool   `json:"is_context"`
}

// IRouter is the external conversation router.
type IRouter interface {
	SendMessage(ctx context.Context, message Message) error
	InitialiseRoom(ctx context.Context, roomCode string) error
	SyncContext(ctx context.Context, roomCode string) error
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

func NewClient(log *slog.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *Client) SendMessage(ctx context.Context, message Message) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return c.post(ctx, "/message", body)
}

func (c *Client) InitialiseRoom(ctx context.Context, roomCode string) error {
	return c.post(ctx, fmt.Sprintf("/room/%s/initialise", url.PathEscape(roomCode)), nil)
}

func (c *Client) SyncContext(ctx context.Context, roomCode string) error {
	return c.post(ctx, fmt.Sprintf("/room/%s/sync_context", url.PathEscape(roomCode)), nil)
}

func (c *Client) post(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errors.ErrRouterUnavailable, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 240))
		return fmt.Errorf("%w: %s http %d: %s", errors.ErrRouterUnavailable, path, resp.StatusCode, payload)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	c.log.Debug("Router call succeeded", "path", path)
	return nil
}
