package ai

import (
	"context"
	"encoding/json"
	"log/slog"
	"mediator/errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const toolCallResponse = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-3.5-turbo",
  "choices": [{
    "index": 0,
    "finish_reason": "tool_calls",
    "message": {
      "role": "assistant",
      "content": "",
      "tool_calls": [{
        "id": "call_1",
        "type": "function",
        "function": {"name": "enableUserChat", "arguments": "{\"is_input_enable\":false,\"room_code\":\"R\",\"userEmail\":\"bob@x.com\"}"}
      }]
    }
  }],
  "usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

func TestOpenAIClient_Complete_ToolCall(t *testing.T) {
	req := require.New(t)
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/v1/chat/completions", r.URL.Path)
		req.Equal("Bearer test-key", r.Header.Get("Authorization"))
		req.NoError(json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(toolCallResponse))
	}))
	defer server.Close()

	client := NewOpenAIClient(slog.Default(), "test-key", server.URL+"/v1", "gpt-3.5-turbo", time.Second)
	resp, err := client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "be fair"},
			{Role: RoleUser, Content: "hello"},
		},
		Tools: []Tool{{Name: "enableUserChat", Parameters: map[string]any{"type": "object"}}},
	})
	req.NoError(err)

	req.Equal("gpt-3.5-turbo", received["model"])
	req.Equal("auto", received["tool_choice"])
	req.Len(received["messages"], 2)
	req.Len(received["tools"], 1)

	req.Empty(resp.Content)
	req.Equal([]ToolCall{{
		ID:        "call_1",
		Name:      "enableUserChat",
		Arguments: `{"is_input_enable":false,"room_code":"R","userEmail":"bob@x.com"}`,
	}}, resp.ToolCalls)
}

func TestOpenAIClient_Complete_ProviderError(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(slog.Default(), "test-key", server.URL+"/v1", "gpt-3.5-turbo", time.Second)
	_, err := client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	req.ErrorIs(err, errors.ErrCompletion)
}
