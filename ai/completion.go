//go:generate go run go.uber.org/mock/mockgen -source=completion.go -destination=../mocks/mock_completion.go -package=mocks
package ai

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry of the conversation sent to the model.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// ToolCall is a function invocation requested by the model.
// Arguments is the raw JSON object the model produced.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Tool describes a function the model may call.
// Parameters is a JSON schema object.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

type CompletionRequest struct {
	Messages []Message
	Tools    []Tool
}

// CompletionResponse carries the first choice of the model.
type CompletionResponse struct {
	Content   string
	ToolCalls []ToolCall
}

// CompletionClient is the chat completion capability the mediator relies on.
type CompletionClient interface {
	Complete(ctx context.Context, request CompletionRequest) (CompletionResponse, error)
}
