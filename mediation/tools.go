package mediation

import (
	"encoding/json"
	"fmt"
	"mediator/ai"
	"mediator/errors"
)

const EnableUserChatTool = "enableUserChat"

// Tools lists the functions exposed to the mediator model.
func Tools() []ai.Tool {
	return []ai.Tool{{
		Name:        EnableUserChatTool,
		Description: "Enable or disable the chat input of one user in a room",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"is_input_enable": map[string]any{"type": "boolean", "description": "Whether the user may type"},
				"room_code":       map[string]any{"type": "string", "description": "Room code"},
				"userEmail":       map[string]any{"type": "string", "description": "User email"},
			},
			"required": []string{"is_input_enable", "room_code", "userEmail"},
		},
	}}
}

// Invocation is a tool call the model requested, decoded into its variant.
type Invocation interface {
	CallID() string
	ToolName() string
}

type EnableUserChat struct {
	ID            string
	IsInputEnable bool
	RoomCode      string
	UserEmail     string
}

func (e EnableUserChat) CallID() string   { return e.ID }
func (e EnableUserChat) ToolName() string { return EnableUserChatTool }

// SuccessText is what the model and the room read once the toggle applied.
func (e EnableUserChat) SuccessText() string {
	state := "disabled"
	if e.IsInputEnable {
		state = "enabled"
	}
	return fmt.Sprintf("User chat is %s for %s", state, e.UserEmail)
}

func (e EnableUserChat) FailureText() string {
	return fmt.Sprintf("Failed to enable user chat for %s", e.UserEmail)
}

// UnknownTool is kept so the caller can log it; it is never executed.
type UnknownTool struct {
	ID   string
	Name string
}

func (u UnknownTool) CallID() string   { return u.ID }
func (u UnknownTool) ToolName() string { return u.Name }

// ParseToolCall decodes a raw tool call. Unknown names give an UnknownTool
// together with ErrUnknownTool, malformed arguments give ErrValidation.
func ParseToolCall(call ai.ToolCall) (Invocation, error) {
	switch call.Name {
	case EnableUserChatTool:
		var args struct {
			IsInputEnable *bool  `json:"is_input_enable"`
			RoomCode      string `json:"room_code"`
			UserEmail     string `json:"userEmail"`
		}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return nil, fmt.Errorf("%w: %s arguments: %v", errors.ErrValidation, call.Name, err)
		}
		var missing []string
		if args.IsInputEnable == nil {
			missing = append(missing, "is_input_enable")
		}
		if args.RoomCode == "" {
			missing = append(missing, "room_code")
		}
		if args.UserEmail == "" {
			missing = append(missing, "userEmail")
		}
		if len(missing) > 0 {
			return nil, errors.NewValidationError(missing...)
		}
		return EnableUserChat{
			ID:            call.ID,
			IsInputEnable: *args.IsInputEnable,
			RoomCode:      args.RoomCode,
			UserEmail:     args.UserEmail,
		}, nil
	default:
		return UnknownTool{ID: call.ID, Name: call.Name}, fmt.Errorf("%w: %s", errors.ErrUnknownTool, call.Name)
	}
}
