// Package mediation turns a room history into the conversation the mediator
// model reads, and decodes the tool calls it answers with.
package mediation

import (
	"mediator/ai"
	"mediator/domain"

	"github.com/samber/lo"
)

// AssembleContext keeps the messages the requester may see, oldest first,
// decorates them and prepends the system prompt of the room's mediator.
func AssembleContext(room domain.Room, requester string, history []domain.Message) []ai.Message {
	visible := lo.Filter(history, func(m domain.Message, _ int) bool {
		return m.VisibleTo(requester)
	})
	messages := make([]ai.Message, 0, len(visible)+1)
	messages = append(messages, ai.Message{Role: ai.RoleSystem, Content: SystemPrompt(room.Mediator)})
	for _, m := range visible {
		messages = append(messages, ai.Message{Role: CompletionRole(m.Role), Content: m.Decorated()})
	}
	return messages
}

// CompletionRole maps a stored role onto the roles the model accepts.
// Mediator and representative turns are AI voices, so they read as assistant.
func CompletionRole(r domain.Role) ai.Role {
	switch r {
	case domain.RoleUser:
		return ai.RoleUser
	case domain.RoleSystem:
		return ai.RoleSystem
	case domain.RoleAssistant, domain.RoleMediator, domain.RoleRepresentative:
		return ai.RoleAssistant
	default:
		return ai.RoleUser
	}
}
