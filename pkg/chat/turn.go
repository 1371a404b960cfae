// Package chat holds the conversation model shared by the loop, the
// completion client, and the transcript store.
package chat

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleSystem exists for wire compatibility; the loop never produces it.
	RoleSystem Role = "system"
)

// Turn is a single message in a conversation. Turns are immutable once
// created.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserTurn builds a user turn.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn builds an assistant turn.
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}
