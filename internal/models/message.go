package models

// Message roles understood by the generation pipeline.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a generation request.
// Messages are ephemeral: they are constructed per request and never stored.
// A system message may reference a stored prompt template by id instead of
// carrying literal text; see internal/promptref.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
