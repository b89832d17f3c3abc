package models

// Transcript roles. Turn 0 of every session is the system turn carrying the
// receptionist instructions plus the current availability digest; it is the
// only turn ever rewritten in place.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry in a conversation transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
