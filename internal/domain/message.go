package domain

// Message roles understood by the engine and the model backend.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is a single turn in a conversation. Timestamp and AudioURL are
// carried for clients; the engine forwards only role and content to the model.
type ChatMessage struct {
	Role      string   `json:"role"`
	Content   string   `json:"content"`
	Timestamp *float64 `json:"timestamp,omitempty"`
	AudioURL  *string  `json:"audio_url,omitempty"`
}

// Recent returns the last n messages of history in conversation order.
func Recent(history []ChatMessage, n int) []ChatMessage {
	if n >= len(history) {
		return history
	}
	return history[len(history)-n:]
}
