package chat

import "time"

// Roles of a transcript message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// PendingID marks the single in-flight assistant message while a stream is
// open. It is replaced with a permanent identifier on finalize.
const PendingID = "streaming"

// Message is one ordered turn of a session transcript.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Pending reports whether the message is the not-yet-finalized tail of an
// open stream.
func (m Message) Pending() bool {
	return m.ID == PendingID
}
