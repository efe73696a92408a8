package chat

import "time"

// Session captures a transient role-play conversation. Transcripts are
// session-scoped and never persisted.
type Session struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"ownerId"`
	ScenarioID string    `json:"scenarioId"`
	CreatedAt  time.Time `json:"createdAt"`
}
