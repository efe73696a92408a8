package concept

import (
	"strings"
	"time"
)

// Concept is a saved differentiation strategy. Immutable once created
// except for delete.
type Concept struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"ownerId"`
	Title          string    `json:"title"`
	IdeaText       string    `json:"ideaText"`
	Catchphrase    string    `json:"catchphrase,omitempty"`
	ExperienceTags []string  `json:"experienceTags"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// MatchesSearch reports whether the concept contains the already-lowercased
// term in its title, idea text, tags, or catchphrase.
func (c Concept) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	if containsFold(c.Title, term) || containsFold(c.IdeaText, term) || containsFold(c.Catchphrase, term) {
		return true
	}
	for _, tag := range c.ExperienceTags {
		if containsFold(tag, term) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
