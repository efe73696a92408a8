package scenario

import (
	"strings"
	"testing"
)

func TestSeedScenariosComplete(t *testing.T) {
	scenarios := Seed()
	if len(scenarios) != 4 {
		t.Fatalf("expected 4 scenarios, got %d", len(scenarios))
	}

	for _, s := range scenarios {
		if s.ID == "" || s.Title == "" || s.Description == "" || s.SystemPrompt == "" {
			t.Errorf("scenario %q has empty fields: %+v", s.ID, s)
		}
	}
}

func TestGreeting(t *testing.T) {
	s := Scenario{Title: "Career Coach", Description: "Get guidance on career development."}

	greeting := s.Greeting()
	if !strings.HasPrefix(greeting, "Hello! I'm your career coach.") {
		t.Fatalf("unexpected greeting %q", greeting)
	}
	if !strings.Contains(greeting, s.Description) {
		t.Fatalf("greeting should include the description: %q", greeting)
	}
}

func TestMemoryStoreFindByID(t *testing.T) {
	store := NewMemoryStore(Seed())

	if _, ok := store.FindByID("career-coach"); !ok {
		t.Fatal("career-coach should exist")
	}
	if _, ok := store.FindByID("missing"); ok {
		t.Fatal("unexpected match for missing scenario")
	}
	if got := len(store.List()); got != 4 {
		t.Fatalf("expected 4 scenarios listed, got %d", got)
	}
}
