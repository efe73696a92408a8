package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edgecraft/backend/internal/model/chat"
	"github.com/edgecraft/backend/internal/model/scenario"
)

var (
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrEmptyMessage     = errors.New("message is empty")
	ErrStreamInFlight   = errors.New("a response is already streaming")
)

// Service encapsulates transcript state for role-play sessions. Transcripts
// are transient: ClearSession drops them entirely.
type Service struct {
	mu        sync.RWMutex
	sessions  map[string]chat.Session
	messages  map[string][]chat.Message
	streaming map[string]bool
	scenarios scenario.Store
}

// NewService bootstraps the in-memory chat service.
func NewService(scenarios scenario.Store) *Service {
	return &Service{
		sessions:  make(map[string]chat.Session),
		messages:  make(map[string][]chat.Message),
		streaming: make(map[string]bool),
		scenarios: scenarios,
	}
}

// CreateSession provisions a session bound to a scenario and seeds the
// transcript with the scenario greeting.
func (s *Service) CreateSession(_ context.Context, ownerID, scenarioID string) (chat.Session, error) {
	sc, ok := s.scenarios.FindByID(scenarioID)
	if !ok {
		return chat.Session{}, ErrScenarioNotFound
	}

	session := chat.Session{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		ScenarioID: sc.ID,
		CreatedAt:  time.Now().UTC(),
	}

	greeting := chat.Message{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		Role:      chat.RoleAssistant,
		Content:   sc.Greeting(),
		CreatedAt: session.CreatedAt,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.messages[session.ID] = []chat.Message{greeting}
	s.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session scoped to its owner.
func (s *Service) GetSession(_ context.Context, ownerID, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionLocked(ownerID, sessionID)
}

// Scenario resolves the scenario bound to a session.
func (s *Service) Scenario(_ context.Context, ownerID, sessionID string) (scenario.Scenario, error) {
	s.mu.RLock()
	session, err := s.sessionLocked(ownerID, sessionID)
	s.mu.RUnlock()
	if err != nil {
		return scenario.Scenario{}, err
	}

	sc, ok := s.scenarios.FindByID(session.ScenarioID)
	if !ok {
		return scenario.Scenario{}, ErrScenarioNotFound
	}
	return sc, nil
}

// Transcript returns a copy of the session's ordered messages.
func (s *Service) Transcript(_ context.Context, ownerID, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.sessionLocked(ownerID, sessionID); err != nil {
		return nil, err
	}

	messages := s.messages[sessionID]
	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

// AppendUserMessage adds a user turn. Blank text and sends while a stream
// is in flight are rejected without touching the transcript.
func (s *Service) AppendUserMessage(_ context.Context, ownerID, sessionID, content string) (chat.Message, error) {
	if strings.TrimSpace(content) == "" {
		return chat.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.sessionLocked(ownerID, sessionID); err != nil {
		return chat.Message{}, err
	}
	if s.streaming[sessionID] {
		return chat.Message{}, ErrStreamInFlight
	}

	message := chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      chat.RoleUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	s.messages[sessionID] = append(s.messages[sessionID], message)
	return message, nil
}

// BeginStream marks the session as streaming. At most one stream per
// session may be open.
func (s *Service) BeginStream(_ context.Context, ownerID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.sessionLocked(ownerID, sessionID); err != nil {
		return err
	}
	if s.streaming[sessionID] {
		return ErrStreamInFlight
	}
	s.streaming[sessionID] = true
	return nil
}

// AppendFragment merges one streamed fragment into the pending assistant
// message, creating it on the first fragment. Fragments apply in delivery
// order; the pending message is always the last transcript element.
func (s *Service) AppendFragment(_ context.Context, sessionID, fragment string) error {
	if fragment == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.streaming[sessionID] {
		return ErrSessionNotFound
	}

	messages := s.messages[sessionID]
	if n := len(messages); n > 0 && messages[n-1].Pending() {
		messages[n-1].Content += fragment
		return nil
	}

	s.messages[sessionID] = append(messages, chat.Message{
		ID:        chat.PendingID,
		SessionID: sessionID,
		Role:      chat.RoleAssistant,
		Content:   fragment,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

// FinalizeStream closes the stream and assigns the pending message its
// permanent identifier. Partial content from a failed stream is finalized
// the same way; the transport surfaces the error separately.
func (s *Service) FinalizeStream(_ context.Context, sessionID string) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.streaming[sessionID] {
		return chat.Message{}, ErrSessionNotFound
	}
	delete(s.streaming, sessionID)

	messages := s.messages[sessionID]
	n := len(messages)
	if n == 0 || !messages[n-1].Pending() {
		// The stream delivered no fragments.
		return chat.Message{}, nil
	}

	messages[n-1].ID = uuid.NewString()
	return messages[n-1], nil
}

// ClearSession resets the conversation to its initial no-scenario state.
func (s *Service) ClearSession(_ context.Context, ownerID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.sessionLocked(ownerID, sessionID); err != nil {
		return err
	}

	delete(s.sessions, sessionID)
	delete(s.messages, sessionID)
	delete(s.streaming, sessionID)
	return nil
}

func (s *Service) sessionLocked(ownerID, sessionID string) (chat.Session, error) {
	session, ok := s.sessions[sessionID]
	if !ok || session.OwnerID != ownerID {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}
