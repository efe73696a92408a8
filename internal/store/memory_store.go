package store

import (
	"context"
	"sort"
	"sync"

	"github.com/edgecraft/backend/internal/model/concept"
	"github.com/edgecraft/backend/internal/model/reflection"
	"github.com/edgecraft/backend/internal/model/user"
)

// MemoryStore implements Store with mutex-guarded maps. Used for tests and
// for running without a provisioned database.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]UserModel
	concepts    map[string]concept.Concept
	reflections map[string]reflection.Reflection
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]UserModel),
		concepts:    make(map[string]concept.Concept),
		reflections: make(map[string]reflection.Reflection),
	}
}

func (s *MemoryStore) SaveUser(_ context.Context, u user.User, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = UserModel{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PasswordHash: passwordHash,
		CreatedAt:    u.CreatedAt,
	}
	return nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (user.User, string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, model := range s.users {
		if model.Email == email {
			return toUser(model), model.PasswordHash, true, nil
		}
	}
	return user.User{}, "", false, nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (user.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	model, ok := s.users[id]
	if !ok {
		return user.User{}, false, nil
	}
	return toUser(model), true, nil
}

func (s *MemoryStore) SaveConcept(_ context.Context, c concept.Concept) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ExperienceTags = append([]string(nil), c.ExperienceTags...)
	s.concepts[c.ID] = c
	return nil
}

func (s *MemoryStore) ListConceptsByOwner(_ context.Context, ownerID string) ([]concept.Concept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	concepts := make([]concept.Concept, 0)
	for _, c := range s.concepts {
		if c.OwnerID == ownerID {
			c.ExperienceTags = append([]string(nil), c.ExperienceTags...)
			concepts = append(concepts, c)
		}
	}
	sort.Slice(concepts, func(i, j int) bool {
		return concepts[i].CreatedAt.After(concepts[j].CreatedAt)
	})
	return concepts, nil
}

func (s *MemoryStore) DeleteConcept(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.concepts[id]
	if !ok || c.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(s.concepts, id)
	return nil
}

func (s *MemoryStore) SaveReflection(_ context.Context, r reflection.Reflection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reflections {
		if existing.OwnerID == r.OwnerID && existing.Date == r.Date {
			return ErrReflectionExists
		}
	}
	r.QuestionSet = append([]string(nil), r.QuestionSet...)
	r.Responses = append([]string(nil), r.Responses...)
	s.reflections[r.ID] = r
	return nil
}

func (s *MemoryStore) GetReflectionByDate(_ context.Context, ownerID, date string) (reflection.Reflection, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reflections {
		if r.OwnerID == ownerID && r.Date == date {
			return copyReflection(r), true, nil
		}
	}
	return reflection.Reflection{}, false, nil
}

func (s *MemoryStore) ListReflectionsByOwner(_ context.Context, ownerID string, limit int) ([]reflection.Reflection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reflections := make([]reflection.Reflection, 0)
	for _, r := range s.reflections {
		if r.OwnerID == ownerID {
			reflections = append(reflections, copyReflection(r))
		}
	}
	sort.Slice(reflections, func(i, j int) bool {
		return reflections[i].CreatedAt.After(reflections[j].CreatedAt)
	})
	if limit > 0 && len(reflections) > limit {
		reflections = reflections[:limit]
	}
	return reflections, nil
}

// copyReflection detaches the returned slices from the stored record.
func copyReflection(r reflection.Reflection) reflection.Reflection {
	r.QuestionSet = append([]string(nil), r.QuestionSet...)
	r.Responses = append([]string(nil), r.Responses...)
	return r
}
