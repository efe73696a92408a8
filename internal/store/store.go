package store

import (
	"context"
	"errors"

	"github.com/edgecraft/backend/internal/model/concept"
	"github.com/edgecraft/backend/internal/model/reflection"
	"github.com/edgecraft/backend/internal/model/user"
)

var (
	// ErrUnavailable marks read failures where the backing store could not
	// serve the query at all, as opposed to a query returning zero rows.
	// Callers degrade these to an empty result.
	ErrUnavailable = errors.New("document store unavailable")

	// ErrReflectionExists enforces at most one reflection per owner and day.
	ErrReflectionExists = errors.New("reflection already submitted for this day")

	// ErrNotFound reports a write against a missing or foreign record.
	ErrNotFound = errors.New("record not found")
)

// Store defines persistence for users, concepts, and reflections. Every
// query and write is scoped by owner; there are no retries and no caching.
type Store interface {
	// users
	SaveUser(ctx context.Context, u user.User, passwordHash string) error
	GetUserByEmail(ctx context.Context, email string) (user.User, string, bool, error)
	GetUserByID(ctx context.Context, id string) (user.User, bool, error)

	// concepts
	SaveConcept(ctx context.Context, c concept.Concept) error
	ListConceptsByOwner(ctx context.Context, ownerID string) ([]concept.Concept, error)
	DeleteConcept(ctx context.Context, ownerID, id string) error

	// reflections
	SaveReflection(ctx context.Context, r reflection.Reflection) error
	GetReflectionByDate(ctx context.Context, ownerID, date string) (reflection.Reflection, bool, error)
	ListReflectionsByOwner(ctx context.Context, ownerID string, limit int) ([]reflection.Reflection, error)
}
