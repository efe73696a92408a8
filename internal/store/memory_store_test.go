package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edgecraft/backend/internal/model/concept"
	"github.com/edgecraft/backend/internal/model/reflection"
	"github.com/edgecraft/backend/internal/model/user"
	"github.com/edgecraft/backend/internal/store"
)

func TestMemoryStoreUserRoundTrip(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	u := user.User{ID: "u-1", Email: "ada@example.com", DisplayName: "Ada", CreatedAt: time.Now().UTC()}
	if err := st.SaveUser(ctx, u, "hash"); err != nil {
		t.Fatalf("SaveUser err: %v", err)
	}

	got, hash, found, err := st.GetUserByEmail(ctx, "ada@example.com")
	if err != nil || !found {
		t.Fatalf("GetUserByEmail found=%v err=%v", found, err)
	}
	if got.ID != "u-1" || hash != "hash" {
		t.Fatalf("unexpected user %+v hash %q", got, hash)
	}

	if _, _, found, _ := st.GetUserByEmail(ctx, "nobody@example.com"); found {
		t.Fatal("unexpected match for unknown email")
	}
}

func TestMemoryStoreConceptsNewestFirst(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"c-1", "c-2", "c-3"} {
		err := st.SaveConcept(ctx, concept.Concept{
			ID:        id,
			OwnerID:   "u-1",
			Title:     id,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("SaveConcept err: %v", err)
		}
	}

	concepts, err := st.ListConceptsByOwner(ctx, "u-1")
	if err != nil {
		t.Fatalf("ListConceptsByOwner err: %v", err)
	}
	if len(concepts) != 3 {
		t.Fatalf("expected 3 concepts, got %d", len(concepts))
	}
	if concepts[0].ID != "c-3" || concepts[2].ID != "c-1" {
		t.Fatalf("expected newest first, got %s..%s", concepts[0].ID, concepts[2].ID)
	}
}

func TestMemoryStoreReadsDetachedFromRecords(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	err := st.SaveConcept(ctx, concept.Concept{
		ID:             "c-1",
		OwnerID:        "u-1",
		ExperienceTags: []string{"Parenting", "Teaching"},
	})
	if err != nil {
		t.Fatalf("SaveConcept err: %v", err)
	}

	concepts, err := st.ListConceptsByOwner(ctx, "u-1")
	if err != nil {
		t.Fatalf("ListConceptsByOwner err: %v", err)
	}
	concepts[0].ExperienceTags[0] = "mutated"

	concepts, err = st.ListConceptsByOwner(ctx, "u-1")
	if err != nil {
		t.Fatalf("ListConceptsByOwner err: %v", err)
	}
	if concepts[0].ExperienceTags[0] != "Parenting" {
		t.Fatalf("stored tags were mutated through a read: %v", concepts[0].ExperienceTags)
	}

	if err := st.SaveReflection(ctx, reflection.Reflection{
		ID: "r-1", OwnerID: "u-1", Date: "2026-03-14",
		Responses: []string{"a", "b", "c", "d", "e"},
	}); err != nil {
		t.Fatalf("SaveReflection err: %v", err)
	}

	got, _, err := st.GetReflectionByDate(ctx, "u-1", "2026-03-14")
	if err != nil {
		t.Fatalf("GetReflectionByDate err: %v", err)
	}
	got.Responses[0] = "mutated"

	got, _, err = st.GetReflectionByDate(ctx, "u-1", "2026-03-14")
	if err != nil {
		t.Fatalf("GetReflectionByDate err: %v", err)
	}
	if got.Responses[0] != "a" {
		t.Fatalf("stored responses were mutated through a read: %v", got.Responses)
	}
}

func TestMemoryStoreDeleteConcept(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	if err := st.SaveConcept(ctx, concept.Concept{ID: "c-1", OwnerID: "u-1"}); err != nil {
		t.Fatalf("SaveConcept err: %v", err)
	}

	if err := st.DeleteConcept(ctx, "u-2", "c-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("delete by non-owner should be ErrNotFound, got %v", err)
	}
	if err := st.DeleteConcept(ctx, "u-1", "c-1"); err != nil {
		t.Fatalf("DeleteConcept err: %v", err)
	}
	if err := st.DeleteConcept(ctx, "u-1", "c-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreReflectionUniquePerDay(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	first := reflection.Reflection{ID: "r-1", OwnerID: "u-1", Date: "2026-03-14"}
	if err := st.SaveReflection(ctx, first); err != nil {
		t.Fatalf("SaveReflection err: %v", err)
	}

	dup := reflection.Reflection{ID: "r-2", OwnerID: "u-1", Date: "2026-03-14"}
	if err := st.SaveReflection(ctx, dup); !errors.Is(err, store.ErrReflectionExists) {
		t.Fatalf("expected ErrReflectionExists, got %v", err)
	}

	other := reflection.Reflection{ID: "r-3", OwnerID: "u-2", Date: "2026-03-14"}
	if err := st.SaveReflection(ctx, other); err != nil {
		t.Fatalf("other owner same day should save, got %v", err)
	}

	got, found, err := st.GetReflectionByDate(ctx, "u-1", "2026-03-14")
	if err != nil || !found {
		t.Fatalf("GetReflectionByDate found=%v err=%v", found, err)
	}
	if got.ID != "r-1" {
		t.Fatalf("unexpected reflection %q", got.ID)
	}
}
