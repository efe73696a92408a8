package workshop

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edgecraft/backend/internal/apperr"
	"github.com/edgecraft/backend/internal/store"
)

type stubGenerator struct {
	replies []string
	calls   int
	prompts []string
	err     error
}

func (g *stubGenerator) GenerateText(_ context.Context, prompt string, _ int) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	reply := g.replies[g.calls%len(g.replies)]
	g.calls++
	return reply, nil
}

func newTestService(gen TextGenerator) (*Service, *store.MemoryStore) {
	st := store.NewMemoryStore()
	svc := NewService(st, gen, 200, 50, zap.NewNop())
	svc.pickAnalogy = func() string { return "a Michelin-star tasting menu" }
	return svc, st
}

func TestAddExperienceDedupes(t *testing.T) {
	svc, _ := newTestService(nil)

	svc.AddExperience("user-1", "Parenting")
	svc.AddExperience("user-1", "  Parenting  ")
	svc.AddExperience("user-1", "")
	draft := svc.AddExperience("user-1", "Teaching")

	assert.Equal(t, []string{"Parenting", "Teaching"}, draft.ExperienceTags)
}

func TestRemoveExperience(t *testing.T) {
	svc, _ := newTestService(nil)

	svc.AddExperience("user-1", "Parenting")
	svc.AddExperience("user-1", "Teaching")
	draft := svc.RemoveExperience("user-1", "Parenting")

	assert.Equal(t, []string{"Teaching"}, draft.ExperienceTags)
}

func TestGenerateRequiresExperiences(t *testing.T) {
	gen := &stubGenerator{replies: []string{"unused"}}
	svc, _ := newTestService(gen)

	_, err := svc.Generate(context.Background(), "user-1")
	assert.True(t, apperr.IsKind(err, apperr.Validation), "got %v", err)
	assert.Empty(t, gen.prompts, "generator must not be called without tags")
}

func TestGenerateFillsDraft(t *testing.T) {
	gen := &stubGenerator{replies: []string{
		"Treat every client engagement like a tasting menu.",
		`  "Small plates, big career." `,
	}}
	svc, _ := newTestService(gen)

	svc.AddExperience("user-1", "Parenting")
	svc.AddExperience("user-1", "Restaurant work")

	draft, err := svc.Generate(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "Treat every client engagement like a tasting menu.", draft.StrategyText)
	assert.Equal(t, "Small plates, big career.", draft.Catchphrase, "catchphrase is trimmed and unquoted")
	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[0], "Parenting")
	assert.Contains(t, gen.prompts[0], "a Michelin-star tasting menu")
	assert.Contains(t, gen.prompts[1], draft.StrategyText)
}

func TestGenerateFailureLeavesDraftUntouched(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model unavailable")}
	svc, _ := newTestService(gen)

	svc.AddExperience("user-1", "Parenting")
	svc.UpdateDraft("user-1", "My concept", "some notes")

	_, err := svc.Generate(context.Background(), "user-1")
	require.Error(t, err)

	draft := svc.Draft("user-1")
	assert.Empty(t, draft.StrategyText)
	assert.Empty(t, draft.Catchphrase)
	assert.Equal(t, "My concept", draft.Title)
}

func TestGenerateWithoutGenerator(t *testing.T) {
	svc, _ := newTestService(nil)
	svc.AddExperience("user-1", "Parenting")

	_, err := svc.Generate(context.Background(), "user-1")
	assert.True(t, apperr.IsKind(err, apperr.Generation), "got %v", err)
}

func TestSaveRequiresTitleAndStrategy(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.Save(context.Background(), "user-1")
	assert.True(t, apperr.IsKind(err, apperr.Validation), "got %v", err)
}

func TestSavePersistsAndResetsDraft(t *testing.T) {
	gen := &stubGenerator{replies: []string{"strategy text", "tagline"}}
	svc, st := newTestService(gen)
	ctx := context.Background()

	svc.AddExperience("user-1", "Parenting")
	svc.UpdateDraft("user-1", "Tasting menu consulting", "keep portions small")
	_, err := svc.Generate(ctx, "user-1")
	require.NoError(t, err)

	saved, err := svc.Save(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "Tasting menu consulting", saved.Title)
	assert.Equal(t, "strategy text", saved.IdeaText)
	assert.Equal(t, []string{"Parenting"}, saved.ExperienceTags)

	stored, err := st.ListConceptsByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, saved.ID, stored[0].ID)

	// Saving resets the editing state.
	draft := svc.Draft("user-1")
	assert.Empty(t, draft.Title)
	assert.Empty(t, draft.ExperienceTags)
}

func TestDraftsAreScopedPerOwner(t *testing.T) {
	svc, _ := newTestService(nil)

	svc.AddExperience("user-1", "Parenting")
	svc.AddExperience("user-2", "Gaming")

	assert.Equal(t, []string{"Parenting"}, svc.Draft("user-1").ExperienceTags)
	assert.Equal(t, []string{"Gaming"}, svc.Draft("user-2").ExperienceTags)
}
