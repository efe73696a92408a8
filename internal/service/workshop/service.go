package workshop

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edgecraft/backend/internal/apperr"
	"github.com/edgecraft/backend/internal/model/concept"
	"github.com/edgecraft/backend/internal/store"
)

// TextGenerator is the single-shot generation contract the flow depends on.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Draft is the per-owner editing state staged between generate and save.
// No concept exists in the store until an explicit save.
type Draft struct {
	Title          string   `json:"title"`
	Notes          string   `json:"notes"`
	StrategyText   string   `json:"strategyText"`
	Catchphrase    string   `json:"catchphrase"`
	ExperienceTags []string `json:"experienceTags"`
}

// Service runs the concept generation flow: tag selection, AI-assisted
// strategy generation, and explicit save into the concept store.
type Service struct {
	mu             sync.Mutex
	drafts         map[string]*Draft
	store          store.Store
	generator      TextGenerator
	strategyTokens int
	taglineTokens  int
	pickAnalogy    func() string
	log            *zap.Logger
}

// NewService builds the workshop over the given store and generator.
func NewService(st store.Store, generator TextGenerator, strategyTokens, taglineTokens int, logger *zap.Logger) *Service {
	return &Service{
		drafts:         make(map[string]*Draft),
		store:          st,
		generator:      generator,
		strategyTokens: strategyTokens,
		taglineTokens:  taglineTokens,
		pickAnalogy:    randomAnalogy,
		log:            logger,
	}
}

func randomAnalogy() string {
	return crossIndustryIdeas[rand.Intn(len(crossIndustryIdeas))]
}

// Draft returns a copy of the owner's current editing state.
func (s *Service) Draft(ownerID string) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftLocked(ownerID).copy()
}

// AddExperience adds a tag to the owner's draft. Blank and duplicate tags
// are ignored silently.
func (s *Service) AddExperience(ownerID, tag string) Draft {
	tag = strings.TrimSpace(tag)

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.draftLocked(ownerID)
	if tag != "" && !draft.hasTag(tag) {
		draft.ExperienceTags = append(draft.ExperienceTags, tag)
	}
	return draft.copy()
}

// RemoveExperience drops a tag from the owner's draft if present.
func (s *Service) RemoveExperience(ownerID, tag string) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.draftLocked(ownerID)
	kept := draft.ExperienceTags[:0]
	for _, existing := range draft.ExperienceTags {
		if existing != tag {
			kept = append(kept, existing)
		}
	}
	draft.ExperienceTags = kept
	return draft.copy()
}

// UpdateDraft sets the title and notes of the owner's draft.
func (s *Service) UpdateDraft(ownerID, title, notes string) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.draftLocked(ownerID)
	draft.Title = title
	draft.Notes = notes
	return draft.copy()
}

// Generate combines the selected tags with a randomly chosen cross-industry
// analogy and requests a strategy plus a catchphrase. On failure the draft
// is left untouched.
func (s *Service) Generate(ctx context.Context, ownerID string) (Draft, error) {
	s.mu.Lock()
	tags := append([]string(nil), s.draftLocked(ownerID).ExperienceTags...)
	s.mu.Unlock()

	if len(tags) == 0 {
		return Draft{}, apperr.New(apperr.Validation, "select at least one experience before generating")
	}
	if s.generator == nil {
		return Draft{}, apperr.New(apperr.Generation, "ai generation is not configured")
	}

	analogy := s.pickAnalogy()

	strategy, err := s.generator.GenerateText(ctx, strategyPrompt(tags, analogy), s.strategyTokens)
	if err != nil {
		return Draft{}, err
	}

	catchphrase, err := s.generator.GenerateText(ctx, catchphrasePrompt(strategy), s.taglineTokens)
	if err != nil {
		return Draft{}, err
	}
	catchphrase = strings.Trim(strings.TrimSpace(catchphrase), `"'`)

	s.mu.Lock()
	draft := s.draftLocked(ownerID)
	draft.StrategyText = strategy
	draft.Catchphrase = catchphrase
	result := draft.copy()
	s.mu.Unlock()

	s.log.Info("strategy generated",
		zap.String("owner", ownerID),
		zap.Int("tags", len(tags)),
		zap.String("analogy", analogy),
	)
	return result, nil
}

// Save persists the staged concept and resets the draft to an empty
// editing state.
func (s *Service) Save(ctx context.Context, ownerID string) (concept.Concept, error) {
	s.mu.Lock()
	draft := s.draftLocked(ownerID).copy()
	s.mu.Unlock()

	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.StrategyText) == "" {
		return concept.Concept{}, apperr.New(apperr.Validation, "provide a title and generate an idea first")
	}

	record := concept.Concept{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Title:          draft.Title,
		IdeaText:       draft.StrategyText,
		Catchphrase:    draft.Catchphrase,
		ExperienceTags: draft.ExperienceTags,
		Notes:          draft.Notes,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.store.SaveConcept(ctx, record); err != nil {
		return concept.Concept{}, apperr.Wrap(apperr.Store, "save concept", err)
	}

	s.mu.Lock()
	delete(s.drafts, ownerID)
	s.mu.Unlock()

	s.log.Info("concept saved", zap.String("owner", ownerID), zap.String("concept", record.ID))
	return record, nil
}

func (s *Service) draftLocked(ownerID string) *Draft {
	draft, ok := s.drafts[ownerID]
	if !ok {
		draft = &Draft{ExperienceTags: make([]string, 0, 4)}
		s.drafts[ownerID] = draft
	}
	return draft
}

func (d *Draft) hasTag(tag string) bool {
	for _, existing := range d.ExperienceTags {
		if existing == tag {
			return true
		}
	}
	return false
}

func (d *Draft) copy() Draft {
	copied := *d
	copied.ExperienceTags = append([]string(nil), d.ExperienceTags...)
	return copied
}

func strategyPrompt(tags []string, analogy string) string {
	return fmt.Sprintf(`Create a unique differentiation strategy by combining these user experiences/attributes: %s with this cross-industry concept: %s.

Provide a creative, actionable differentiation idea that leverages the user's background in a unique way. Focus on practical application and competitive advantage. Keep it concise but inspiring.`,
		strings.Join(tags, ", "), analogy)
}

func catchphrasePrompt(strategy string) string {
	return fmt.Sprintf(`Based on this differentiation strategy: %q, create a memorable, punchy catchphrase or tagline that captures the essence of this unique approach. Make it catchy, professional, and memorable. Provide just the catchphrase, nothing else.`, strategy)
}
