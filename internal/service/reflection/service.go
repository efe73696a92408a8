package reflection

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edgecraft/backend/internal/apperr"
	"github.com/edgecraft/backend/internal/model/reflection"
	"github.com/edgecraft/backend/internal/store"
)

// maxStreakDays bounds the backward walk of the streak computation.
const maxStreakDays = 30

// Service schedules daily questions, accepts submissions, and computes
// trailing streaks.
type Service struct {
	store store.Store
	pool  []string
	log   *zap.Logger
}

// NewService builds a scheduler over the given store and question pool.
func NewService(st store.Store, pool []string, logger *zap.Logger) *Service {
	return &Service{
		store: st,
		pool:  append([]string(nil), pool...),
		log:   logger,
	}
}

// SelectDailyQuestions returns the day's question set from the service pool.
func (s *Service) SelectDailyQuestions(date time.Time) ([]string, error) {
	return SelectDailyQuestions(date, s.pool)
}

// SelectDailyQuestions deterministically picks the daily question set: the
// calendar date seeds a pseudo-random permutation of the pool, so any
// process computes the same 5 questions for the same day with no stored
// schedule.
func SelectDailyQuestions(date time.Time, pool []string) ([]string, error) {
	if len(pool) < reflection.QuestionsPerDay {
		return nil, fmt.Errorf("question pool too small: %d < %d", len(pool), reflection.QuestionsPerDay)
	}

	day := date.Format(reflection.DateFormat)
	hasher := fnv.New64a()
	hasher.Write([]byte(day))
	rng := rand.New(rand.NewSource(int64(hasher.Sum64())))

	questions := make([]string, 0, reflection.QuestionsPerDay)
	for _, idx := range rng.Perm(len(pool))[:reflection.QuestionsPerDay] {
		questions = append(questions, pool[idx])
	}
	return questions, nil
}

// HasCompletedToday reports whether a reflection exists for the owner and day.
func (s *Service) HasCompletedToday(ctx context.Context, ownerID string, date time.Time) (bool, error) {
	_, found, err := s.store.GetReflectionByDate(ctx, ownerID, date.Format(reflection.DateFormat))
	if err != nil {
		return false, err
	}
	return found, nil
}

// Today returns the owner's view of the current day: the question set plus
// any submission already recorded.
func (s *Service) Today(ctx context.Context, ownerID string, date time.Time) (reflection.Reflection, bool, error) {
	questions, err := s.SelectDailyQuestions(date)
	if err != nil {
		return reflection.Reflection{}, false, err
	}

	existing, found, err := s.store.GetReflectionByDate(ctx, ownerID, date.Format(reflection.DateFormat))
	if err != nil {
		return reflection.Reflection{}, false, err
	}
	if found {
		return existing, true, nil
	}

	return reflection.Reflection{
		OwnerID:     ownerID,
		Date:        date.Format(reflection.DateFormat),
		QuestionSet: questions,
		Responses:   make([]string, reflection.QuestionsPerDay),
	}, false, nil
}

// Submit records the day's response set. A day accepts at most one
// submission; once stored, the reflection is immutable.
func (s *Service) Submit(ctx context.Context, ownerID string, date time.Time, questionSet, responses []string) (reflection.Reflection, error) {
	if len(questionSet) == 0 {
		derived, err := s.SelectDailyQuestions(date)
		if err != nil {
			return reflection.Reflection{}, err
		}
		questionSet = derived
	}

	if len(questionSet) != reflection.QuestionsPerDay || len(responses) != len(questionSet) {
		return reflection.Reflection{}, apperr.New(apperr.Validation,
			fmt.Sprintf("expected %d questions and responses", reflection.QuestionsPerDay))
	}

	answered := countAnswered(responses)
	if answered == 0 {
		return reflection.Reflection{}, apperr.New(apperr.Validation, "answer at least one question before submitting")
	}

	day := date.Format(reflection.DateFormat)
	if _, found, err := s.store.GetReflectionByDate(ctx, ownerID, day); err != nil {
		return reflection.Reflection{}, apperr.Wrap(apperr.Store, "check existing reflection", err)
	} else if found {
		return reflection.Reflection{}, apperr.New(apperr.Conflict, "reflection already submitted today")
	}

	record := reflection.Reflection{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Date:          day,
		QuestionSet:   append([]string(nil), questionSet...),
		Responses:     append([]string(nil), responses...),
		AnsweredCount: answered,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.store.SaveReflection(ctx, record); err != nil {
		if errors.Is(err, store.ErrReflectionExists) {
			return reflection.Reflection{}, apperr.New(apperr.Conflict, "reflection already submitted today")
		}
		return reflection.Reflection{}, apperr.Wrap(apperr.Store, "save reflection", err)
	}

	s.log.Info("reflection submitted",
		zap.String("owner", ownerID),
		zap.String("date", day),
		zap.Int("answered", answered),
	)
	return record, nil
}

// Recent lists the owner's latest reflections, newest first.
func (s *Service) Recent(ctx context.Context, ownerID string, limit int) ([]reflection.Reflection, error) {
	return s.store.ListReflectionsByOwner(ctx, ownerID, limit)
}

// ComputeStreak counts consecutive completed days walking backward from
// today, up to 30. A day counts when any reflection was created on that
// calendar day. A missing today does not end the scan, so the streak may
// start at yesterday; the first later gap stops it.
func ComputeStreak(today time.Time, reflections []reflection.Reflection) int {
	if len(reflections) == 0 {
		return 0
	}

	days := make(map[string]bool, len(reflections))
	for _, r := range reflections {
		days[r.CreatedAt.UTC().Format(reflection.DateFormat)] = true
	}

	streak := 0
	current := today
	for i := 0; i < maxStreakDays; i++ {
		if days[current.Format(reflection.DateFormat)] {
			streak++
		} else if i > 0 {
			break
		}
		current = current.AddDate(0, 0, -1)
	}
	return streak
}

func countAnswered(responses []string) int {
	count := 0
	for _, response := range responses {
		if strings.TrimSpace(response) != "" {
			count++
		}
	}
	return count
}
