package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/edgecraft/backend/internal/model/concept"
	"github.com/edgecraft/backend/internal/model/reflection"
	"github.com/edgecraft/backend/internal/model/user"
)

// GormStore implements Store on GORM + Postgres.
type GormStore struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewGormStore opens the database and runs auto-migrations.
func NewGormStore(dsn string, logger *zap.Logger) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(&UserModel{}, &ConceptModel{}, &ReflectionModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	logger.Info("document store ready")
	return &GormStore{db: db, log: logger}, nil
}

// SaveUser persists a new user together with their password hash.
func (s *GormStore) SaveUser(ctx context.Context, u user.User, passwordHash string) error {
	model := UserModel{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PasswordHash: passwordHash,
		CreatedAt:    u.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// GetUserByEmail loads a user and their password hash for credential checks.
func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (user.User, string, bool, error) {
	var model UserModel
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user.User{}, "", false, nil
	}
	if err != nil {
		return user.User{}, "", false, readErr("get user by email", err)
	}
	return toUser(model), model.PasswordHash, true, nil
}

// GetUserByID loads a user by identifier.
func (s *GormStore) GetUserByID(ctx context.Context, id string) (user.User, bool, error) {
	var model UserModel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user.User{}, false, nil
	}
	if err != nil {
		return user.User{}, false, readErr("get user by id", err)
	}
	return toUser(model), true, nil
}

// SaveConcept persists a concept record.
func (s *GormStore) SaveConcept(ctx context.Context, c concept.Concept) error {
	tags, err := json.Marshal(c.ExperienceTags)
	if err != nil {
		return fmt.Errorf("encode experience tags: %w", err)
	}
	model := ConceptModel{
		ID:             c.ID,
		OwnerID:        c.OwnerID,
		Title:          c.Title,
		IdeaText:       c.IdeaText,
		Catchphrase:    c.Catchphrase,
		ExperienceTags: tags,
		Notes:          c.Notes,
		CreatedAt:      c.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("save concept: %w", err)
	}
	return nil
}

// ListConceptsByOwner returns the owner's concepts, newest first.
func (s *GormStore) ListConceptsByOwner(ctx context.Context, ownerID string) ([]concept.Concept, error) {
	var models []ConceptModel
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, readErr("list concepts", err)
	}

	concepts := make([]concept.Concept, 0, len(models))
	for _, model := range models {
		c, err := toConcept(model)
		if err != nil {
			return nil, err
		}
		concepts = append(concepts, c)
	}
	return concepts, nil
}

// DeleteConcept removes exactly one concept owned by ownerID.
func (s *GormStore) DeleteConcept(ctx context.Context, ownerID, id string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&ConceptModel{})
	if result.Error != nil {
		return fmt.Errorf("delete concept: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveReflection persists a reflection; the unique (owner, date) index
// enforces one submission per day.
func (s *GormStore) SaveReflection(ctx context.Context, r reflection.Reflection) error {
	questions, err := json.Marshal(r.QuestionSet)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	responses, err := json.Marshal(r.Responses)
	if err != nil {
		return fmt.Errorf("encode responses: %w", err)
	}
	model := ReflectionModel{
		ID:            r.ID,
		OwnerID:       r.OwnerID,
		Date:          r.Date,
		Questions:     questions,
		Responses:     responses,
		AnsweredCount: r.AnsweredCount,
		CreatedAt:     r.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrReflectionExists
		}
		return fmt.Errorf("save reflection: %w", err)
	}
	return nil
}

// GetReflectionByDate fetches the owner's reflection for a calendar day.
func (s *GormStore) GetReflectionByDate(ctx context.Context, ownerID, date string) (reflection.Reflection, bool, error) {
	var model ReflectionModel
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND date = ?", ownerID, date).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reflection.Reflection{}, false, nil
	}
	if err != nil {
		return reflection.Reflection{}, false, readErr("get reflection", err)
	}

	r, err := toReflection(model)
	if err != nil {
		return reflection.Reflection{}, false, err
	}
	return r, true, nil
}

// ListReflectionsByOwner returns the owner's reflections, newest first.
func (s *GormStore) ListReflectionsByOwner(ctx context.Context, ownerID string, limit int) ([]reflection.Reflection, error) {
	query := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []ReflectionModel
	if err := query.Find(&models).Error; err != nil {
		return nil, readErr("list reflections", err)
	}

	reflections := make([]reflection.Reflection, 0, len(models))
	for _, model := range models {
		r, err := toReflection(model)
		if err != nil {
			return nil, err
		}
		reflections = append(reflections, r)
	}
	return reflections, nil
}

// readErr tags read failures so callers can distinguish "store could not
// answer" from "zero rows" and degrade accordingly.
func readErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}

func toUser(model UserModel) user.User {
	return user.User{
		ID:          model.ID,
		Email:       model.Email,
		DisplayName: model.DisplayName,
		CreatedAt:   model.CreatedAt.UTC(),
	}
}

func toConcept(model ConceptModel) (concept.Concept, error) {
	var tags []string
	if len(model.ExperienceTags) > 0 {
		if err := json.Unmarshal(model.ExperienceTags, &tags); err != nil {
			return concept.Concept{}, fmt.Errorf("decode experience tags for %s: %w", model.ID, err)
		}
	}
	return concept.Concept{
		ID:             model.ID,
		OwnerID:        model.OwnerID,
		Title:          model.Title,
		IdeaText:       model.IdeaText,
		Catchphrase:    model.Catchphrase,
		ExperienceTags: tags,
		Notes:          model.Notes,
		CreatedAt:      model.CreatedAt.UTC(),
	}, nil
}

func toReflection(model ReflectionModel) (reflection.Reflection, error) {
	var questions, responses []string
	if err := json.Unmarshal(model.Questions, &questions); err != nil {
		return reflection.Reflection{}, fmt.Errorf("decode questions for %s: %w", model.ID, err)
	}
	if err := json.Unmarshal(model.Responses, &responses); err != nil {
		return reflection.Reflection{}, fmt.Errorf("decode responses for %s: %w", model.ID, err)
	}
	return reflection.Reflection{
		ID:            model.ID,
		OwnerID:       model.OwnerID,
		Date:          model.Date,
		QuestionSet:   questions,
		Responses:     responses,
		AnsweredCount: model.AnsweredCount,
		CreatedAt:     model.CreatedAt.UTC(),
	}, nil
}
