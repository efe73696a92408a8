package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type UserModel struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	DisplayName  string
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

type ConceptModel struct {
	ID             string `gorm:"primaryKey"`
	OwnerID        string `gorm:"not null;index"`
	Title          string `gorm:"not null"`
	IdeaText       string `gorm:"type:text;not null"`
	Catchphrase    string
	ExperienceTags datatypes.JSON `gorm:"type:jsonb"`
	Notes          string         `gorm:"type:text"`
	CreatedAt      time.Time      `gorm:"not null;index"`
}

type ReflectionModel struct {
	ID            string         `gorm:"primaryKey"`
	OwnerID       string         `gorm:"not null;uniqueIndex:idx_reflection_owner_date"`
	Date          string         `gorm:"not null;uniqueIndex:idx_reflection_owner_date"`
	Questions     datatypes.JSON `gorm:"type:jsonb"`
	Responses     datatypes.JSON `gorm:"type:jsonb"`
	AnsweredCount int            `gorm:"not null"`
	CreatedAt     time.Time      `gorm:"not null;index"`
}
