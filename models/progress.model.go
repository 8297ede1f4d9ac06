package models

import (
	"time"

	"gorm.io/gorm"
)

// ProgressRecord tracks a single completed content item for an enrollment.
type ProgressRecord struct {
	gorm.Model
	EnrollmentID uint       `json:"enrollment_id" gorm:"index;not null"`
	ContentKey   string     `json:"content_key" gorm:"not null"`
	Score        *float64   `json:"score"`
	CompletedAt  time.Time  `json:"completed_at"`
	Enrollment   Enrollment `json:"-" gorm:"foreignKey:EnrollmentID"`
}
