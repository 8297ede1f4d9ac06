package models

import "gorm.io/gorm"

type Course struct {
	gorm.Model
	Title          string       `json:"title" gorm:"not null"`
	Description    string       `json:"description"`
	OrganizationID uint         `json:"organization_id" gorm:"index;not null"`
	CreatedBy      uint         `json:"created_by" gorm:"index"` // instructor user id
	// No column default: GORM omits zero-valued fields with defaults from the
	// INSERT, which would silently reopen a course created closed. Callers set
	// the flag explicitly.
	EnrollmentOpen bool         `json:"enrollment_open"`
	IsDeleted      bool         `json:"-" gorm:"default:false"`
	Organization   Organization `json:"-" gorm:"foreignKey:OrganizationID"`
}
