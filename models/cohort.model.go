package models

import "gorm.io/gorm"

type Cohort struct {
	gorm.Model
	CourseID        uint   `json:"course_id" gorm:"index;not null"`
	Name            string `json:"name" gorm:"not null"`
	EnrollmentLimit *int   `json:"enrollment_limit"` // nil means unbounded
	Course          Course `json:"-" gorm:"foreignKey:CourseID"`
}
