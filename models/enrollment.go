package models

import (
	"time"

	"gorm.io/gorm"
)

type Enrollment struct {
	gorm.Model
	StudentID   uint       `json:"student_id" gorm:"uniqueIndex:idx_student_course;not null"`
	CourseID    uint       `json:"course_id" gorm:"uniqueIndex:idx_student_course;not null"`
	CohortID    *uint      `json:"cohort_id" gorm:"index"`
	Progress    int        `json:"progress" gorm:"default:0"` // 0-100
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at"` // set exactly when progress reaches 100
	Student     User       `json:"student" gorm:"foreignKey:StudentID"`
	Course      Course     `json:"-" gorm:"foreignKey:CourseID"`
	Cohort      *Cohort    `json:"-" gorm:"foreignKey:CohortID"`
}
