package models

import (
	"time"

	"gorm.io/gorm"
)

type CourseGroupMembership struct {
	gorm.Model
	GroupID      uint        `json:"group_id" gorm:"uniqueIndex:idx_group_student;not null"`
	StudentID    uint        `json:"student_id" gorm:"uniqueIndex:idx_group_student;not null"`
	EnrollmentID uint        `json:"enrollment_id" gorm:"index;not null"`
	IsLeader     bool        `json:"is_leader" gorm:"default:false"`
	JoinedAt     time.Time   `json:"joined_at"`
	Group        CourseGroup `json:"-" gorm:"foreignKey:GroupID"`
	Student      User        `json:"student" gorm:"foreignKey:StudentID"`
	Enrollment   Enrollment  `json:"-" gorm:"foreignKey:EnrollmentID"`
}
