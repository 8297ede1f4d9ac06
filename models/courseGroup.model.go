package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseGroup struct {
	gorm.Model
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	Name       string `json:"name" gorm:"not null"`
	MaxMembers *int   `json:"max_members"` // nil means unbounded
	IsArchived bool   `json:"is_archived" gorm:"default:false"`
	// Advisory content filter consumed by the UI, never enforced here.
	AllowedSubCourseIDs datatypes.JSON `json:"allowed_sub_course_ids"`
	Course              Course         `json:"-" gorm:"foreignKey:CourseID"`
}
