package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Quiz struct {
	gorm.Model
	CourseID    uint           `json:"course_id" gorm:"index;not null"`
	Title       string         `json:"title" gorm:"not null"`
	Questions   datatypes.JSON `json:"questions"` // question bank document
	IsPublished bool           `json:"is_published" gorm:"default:false"`
	Course      Course         `json:"-" gorm:"foreignKey:CourseID"`
}
