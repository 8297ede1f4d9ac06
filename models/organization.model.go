package models

import "gorm.io/gorm"

type Organization struct {
	gorm.Model
	Name       string `json:"name" gorm:"not null"`
	InviteCode string `json:"invite_code" gorm:"uniqueIndex;not null"`
	IsDeleted  bool   `json:"-" gorm:"default:false"`
}
