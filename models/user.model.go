package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name            string    `json:"name" gorm:"default:''"`
	Email           string    `json:"email" gorm:"unique;not null"`
	Role            string    `json:"role" gorm:"default:'STUDENT'"` // STUDENT, ADMIN
	Password        string    `json:"-" gorm:"not null"`
	IsEmailVerified bool      `json:"is_email_verified" gorm:"default:false"`
	LastLogin       time.Time `json:"last_login" gorm:"default:NULL"`
	IsDeleted       bool      `gorm:"default:false"`
}
