package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued certificate for skill completion.
// One row per (user, skill); a repeat request returns the stored row
// instead of minting a new identifier.
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"index:idx_cert_user_skill,unique;not null"`
	SkillID           uint      `json:"skill_id" gorm:"index:idx_cert_user_skill,unique;not null"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique"`
	VerifyURL         string    `json:"verify_url"`
	IssuedAt          time.Time `json:"issued_at"`
	IsDeleted         bool      `gorm:"default:false"`
}
