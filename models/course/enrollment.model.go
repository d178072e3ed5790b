package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses. COMPLETED is sticky: once set it is never
// downgraded by a later, lower progress reading.
const (
	StatusEnrolled   = "ENROLLED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// Enrollment tracks a user's enrollment in a skill with derived progress
type Enrollment struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"index:idx_user_skill,unique;not null"`
	SkillID     uint       `json:"skill_id" gorm:"index:idx_user_skill,unique;not null"`
	Status      string     `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED
	Progress    int        `json:"progress" gorm:"default:0"`        // completion percentage (0-100)
	CompletedAt *time.Time `json:"completed_at"`
	IsDeleted   bool       `gorm:"default:false"`
}
