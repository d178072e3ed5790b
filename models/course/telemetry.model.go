package course

import (
	"time"

	"gorm.io/gorm"
)

// LessonTelemetry is the durable watch record for one (user, lesson) pair.
// LastPosition only ever moves forward, TotalWatched only ever grows, and
// Completed is never cleared once set.
type LessonTelemetry struct {
	gorm.Model
	UserID          uint       `json:"user_id" gorm:"index:idx_user_lesson,unique;not null"`
	LessonID        uint       `json:"lesson_id" gorm:"index:idx_user_lesson,unique;not null"`
	LastPosition    int        `json:"last_position" gorm:"default:0"` // seconds, resume point
	TotalWatched    int        `json:"total_watched" gorm:"default:0"` // seconds, cumulative
	Completed       bool       `json:"completed" gorm:"default:false"`
	LastHeartbeatAt *time.Time `json:"last_heartbeat_at"` // bounds the next reported delta
	IsDeleted       bool       `gorm:"default:false"`
}
