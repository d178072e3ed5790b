package course

import "gorm.io/gorm"

// Skill represents a course made of ordered video lessons
type Skill struct {
	gorm.Model
	Name        string `json:"name"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Status      string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	VideoURL    string `json:"video_url"`
	DocsURL     string `json:"docs_url"`
	IsDeleted   bool   `gorm:"default:false"`
}

// Lesson represents a single video lesson within a skill
type Lesson struct {
	gorm.Model
	SkillID     uint   `json:"skill_id" gorm:"index;not null"`
	Title       string `json:"title"`
	VideoID     string `json:"video_id"`                      // YouTube video ID
	Duration    int    `json:"duration" gorm:"default:0"`     // duration in seconds, 0 means unknown
	LessonOrder int    `json:"lesson_order" gorm:"default:0"` // order within the skill
	IsDeleted   bool   `gorm:"default:false"`
}
