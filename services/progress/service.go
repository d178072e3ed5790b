package progress

import (
	"errors"
	"fmt"
	"sync"

	courseModels "skilltrack/models/course"

	"gorm.io/gorm"
)

// Service owns the progress engine: telemetry recording, course percentage
// calculation, enrollment state transitions and the certificate gate.
// All durable state lives in the database; the only in-process state is
// the per-key write lock for heartbeats.
type Service struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a progress service on top of the given database.
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:    db,
		locks: make(map[string]*sync.Mutex),
	}
}

// defaultService is the process-wide instance used by the HTTP controllers.
// It must be a singleton: the per-key heartbeat locks only serialize writes
// if every request goes through the same instance.
var defaultService *Service

// Init wires the default service to the connected database. Called once
// from main after the database is up.
func Init(db *gorm.DB) {
	defaultService = NewService(db)
}

// Default returns the process-wide service instance.
func Default() *Service {
	return defaultService
}

// DB exposes the underlying handle for controllers that need read-only
// queries outside the engine (enrollment listings, stats).
func (s *Service) DB() *gorm.DB {
	return s.db
}

// telemetryLock serializes the read-modify-write of one (user, lesson)
// telemetry row. Two parallel heartbeats for the same pair would otherwise
// interleave and lose TotalWatched increments.
func (s *Service) telemetryLock(userID, lessonID uint) *sync.Mutex {
	return s.keyedLock(fmt.Sprintf("telemetry:%d:%d", userID, lessonID))
}

// enrollmentLock serializes the read-modify-write of one (user, skill)
// enrollment row. Recomputes triggered from different lessons of the same
// skill hold different telemetry locks, so a stale recompute could otherwise
// overwrite a freshly written COMPLETED row.
func (s *Service) enrollmentLock(userID, skillID uint) *sync.Mutex {
	return s.keyedLock(fmt.Sprintf("enrollment:%d:%d", userID, skillID))
}

// keyedLock returns the mutex for a key, creating it on first use. Entries
// are never evicted: the map holds one bare mutex per key the process has
// touched, capped by the (users x lessons) pairs actually played.
func (s *Service) keyedLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[key] = l
	return l
}

// skillLessons returns the active lessons of a skill in course order.
func (s *Service) skillLessons(skillID uint) ([]courseModels.Lesson, error) {
	var skill courseModels.Skill
	if err := s.db.Where("id = ? AND is_deleted = ?", skillID, false).First(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var lessons []courseModels.Lesson
	if err := s.db.Where("skill_id = ? AND is_deleted = ?", skillID, false).
		Order("lesson_order asc").Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

// userTelemetry returns this user's telemetry rows for the given lessons.
func (s *Service) userTelemetry(userID uint, lessons []courseModels.Lesson) ([]courseModels.LessonTelemetry, error) {
	if len(lessons) == 0 {
		return nil, nil
	}

	lessonIDs := make([]uint, 0, len(lessons))
	for _, l := range lessons {
		lessonIDs = append(lessonIDs, l.ID)
	}

	var telemetry []courseModels.LessonTelemetry
	if err := s.db.Where("user_id = ? AND lesson_id IN ? AND is_deleted = ?", userID, lessonIDs, false).
		Find(&telemetry).Error; err != nil {
		return nil, err
	}
	return telemetry, nil
}

// ComputeCoursePercentage derives the completion percentage for a
// (user, skill) pair with the chosen algorithm. It reads telemetry and the
// catalog but never writes; callers persist the result.
func (s *Service) ComputeCoursePercentage(userID, skillID uint, algorithm Algorithm) (float64, error) {
	lessons, err := s.skillLessons(skillID)
	if err != nil {
		return 0, err
	}

	telemetry, err := s.userTelemetry(userID, lessons)
	if err != nil {
		return 0, err
	}

	switch algorithm {
	case ByWatchTime:
		return WatchTimePercentage(lessons, telemetry), nil
	default:
		return float64(LessonCountPercentage(lessons, telemetry)), nil
	}
}
