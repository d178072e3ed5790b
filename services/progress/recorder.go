package progress

import (
	"errors"
	"log"
	"time"

	courseModels "skilltrack/models/course"

	"gorm.io/gorm"
)

// heartbeatSlack is added on top of the wall-clock gap between heartbeats
// when bounding a reported delta, to absorb network jitter.
const heartbeatSlack = 5 * time.Second

// RecordHeartbeat persists a playback heartbeat for a (user, lesson) pair
// and triggers a course recompute for the lesson's owning skill.
//
// LastPosition only moves forward: a rewind never lowers the resume point.
// TotalWatched grows by the reported delta, bounded by the wall-clock time
// elapsed since the previous heartbeat so a client cannot inflate its watch
// time faster than real time. A recompute failure is logged but does not
// fail the heartbeat; an orphan lesson skips the recompute entirely.
func (s *Service) RecordHeartbeat(userID, lessonID uint, position, watchedDelta int) (*courseModels.LessonTelemetry, error) {
	if position < 0 || watchedDelta < 0 {
		return nil, ErrInvalidHeartbeat
	}

	var lesson courseModels.Lesson
	if err := s.db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	lock := s.telemetryLock(userID, lessonID)
	lock.Lock()
	telemetry, err := s.upsertTelemetry(userID, lessonID, position, watchedDelta, time.Now())
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	// Keep the enrollment current without a separate poll. Orphan lessons
	// (skill deleted or unset) leave the heartbeat itself intact.
	if lesson.SkillID == 0 {
		log.Printf("[PROGRESS] Skipping recompute for lesson %d: %v", lessonID, ErrOrphanLesson)
		return telemetry, nil
	}
	if err := s.RecomputeEnrollment(userID, lesson.SkillID); err != nil && !errors.Is(err, ErrNotEnrolled) && !errors.Is(err, ErrNotFound) {
		log.Printf("[PROGRESS] Recompute failed for user %d skill %d: %v", userID, lesson.SkillID, err)
	}

	return telemetry, nil
}

// upsertTelemetry applies one heartbeat to the stored row. Must be called
// with the pair's key lock held.
func (s *Service) upsertTelemetry(userID, lessonID uint, position, watchedDelta int, now time.Time) (*courseModels.LessonTelemetry, error) {
	var telemetry courseModels.LessonTelemetry
	err := s.db.Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lessonID, false).
		First(&telemetry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		telemetry = courseModels.LessonTelemetry{
			UserID:          userID,
			LessonID:        lessonID,
			LastPosition:    position,
			TotalWatched:    watchedDelta,
			Completed:       false,
			LastHeartbeatAt: &now,
		}
		if err := s.db.Create(&telemetry).Error; err != nil {
			return nil, err
		}
		return &telemetry, nil
	}
	if err != nil {
		return nil, err
	}

	if position > telemetry.LastPosition {
		telemetry.LastPosition = position
	}
	telemetry.TotalWatched += boundedDelta(watchedDelta, telemetry.LastHeartbeatAt, now)
	telemetry.LastHeartbeatAt = &now

	if err := s.db.Save(&telemetry).Error; err != nil {
		return nil, err
	}
	return &telemetry, nil
}

// boundedDelta caps a reported watch delta at the wall-clock seconds since
// the previous heartbeat plus a small slack. Without the cap any client
// could claim arbitrary watch time per call.
func boundedDelta(delta int, lastHeartbeatAt *time.Time, now time.Time) int {
	if lastHeartbeatAt == nil {
		return delta
	}
	maxElapsed := int(now.Add(heartbeatSlack).Sub(*lastHeartbeatAt).Seconds())
	if maxElapsed < 0 {
		maxElapsed = 0
	}
	if delta > maxElapsed {
		return maxElapsed
	}
	return delta
}

// LessonPosition returns the stored resume point for a (user, lesson)
// pair, or 0 when no telemetry exists yet.
func (s *Service) LessonPosition(userID, lessonID uint) int {
	var telemetry courseModels.LessonTelemetry
	if err := s.db.Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lessonID, false).
		First(&telemetry).Error; err != nil {
		return 0
	}
	return telemetry.LastPosition
}

// MarkLessonComplete flags the lesson's telemetry as completed and
// recomputes the owning skill's percentage. Completing an already-completed
// lesson is a no-op apart from the recompute, so the call is idempotent.
// Returns the stored course percentage after the recompute.
func (s *Service) MarkLessonComplete(userID, lessonID, skillID uint) (int, error) {
	var lesson courseModels.Lesson
	if err := s.db.Where("id = ? AND skill_id = ? AND is_deleted = ?", lessonID, skillID, false).
		First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	lock := s.telemetryLock(userID, lessonID)
	lock.Lock()
	err := s.setCompleted(userID, lessonID)
	lock.Unlock()
	if err != nil {
		return 0, err
	}

	if err := s.RecomputeEnrollment(userID, skillID); err != nil {
		return 0, err
	}

	var enrollment courseModels.Enrollment
	if err := s.db.Where("user_id = ? AND skill_id = ? AND is_deleted = ?", userID, skillID, false).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotEnrolled
		}
		return 0, err
	}
	return enrollment.Progress, nil
}

// setCompleted creates or updates the telemetry row with Completed=true.
// Must be called with the pair's key lock held.
func (s *Service) setCompleted(userID, lessonID uint) error {
	var telemetry courseModels.LessonTelemetry
	err := s.db.Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lessonID, false).
		First(&telemetry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		// The stamp keeps the next heartbeat's delta inside the wall-clock
		// bound; a nil LastHeartbeatAt would accept it as reported.
		now := time.Now()
		telemetry = courseModels.LessonTelemetry{
			UserID:          userID,
			LessonID:        lessonID,
			Completed:       true,
			LastHeartbeatAt: &now,
		}
		return s.db.Create(&telemetry).Error
	}
	if err != nil {
		return err
	}
	if telemetry.Completed {
		return nil
	}

	telemetry.Completed = true
	return s.db.Save(&telemetry).Error
}
