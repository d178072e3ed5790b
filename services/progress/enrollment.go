package progress

import (
	"errors"
	"log"
	"time"

	courseModels "skilltrack/models/course"

	"gorm.io/gorm"
)

// Enroll creates an enrollment for the (user, skill) pair. Enrolling twice
// in the same skill is rejected with ErrAlreadyEnrolled; the unique index
// on the pair backs this up at the storage level.
func (s *Service) Enroll(userID, skillID uint) (*courseModels.Enrollment, error) {
	var skill courseModels.Skill
	if err := s.db.Where("id = ? AND is_deleted = ? AND status = ?", skillID, false, "ACTIVE").
		First(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var existing courseModels.Enrollment
	if err := s.db.Where("user_id = ? AND skill_id = ? AND is_deleted = ?", userID, skillID, false).
		First(&existing).Error; err == nil {
		return nil, ErrAlreadyEnrolled
	}

	enrollment := courseModels.Enrollment{
		UserID:  userID,
		SkillID: skillID,
		Status:  courseModels.StatusEnrolled,
	}

	tx := s.db.Begin()
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	tx.Commit()

	return &enrollment, nil
}

// Unenroll removes the enrollment for the (user, skill) pair. The row is
// removed outright so the unique pair index stays free for a later
// re-enroll; lesson telemetry is untouched, it belongs to the lessons.
func (s *Service) Unenroll(userID, skillID uint) error {
	var enrollment courseModels.Enrollment
	if err := s.db.Where("user_id = ? AND skill_id = ? AND is_deleted = ?", userID, skillID, false).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotEnrolled
		}
		return err
	}

	return s.db.Unscoped().Delete(&enrollment).Error
}

// CourseProgress returns the stored progress percentage for a (user, skill)
// pair. Absent enrollment reads as 0, matching the original behavior of
// the progress endpoint.
func (s *Service) CourseProgress(userID, skillID uint) int {
	var enrollment courseModels.Enrollment
	if err := s.db.Where("user_id = ? AND skill_id = ? AND is_deleted = ?", userID, skillID, false).
		First(&enrollment).Error; err != nil {
		return 0
	}
	return enrollment.Progress
}

// RecomputeEnrollment recalculates the lesson-count percentage for the pair
// and runs it through the enrollment state machine. The calculator output
// is persisted here, never inside the calculator itself. The whole
// read-compute-save runs under the pair's enrollment lock: two racing
// recomputes would otherwise let a stale snapshot overwrite a COMPLETED row,
// and COMPLETED must never be downgraded.
func (s *Service) RecomputeEnrollment(userID, skillID uint) error {
	lock := s.enrollmentLock(userID, skillID)
	lock.Lock()
	defer lock.Unlock()

	var enrollment courseModels.Enrollment
	if err := s.db.Where("user_id = ? AND skill_id = ? AND is_deleted = ?", userID, skillID, false).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotEnrolled
		}
		return err
	}

	percentage, err := s.ComputeCoursePercentage(userID, skillID, ByLessonCount)
	if err != nil {
		return err
	}

	ApplyProgress(&enrollment, percentage, time.Now())
	return s.db.Save(&enrollment).Error
}

// ReconcileEnrollments rebuilds the stored progress of every live
// enrollment from telemetry. Stored progress is a derived value; the
// nightly scheduler calls this so drift (missed recomputes, catalog edits)
// never accumulates.
func (s *Service) ReconcileEnrollments() {
	var enrollments []courseModels.Enrollment
	if err := s.db.Where("is_deleted = ?", false).Find(&enrollments).Error; err != nil {
		log.Printf("[RECONCILE] Error fetching enrollments: %v", err)
		return
	}

	reconciled := 0
	for _, enrollment := range enrollments {
		if err := s.RecomputeEnrollment(enrollment.UserID, enrollment.SkillID); err != nil {
			log.Printf("[RECONCILE] Error recomputing user %d skill %d: %v", enrollment.UserID, enrollment.SkillID, err)
			continue
		}
		reconciled++
	}

	log.Printf("[RECONCILE] Reconciled %d/%d enrollments", reconciled, len(enrollments))
}
