package progress

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced lesson, skill or enrollment does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyEnrolled means the user already has an enrollment for the skill.
	ErrAlreadyEnrolled = errors.New("already enrolled")

	// ErrNotEnrolled means a certificate or progress was requested without an enrollment.
	ErrNotEnrolled = errors.New("not enrolled")

	// ErrOrphanLesson means the lesson is not attached to any skill, so no
	// course recompute is possible for it.
	ErrOrphanLesson = errors.New("lesson does not belong to any skill")

	// ErrInvalidHeartbeat means a negative position or delta reached the
	// recorder. The HTTP validators reject these first; this is the guard
	// for non-HTTP callers.
	ErrInvalidHeartbeat = errors.New("position and watched delta must be non-negative")
)

// NotCompletedError is returned when a certificate is requested below the
// watch-ratio threshold. It carries the current percentage for user feedback.
type NotCompletedError struct {
	Percentage float64
}

func (e *NotCompletedError) Error() string {
	return fmt.Sprintf("course not completed: watch ratio is %.1f%%, need %.1f%%", e.Percentage, CertificateThreshold)
}
