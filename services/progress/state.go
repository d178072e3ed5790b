package progress

import (
	"math"
	"time"

	courseModels "skilltrack/models/course"
)

// ApplyProgress writes a freshly computed percentage into the enrollment
// and derives its status. COMPLETED is sticky: a later recompute that
// yields a lower percentage must not take the status away, so the check
// against the current status comes before any downgrade path. UpdatedAt
// is bumped on every call, even when nothing changed, because recent
// activity feeds sort on it.
func ApplyProgress(enrollment *courseModels.Enrollment, percentage float64, now time.Time) {
	pct := int(math.Round(percentage))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}

	enrollment.Progress = pct
	enrollment.UpdatedAt = now

	if enrollment.Status == courseModels.StatusCompleted {
		// Sticky: keep COMPLETED and the completion timestamp.
		return
	}

	switch {
	case pct >= 100:
		enrollment.Status = courseModels.StatusCompleted
		completedAt := now
		enrollment.CompletedAt = &completedAt
	case pct > 0:
		enrollment.Status = courseModels.StatusInProgress
	default:
		enrollment.Status = courseModels.StatusEnrolled
	}
}
