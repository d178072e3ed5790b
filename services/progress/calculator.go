package progress

import (
	"math"

	courseModels "skilltrack/models/course"
)

// Algorithm selects how a course completion percentage is derived.
type Algorithm int

const (
	// ByLessonCount is the ratio of completed lessons to total lessons,
	// rounded to an integer. It backs the stored enrollment progress and
	// every displayed percentage.
	ByLessonCount Algorithm = iota

	// ByWatchTime is the ratio of watched seconds to total course seconds.
	// It backs certificate eligibility only; seek and replay behavior makes
	// it over-count, which is why the certificate threshold is lenient.
	ByWatchTime
)

// FallbackLessonDuration substitutes for lessons with a missing or zero
// duration so the watch-time ratio never divides by a degenerate total.
const FallbackLessonDuration = 600

// CertificateThreshold is the inclusive watch-ratio percentage required
// for certificate issuance.
const CertificateThreshold = 90.0

// LessonCountPercentage computes Algorithm A: the share of the skill's
// lessons this user has completed, as a rounded integer in [0,100].
// A skill with no lessons yields 0.
func LessonCountPercentage(lessons []courseModels.Lesson, telemetry []courseModels.LessonTelemetry) int {
	if len(lessons) == 0 {
		return 0
	}

	completedByLesson := make(map[uint]bool, len(telemetry))
	for _, t := range telemetry {
		if t.Completed {
			completedByLesson[t.LessonID] = true
		}
	}

	completed := 0
	for _, l := range lessons {
		if completedByLesson[l.ID] {
			completed++
		}
	}

	pct := int(math.Round(float64(completed) / float64(len(lessons)) * 100))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

// WatchTimePercentage computes Algorithm B: watched seconds over total
// course seconds, as a float in [0,100]. Lessons with duration <= 0 count
// as FallbackLessonDuration seconds.
func WatchTimePercentage(lessons []courseModels.Lesson, telemetry []courseModels.LessonTelemetry) float64 {
	if len(lessons) == 0 {
		return 0
	}

	lessonIDs := make(map[uint]bool, len(lessons))
	totalSeconds := 0
	for _, l := range lessons {
		lessonIDs[l.ID] = true
		if l.Duration > 0 {
			totalSeconds += l.Duration
		} else {
			totalSeconds += FallbackLessonDuration
		}
	}

	watched := 0
	for _, t := range telemetry {
		if lessonIDs[t.LessonID] {
			watched += t.TotalWatched
		}
	}

	pct := float64(watched) / float64(totalSeconds) * 100
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}
