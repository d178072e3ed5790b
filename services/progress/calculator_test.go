package progress

import (
	"testing"

	courseModels "skilltrack/models/course"

	"github.com/stretchr/testify/require"
)

func lessonsWithIDs(durations ...int) []courseModels.Lesson {
	lessons := make([]courseModels.Lesson, len(durations))
	for i, d := range durations {
		lessons[i] = courseModels.Lesson{Duration: d}
		lessons[i].ID = uint(i + 1)
	}
	return lessons
}

func TestLessonCountPercentage(t *testing.T) {
	tests := []struct {
		name      string
		lessons   []courseModels.Lesson
		completed []uint // lesson IDs with completed telemetry
		expect    int
	}{
		{
			name:      "two of four lessons complete",
			lessons:   lessonsWithIDs(100, 100, 100, 100),
			completed: []uint{1, 2},
			expect:    50,
		},
		{
			name:    "no lessons yields zero, not a division fault",
			lessons: nil,
			expect:  0,
		},
		{
			name:      "all complete",
			lessons:   lessonsWithIDs(100, 100),
			completed: []uint{1, 2},
			expect:    100,
		},
		{
			name:      "telemetry for foreign lessons is ignored",
			lessons:   lessonsWithIDs(100, 100),
			completed: []uint{1, 99},
			expect:    50,
		},
		{
			name:      "one of three rounds",
			lessons:   lessonsWithIDs(100, 100, 100),
			completed: []uint{1},
			expect:    33,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			telemetry := make([]courseModels.LessonTelemetry, 0, len(tc.completed))
			for _, id := range tc.completed {
				telemetry = append(telemetry, courseModels.LessonTelemetry{LessonID: id, Completed: true})
			}
			require.Equal(t, tc.expect, LessonCountPercentage(tc.lessons, telemetry))
		})
	}
}

func TestLessonCountPercentageIgnoresIncomplete(t *testing.T) {
	lessons := lessonsWithIDs(100, 100)
	telemetry := []courseModels.LessonTelemetry{
		{LessonID: 1, Completed: false, TotalWatched: 100},
		{LessonID: 2, Completed: true},
	}
	require.Equal(t, 50, LessonCountPercentage(lessons, telemetry))
}

func TestWatchTimePercentage(t *testing.T) {
	tests := []struct {
		name      string
		lessons   []courseModels.Lesson
		telemetry []courseModels.LessonTelemetry
		expect    float64
	}{
		{
			name:    "900 of 1000 seconds hits the certificate threshold exactly",
			lessons: lessonsWithIDs(600, 400),
			telemetry: []courseModels.LessonTelemetry{
				{LessonID: 1, TotalWatched: 600},
				{LessonID: 2, TotalWatched: 300},
			},
			expect: 90.0,
		},
		{
			name:    "over-watching clamps at 100",
			lessons: lessonsWithIDs(100),
			telemetry: []courseModels.LessonTelemetry{
				{LessonID: 1, TotalWatched: 500},
			},
			expect: 100,
		},
		{
			name:    "zero duration lessons use the fallback",
			lessons: lessonsWithIDs(0), // counts as 600s
			telemetry: []courseModels.LessonTelemetry{
				{LessonID: 1, TotalWatched: 300},
			},
			expect: 50.0,
		},
		{
			name:    "no lessons yields zero",
			lessons: nil,
			expect:  0,
		},
		{
			name:    "partial non-integer completion",
			lessons: lessonsWithIDs(1000),
			telemetry: []courseModels.LessonTelemetry{
				{LessonID: 1, TotalWatched: 899},
			},
			expect: 89.9,
		},
		{
			name:    "telemetry for foreign lessons is ignored",
			lessons: lessonsWithIDs(1000),
			telemetry: []courseModels.LessonTelemetry{
				{LessonID: 99, TotalWatched: 1000},
			},
			expect: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.expect, WatchTimePercentage(tc.lessons, tc.telemetry), 1e-9)
		})
	}
}
