package progress

import (
	"sync"
	"testing"
	"time"

	courseModels "skilltrack/models/course"

	"github.com/stretchr/testify/require"
)

func TestRecordHeartbeatCreatesTelemetry(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "Asha", "asha@example.com")
	_, lessons := seedSkill(t, db, 600)

	telemetry, err := svc.RecordHeartbeat(user.ID, lessons[0].ID, 30, 10)
	require.NoError(t, err)
	require.Equal(t, 30, telemetry.LastPosition)
	require.Equal(t, 10, telemetry.TotalWatched)
	require.False(t, telemetry.Completed)
	require.NotNil(t, telemetry.LastHeartbeatAt)
}

func TestRecordHeartbeatRejectsNegativeValues(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.RecordHeartbeat(1, 1, -1, 0)
	require.ErrorIs(t, err, ErrInvalidHeartbeat)

	_, err = svc.RecordHeartbeat(1, 1, 0, -1)
	require.ErrorIs(t, err, ErrInvalidHeartbeat)
}

func TestRecordHeartbeatUnknownLesson(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.RecordHeartbeat(1, 42, 0, 0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRecordHeartbeatRewindKeepsResumePoint(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "Asha", "asha@example.com")
	_, lessons := seedSkill(t, db, 600)

	_, err := svc.RecordHeartbeat(user.ID, lessons[0].ID, 120, 0)
	require.NoError(t, err)

	// Rewinding to an earlier position must not lower LastPosition.
	telemetry, err := svc.RecordHeartbeat(user.ID, lessons[0].ID, 45, 0)
	require.NoError(t, err)
	require.Equal(t, 120, telemetry.LastPosition)

	require.Equal(t, 120, svc.LessonPosition(user.ID, lessons[0].ID))
}

func TestRecordHeartbeatSequentialDeltasSum(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "Asha", "asha@example.com")
	_, lessons := seedSkill(t, db, 600)

	// Zero deltas after the first are always within the elapsed-time bound.
	_, err := svc.RecordHeartbeat(user.ID, lessons[0].ID, 10, 25)
	require.NoError(t, err)

	var telemetry courseModels.LessonTelemetry
	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", user.ID, lessons[0].ID).First(&telemetry).Error)
	require.Equal(t, 25, telemetry.TotalWatched)
}

func TestBoundedDelta(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-10 * time.Second)

	tests := []struct {
		name   string
		delta  int
		last   *time.Time
		expect int
	}{
		{"first heartbeat is taken as reported", 3600, nil, 3600},
		{"honest delta passes", 10, &earlier, 10},
		{"inflated delta is capped at elapsed plus slack", 500, &earlier, 15},
		{"zero delta passes", 0, &earlier, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, boundedDelta(tc.delta, tc.last, now))
		})
	}
}

func TestRecordHeartbeatConcurrentNoLostUpdates(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "Asha", "asha@example.com")
	_, lessons := seedSkill(t, db, 600)

	// Seed the row far in the past so the elapsed-time bound never clips
	// the per-call deltas in this test.
	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&courseModels.LessonTelemetry{
		UserID:          user.ID,
		LessonID:        lessons[0].ID,
		LastHeartbeatAt: &past,
	}).Error)

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordHeartbeat(user.ID, lessons[0].ID, 0, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var telemetry courseModels.LessonTelemetry
	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", user.ID, lessons[0].ID).First(&telemetry).Error)
	require.Equal(t, workers, telemetry.TotalWatched, "concurrent heartbeats must not lose increments")
}

func TestRecordHeartbeatUpdatesEnrollmentWithoutPolling(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "Asha", "asha@example.com")
	skill, lessons := seedSkill(t, db, 600)

	_, err := svc.Enroll(user.ID, skill.ID)
	require.NoError(t, err)

	_, err = svc.MarkLessonComplete(user.ID, lessons[0].ID, skill.ID)
	require.NoError(t, err)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND skill_id = ?", user.ID, skill.ID).First(&enrollment).Error)
	require.Equal(t, 100, enrollment.Progress)
	require.Equal(t, courseModels.StatusCompleted, enrollment.Status)
}

func TestRecordHeartbeatOrphanLessonStillSucceeds(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "Asha", "asha@example.com")

	orphan := courseModels.Lesson{Title: "Detached", Duration: 300}
	require.NoError(t, db.Create(&orphan).Error)

	telemetry, err := svc.RecordHeartbeat(user.ID, orphan.ID, 5, 5)
	require.NoError(t, err)
	require.Equal(t, 5, telemetry.TotalWatched)
}

func TestMarkLessonCompleteIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "Asha", "asha@example.com")
	skill, lessons := seedSkill(t, db, 600, 600)

	_, err := svc.Enroll(user.ID, skill.ID)
	require.NoError(t, err)

	first, err := svc.MarkLessonComplete(user.ID, lessons[0].ID, skill.ID)
	require.NoError(t, err)
	require.Equal(t, 50, first)

	// Completing again must not error and must report the same percentage.
	second, err := svc.MarkLessonComplete(user.ID, lessons[0].ID, skill.ID)
	require.NoError(t, err)
	require.Equal(t, first, second)

	var count int64
	db.Model(&courseModels.LessonTelemetry{}).
		Where("user_id = ? AND lesson_id = ?", user.ID, lessons[0].ID).Count(&count)
	require.Equal(t, int64(1), count)
}

func TestMarkLessonCompleteStampsHeartbeatBound(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "Asha", "asha@example.com")
	skill, lessons := seedSkill(t, db, 600, 600)

	_, err := svc.Enroll(user.ID, skill.ID)
	require.NoError(t, err)

	// The completion creates the telemetry row; the next heartbeat must not
	// get a free pass on its delta like a true first heartbeat would.
	_, err = svc.MarkLessonComplete(user.ID, lessons[0].ID, skill.ID)
	require.NoError(t, err)

	telemetry, err := svc.RecordHeartbeat(user.ID, lessons[0].ID, 30, 9999)
	require.NoError(t, err)
	require.LessOrEqual(t, telemetry.TotalWatched, int(heartbeatSlack.Seconds())+1,
		"delta after a manual complete must stay inside the elapsed-time bound")
}

func TestMarkLessonCompleteWrongSkill(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "Asha", "asha@example.com")
	skill, _ := seedSkill(t, db, 600)
	_, otherLessons := seedSkill(t, db, 600)

	_, err := svc.Enroll(user.ID, skill.ID)
	require.NoError(t, err)

	_, err = svc.MarkLessonComplete(user.ID, otherLessons[0].ID, skill.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
