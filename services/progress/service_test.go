package progress

import (
	"fmt"
	"testing"
	"time"

	"skilltrack/models"
	courseModels "skilltrack/models/course"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. The named DSN keeps
// every connection of the pool on the same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps sqlite itself out of the way; write interleaving
	// is what the recorder's key lock is responsible for.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&courseModels.Skill{},
		&courseModels.Lesson{},
		&courseModels.Enrollment{},
		&courseModels.LessonTelemetry{},
		&courseModels.Certificate{},
	))

	return db
}

// seedSkill creates an active skill with n lessons of the given durations
// and returns the skill and its lessons.
func seedSkill(t *testing.T, db *gorm.DB, durations ...int) (courseModels.Skill, []courseModels.Lesson) {
	t.Helper()

	skill := courseModels.Skill{Name: "Go Basics", Status: "ACTIVE"}
	require.NoError(t, db.Create(&skill).Error)

	lessons := make([]courseModels.Lesson, 0, len(durations))
	for i, d := range durations {
		lesson := courseModels.Lesson{
			SkillID:     skill.ID,
			Title:       fmt.Sprintf("Lesson %d", i+1),
			Duration:    d,
			LessonOrder: i + 1,
		}
		require.NoError(t, db.Create(&lesson).Error)
		lessons = append(lessons, lesson)
	}

	return skill, lessons
}

// seedUser creates a student and returns it.
func seedUser(t *testing.T, db *gorm.DB, name, email string) models.User {
	t.Helper()

	user := models.User{Name: name, Email: email, Password: "x", Role: "STUDENT"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestComputeCoursePercentageUnknownSkill(t *testing.T) {
	svc := NewService(newTestDB(t))

	_, err := svc.ComputeCoursePercentage(1, 999, ByLessonCount)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestComputeCoursePercentageDispatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "Asha", "asha@example.com")
	skill, lessons := seedSkill(t, db, 500, 500)

	now := time.Now()
	require.NoError(t, db.Create(&courseModels.LessonTelemetry{
		UserID:          user.ID,
		LessonID:        lessons[0].ID,
		TotalWatched:    500,
		Completed:       true,
		LastHeartbeatAt: &now,
	}).Error)

	byCount, err := svc.ComputeCoursePercentage(user.ID, skill.ID, ByLessonCount)
	require.NoError(t, err)
	require.Equal(t, 50.0, byCount)

	byWatch, err := svc.ComputeCoursePercentage(user.ID, skill.ID, ByWatchTime)
	require.NoError(t, err)
	require.Equal(t, 50.0, byWatch)
}
