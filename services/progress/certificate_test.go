package progress

import (
	"testing"

	courseModels "skilltrack/models/course"

	"github.com/stretchr/testify/require"
)

const testVerifyBase = "https://skilltrack.test/verify"

// watchLesson writes telemetry directly so the elapsed-time bound in the
// recorder does not get in the way of setting up large watch totals.
func watchLesson(t *testing.T, svc *Service, userID, lessonID uint, seconds int) {
	t.Helper()
	require.NoError(t, svc.DB().Create(&courseModels.LessonTelemetry{
		UserID:       userID,
		LessonID:     lessonID,
		TotalWatched: seconds,
	}).Error)
}

func TestRequestCertificateNotEnrolled(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "Asha", "asha@example.com")
	skill, _ := seedSkill(t, db, 600)

	_, err := svc.RequestCertificate(user.ID, skill.ID, testVerifyBase)
	require.ErrorIs(t, err, ErrNotEnrolled)
}

func TestRequestCertificateUnknownSkill(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "Asha", "asha@example.com")

	_, err := svc.RequestCertificate(user.ID, 999, testVerifyBase)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRequestCertificateBelowThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "Asha", "asha@example.com")
	skill, lessons := seedSkill(t, db, 1000)

	_, err := svc.Enroll(user.ID, skill.ID)
	require.NoError(t, err)

	watchLesson(t, svc, user.ID, lessons[0].ID, 899) // 89.9%

	_, err = svc.RequestCertificate(user.ID, skill.ID, testVerifyBase)

	var notCompleted *NotCompletedError
	require.ErrorAs(t, err, &notCompleted)
	require.InDelta(t, 89.9, notCompleted.Percentage, 1e-9)
}

func TestRequestCertificateThresholdIsInclusive(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "Asha", "asha@example.com")
	skill, lessons := seedSkill(t, db, 600, 400)

	_, err := svc.Enroll(user.ID, skill.ID)
	require.NoError(t, err)

	watchLesson(t, svc, user.ID, lessons[0].ID, 600)
	watchLesson(t, svc, user.ID, lessons[1].ID, 300) // exactly 90.0%

	data, err := svc.RequestCertificate(user.ID, skill.ID, testVerifyBase)
	require.NoError(t, err)
	require.Equal(t, "Asha", data.StudentName)
	require.Equal(t, "Go Basics", data.SkillName)
	require.NotEmpty(t, data.CertificateNumber)
	require.True(t, data.NewlyIssued)

	// Eligibility at 90% still upgrades the enrollment all the way.
	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND skill_id = ?", user.ID, skill.ID).First(&enrollment).Error)
	require.Equal(t, 100, enrollment.Progress)
	require.Equal(t, courseModels.StatusCompleted, enrollment.Status)
}

func TestRequestCertificateIgnoresForgedStoredProgress(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "Asha", "asha@example.com")
	skill, _ := seedSkill(t, db, 1000)

	_, err := svc.Enroll(user.ID, skill.ID)
	require.NoError(t, err)

	// A forged stored value must not produce a certificate: eligibility is
	// re-derived from telemetry, and there is none.
	require.NoError(t, db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND skill_id = ?", user.ID, skill.ID).
		Updates(map[string]interface{}{"progress": 100, "status": courseModels.StatusCompleted}).Error)

	_, err = svc.RequestCertificate(user.ID, skill.ID, testVerifyBase)

	var notCompleted *NotCompletedError
	require.ErrorAs(t, err, &notCompleted)
	require.InDelta(t, 0.0, notCompleted.Percentage, 1e-9)
}

func TestRequestCertificateReissueIsStable(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "Asha", "asha@example.com")
	skill, lessons := seedSkill(t, db, 100)

	_, err := svc.Enroll(user.ID, skill.ID)
	require.NoError(t, err)

	watchLesson(t, svc, user.ID, lessons[0].ID, 100)

	first, err := svc.RequestCertificate(user.ID, skill.ID, testVerifyBase)
	require.NoError(t, err)
	require.True(t, first.NewlyIssued)

	second, err := svc.RequestCertificate(user.ID, skill.ID, testVerifyBase)
	require.NoError(t, err)
	require.False(t, second.NewlyIssued)
	require.Equal(t, first.CertificateNumber, second.CertificateNumber)
	require.Equal(t, first.IssuedAt.Unix(), second.IssuedAt.Unix())

	var count int64
	db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND skill_id = ?", user.ID, skill.ID).Count(&count)
	require.Equal(t, int64(1), count)
}
