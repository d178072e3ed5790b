package progress

import (
	"errors"
	"fmt"
	"time"

	"skilltrack/models"
	courseModels "skilltrack/models/course"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateData is what a certificate renderer needs.
type CertificateData struct {
	CertificateNumber string    `json:"certificate_number"`
	StudentName       string    `json:"student_name"`
	SkillName         string    `json:"skill_name"`
	IssuedAt          time.Time `json:"issued_at"`
	VerifyURL         string    `json:"verify_url"`
	NewlyIssued       bool      `json:"-"` // true only on first issuance
}

// RequestCertificate authorizes certificate data for a (user, skill) pair.
//
// The stored enrollment progress is deliberately not trusted: eligibility
// is re-derived from telemetry with the watch-time ratio, so a stale or
// forged progress value cannot produce a certificate. The threshold is a
// lenient, inclusive 90% because watch time over-counts on seek/replay.
// On first issuance the certificate row is persisted; repeat requests get
// the same identifier back.
func (s *Service) RequestCertificate(userID, skillID uint, verifyBaseURL string) (*CertificateData, error) {
	var user models.User
	if err := s.db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var skill courseModels.Skill
	if err := s.db.Where("id = ? AND is_deleted = ?", skillID, false).First(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// The enrollment lock spans the eligibility check, the upgrade and the
	// certificate lookup: a concurrent recompute cannot slip between the
	// COMPLETED write and its read-back, and two first requests cannot both
	// mint a number.
	lock := s.enrollmentLock(userID, skillID)
	lock.Lock()
	defer lock.Unlock()

	var enrollment courseModels.Enrollment
	if err := s.db.Where("user_id = ? AND skill_id = ? AND is_deleted = ?", userID, skillID, false).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}

	percentage, err := s.ComputeCoursePercentage(userID, skillID, ByWatchTime)
	if err != nil {
		return nil, err
	}
	if percentage < CertificateThreshold {
		return nil, &NotCompletedError{Percentage: percentage}
	}

	// Eligible: the enrollment is upgraded even when the raw ratio is
	// below 100, e.g. a 92% watch ratio still certifies the course.
	ApplyProgress(&enrollment, 100, time.Now())
	if err := s.db.Save(&enrollment).Error; err != nil {
		return nil, err
	}

	certificate, newlyIssued, err := s.findOrIssueCertificate(userID, skillID, verifyBaseURL)
	if err != nil {
		return nil, err
	}

	return &CertificateData{
		CertificateNumber: certificate.CertificateNumber,
		StudentName:       user.Name,
		SkillName:         skill.Name,
		IssuedAt:          certificate.IssuedAt,
		VerifyURL:         certificate.VerifyURL,
		NewlyIssued:       newlyIssued,
	}, nil
}

// findOrIssueCertificate returns the stored certificate for the pair or
// mints one. The number is minted exactly once, so re-requests are stable.
func (s *Service) findOrIssueCertificate(userID, skillID uint, verifyBaseURL string) (*courseModels.Certificate, bool, error) {
	var existing courseModels.Certificate
	err := s.db.Where("user_id = ? AND skill_id = ? AND is_deleted = ?", userID, skillID, false).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	certificate := courseModels.Certificate{
		UserID:            userID,
		SkillID:           skillID,
		CertificateNumber: fmt.Sprintf("CERT-%d-%d-%s", skillID, userID, uuid.New().String()[:8]),
		VerifyURL:         fmt.Sprintf("%s/%d/%d", verifyBaseURL, userID, skillID),
		IssuedAt:          time.Now(),
	}

	tx := s.db.Begin()
	if err := tx.Create(&certificate).Error; err != nil {
		tx.Rollback()
		return nil, false, err
	}
	tx.Commit()

	return &certificate, true, nil
}
