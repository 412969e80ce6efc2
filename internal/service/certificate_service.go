package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"course_platform_backend/pkg/monitoring"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Eligibility reasons reported by CanIssue. Empty string means eligible.
const (
	ReasonCertificatesDisabled = "certificates are disabled for this course"
	ReasonCourseIncomplete     = "required resources are not all completed"
	ReasonEvaluationNotPassed  = "not all evaluations have a passing attempt"
)

// CertificateService gates and performs certificate issuance. Issuance is
// idempotent per (user, course): the existence check and the unique index
// both guard against double issue, automatic and manual alike.
type CertificateService struct {
	CourseRepo  *repository.CourseRepository
	EvalRepo    *repository.EvaluationRepository
	AttemptRepo *repository.AttemptRepository
	CertRepo    *repository.CertificationRepository
	DB          *gorm.DB
}

func NewCertificateService(
	courseRepo *repository.CourseRepository,
	evalRepo *repository.EvaluationRepository,
	attemptRepo *repository.AttemptRepository,
	certRepo *repository.CertificationRepository,
	db *gorm.DB,
) *CertificateService {
	return &CertificateService{
		CourseRepo:  courseRepo,
		EvalRepo:    evalRepo,
		AttemptRepo: attemptRepo,
		CertRepo:    certRepo,
		DB:          db,
	}
}

// CanIssue checks the eligibility gate. The returned reason is empty when
// all conditions hold: certificates enabled, all required resources
// completed, and every evaluation of the course passed at least once.
// A course with no evaluations passes the evaluation check trivially.
func (s *CertificateService) CanIssue(userID, courseID uint) (bool, string, error) {
	return s.canIssueTx(s.DB, userID, courseID)
}

func (s *CertificateService) canIssueTx(tx *gorm.DB, userID, courseID uint) (bool, string, error) {
	var course model.Course
	if err := tx.First(&course, courseID).Error; err != nil {
		return false, "", util.ErrCourseNotFound
	}
	if !course.CertificateEnabled {
		return false, ReasonCertificatesDisabled, nil
	}

	var progress model.CourseProgress
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if err == gorm.ErrRecordNotFound || (err == nil && !progress.Completed) {
		return false, ReasonCourseIncomplete, nil
	}
	if err != nil {
		return false, "", err
	}

	var evaluations []model.Evaluation
	if err := tx.Where("course_id = ?", courseID).Find(&evaluations).Error; err != nil {
		return false, "", err
	}
	for _, evaluation := range evaluations {
		var passed int64
		err := tx.Model(&model.EvaluationAttempt{}).
			Where("user_id = ? AND evaluation_id = ? AND passed = ?", userID, evaluation.ID, true).
			Count(&passed).Error
		if err != nil {
			return false, "", err
		}
		if passed == 0 {
			return false, ReasonEvaluationNotPassed, nil
		}
	}

	return true, "", nil
}

// Issue issues the certificate when the user is eligible. An ineligible user
// gets (nil, reason, nil); an already-issued certificate is returned as-is.
func (s *CertificateService) Issue(userID, courseID uint, issuedBy string) (*model.Certification, string, error) {
	var cert *model.Certification
	var reason string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		cert, reason, err = s.IssueTx(tx, userID, courseID, issuedBy)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return cert, reason, nil
}

// IssueTx is the transactional core of issuance, also called by the progress
// aggregator when a course transitions to complete. The duplicate-key branch
// covers the race where two transactions pass the existence check together.
func (s *CertificateService) IssueTx(tx *gorm.DB, userID, courseID uint, issuedBy string) (*model.Certification, string, error) {
	var existing model.Certification
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
	if err == nil {
		return &existing, "", nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, "", err
	}

	eligible, reason, err := s.canIssueTx(tx, userID, courseID)
	if err != nil {
		return nil, "", err
	}
	if !eligible {
		return nil, reason, nil
	}

	score, err := s.snapshotScoreTx(tx, userID, courseID)
	if err != nil {
		return nil, "", err
	}

	var course model.Course
	if err := tx.First(&course, courseID).Error; err != nil {
		return nil, "", err
	}

	cert := &model.Certification{
		UserID:   userID,
		CourseID: courseID,
		Serial:   model.GenerateUUID(),
		Template: course.CertificateTemplate,
		Score:    score,
		IssuedBy: issuedBy,
		IssuedAt: time.Now(),
	}
	if err := tx.Create(cert).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var won model.Certification
			if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&won).Error; err != nil {
				return nil, "", err
			}
			return &won, "", nil
		}
		return nil, "", err
	}

	payload := map[string]interface{}{
		"userId":   userID,
		"courseId": courseID,
		"serial":   cert.Serial,
		"score":    cert.Score,
		"issuedBy": issuedBy,
	}
	if err := EmitEventTx(tx, model.TopicCertificateIssued, payload); err != nil {
		return nil, "", err
	}

	issuer := "manual"
	if issuedBy == model.SystemIssuer {
		issuer = model.SystemIssuer
	}
	monitoring.CertificatesIssued.WithLabelValues(issuer).Inc()
	return cert, "", nil
}

// snapshotScoreTx averages the best passing score of each evaluation at
// issuance time. A course without evaluations snapshots 100.
func (s *CertificateService) snapshotScoreTx(tx *gorm.DB, userID, courseID uint) (float64, error) {
	var evaluations []model.Evaluation
	if err := tx.Where("course_id = ?", courseID).Find(&evaluations).Error; err != nil {
		return 0, err
	}
	if len(evaluations) == 0 {
		return 100, nil
	}

	total := 0.0
	for _, evaluation := range evaluations {
		var best model.EvaluationAttempt
		err := tx.Where("user_id = ? AND evaluation_id = ? AND passed = ?", userID, evaluation.ID, true).
			Order("score DESC").First(&best).Error
		if err != nil {
			return 0, err
		}
		total += best.Score
	}
	return total / float64(len(evaluations)), nil
}

// GetByUserAndCourse returns the user's certificate for a course.
func (s *CertificateService) GetByUserAndCourse(userID, courseID uint) (*model.Certification, error) {
	cert, err := s.CertRepo.FindByUserAndCourse(userID, courseID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrCertificateNotFound
	}
	if err != nil {
		return nil, err
	}
	return cert, nil
}

func (s *CertificateService) ListByUser(userID uint) ([]model.Certification, error) {
	return s.CertRepo.ListByUser(userID)
}
