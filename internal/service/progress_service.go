package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"course_platform_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressService is the resource progress ledger plus the course completion
// aggregator. Course progress is always recomputed in full from the ledger
// and the current catalog: requirement tiers edited after enrollment change
// the totals retroactively, and incremental counters would drift.
type ProgressService struct {
	CourseRepo   *repository.CourseRepository
	EnrollRepo   *repository.EnrollmentRepository
	ProgressRepo *repository.ProgressRepository
	CertSvc      *CertificateService
	DB           *gorm.DB
}

func NewProgressService(
	courseRepo *repository.CourseRepository,
	enrollRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
	certSvc *CertificateService,
	db *gorm.DB,
) *ProgressService {
	return &ProgressService{
		CourseRepo:   courseRepo,
		EnrollRepo:   enrollRepo,
		ProgressRepo: progressRepo,
		CertSvc:      certSvc,
		DB:           db,
	}
}

// MarkResourceComplete upserts the (user, course, resource) ledger row and
// recomputes course progress in the same transaction. The requirement tier is
// copied from the resource when the row is first created.
func (s *ProgressService) MarkResourceComplete(userID, courseID, resourceID uint, role model.UserRole) (*model.ResourceProgress, error) {
	resource, err := s.CourseRepo.FindResourceByID(resourceID)
	if err != nil || resource.CourseID != courseID {
		return nil, util.ErrResourceNotFound
	}

	if !role.IsStaff() {
		enrolled, err := s.EnrollRepo.IsActive(userID, courseID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, util.ErrNotEnrolled
		}
	}

	var record *model.ResourceProgress
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		var existing model.ResourceProgress
		err := tx.Where("user_id = ? AND course_id = ? AND resource_id = ?", userID, courseID, resourceID).
			First(&existing).Error
		switch {
		case err == nil:
			existing.Completed = true
			existing.CompletedAt = &now
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			record = &existing
		case err == gorm.ErrRecordNotFound:
			created := model.ResourceProgress{
				UserID:      userID,
				CourseID:    courseID,
				ResourceID:  resourceID,
				Completed:   true,
				Requirement: resource.Requirement,
				CompletedAt: &now,
			}
			if err := tx.Create(&created).Error; err != nil {
				return err
			}
			record = &created
		default:
			return err
		}

		_, err = s.recomputeTx(tx, userID, courseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Recompute runs the full aggregation for (user, course) in one transaction.
// It is idempotent: with no intervening ledger or catalog change, a second
// call produces the same row.
func (s *ProgressService) Recompute(userID, courseID uint) (*model.CourseProgress, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, util.ErrCourseNotFound
	}

	var progress *model.CourseProgress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		progress, err = s.recomputeTx(tx, userID, courseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *ProgressService) recomputeTx(tx *gorm.DB, userID, courseID uint) (*model.CourseProgress, error) {
	var requiredIDs []uint
	if err := tx.Model(&model.Resource{}).
		Where("course_id = ? AND requirement = ?", courseID, model.Required).
		Pluck("id", &requiredIDs).Error; err != nil {
		return nil, err
	}

	// Only ledger rows whose resource is currently required count; optional
	// and alternative resources never enter the totals, and a tier edit from
	// required to optional retroactively lowers the denominator.
	var completed int64
	if len(requiredIDs) > 0 {
		if err := tx.Model(&model.ResourceProgress{}).
			Where("user_id = ? AND course_id = ? AND completed = ? AND resource_id IN ?", userID, courseID, true, requiredIDs).
			Count(&completed).Error; err != nil {
			return nil, err
		}
	}

	denominator := len(requiredIDs)
	if denominator < 1 {
		denominator = 1
	}
	percent := float64(completed) / float64(denominator) * 100
	isComplete := len(requiredIDs) > 0 && percent >= 100

	var progress model.CourseProgress
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	wasComplete := progress.Completed

	progress.UserID = userID
	progress.CourseID = courseID
	progress.RequiredCount = len(requiredIDs)
	progress.CompletedCount = int(completed)
	progress.Percent = percent
	progress.Completed = isComplete

	if progress.ID == 0 {
		if err := tx.Create(&progress).Error; err != nil {
			return nil, err
		}
	} else {
		if err := tx.Save(&progress).Error; err != nil {
			return nil, err
		}
	}

	if isComplete && !wasComplete {
		payload := map[string]uint{"userId": userID, "courseId": courseID}
		if err := EmitEventTx(tx, model.TopicCourseCompleted, payload); err != nil {
			return nil, err
		}
	}

	// On a completed course the gate re-evaluates every evaluation outcome;
	// an ineligible result is a normal outcome, not an error.
	if isComplete {
		_, reason, err := s.CertSvc.IssueTx(tx, userID, courseID, model.SystemIssuer)
		if err != nil {
			return nil, err
		}
		if reason != "" {
			logger.Log.Debug("automatic certificate issuance skipped",
				zap.Uint("userId", userID),
				zap.Uint("courseId", courseID),
				zap.String("reason", reason))
		}
	}

	return &progress, nil
}

// GetCourseProgress returns the stored aggregate, recomputing it first when
// no row exists yet.
func (s *ProgressService) GetCourseProgress(userID, courseID uint) (*model.CourseProgress, error) {
	progress, err := s.ProgressRepo.GetCourseProgress(userID, courseID)
	if err == gorm.ErrRecordNotFound {
		return s.Recompute(userID, courseID)
	}
	if err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *ProgressService) ListResourceProgress(userID, courseID uint) ([]model.ResourceProgress, error) {
	return s.ProgressRepo.ListByUserAndCourse(userID, courseID)
}
