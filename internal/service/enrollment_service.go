package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollRepo *repository.EnrollmentRepository
	CourseRepo *repository.CourseRepository
}

func NewEnrollmentService(enrollRepo *repository.EnrollmentRepository, courseRepo *repository.CourseRepository) *EnrollmentService {
	return &EnrollmentService{EnrollRepo: enrollRepo, CourseRepo: courseRepo}
}

// Enroll is idempotent: a second call returns the existing enrollment, and a
// cancelled one is reactivated.
func (s *EnrollmentService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if !course.Published {
		return nil, util.ErrCourseNotPublished
	}

	existing, err := s.EnrollRepo.FindByUserAndCourse(userID, courseID)
	if err == nil {
		if existing.Status == model.EnrollmentCancelled {
			existing.Status = model.EnrollmentActive
			if err := s.EnrollRepo.DB.Save(existing).Error; err != nil {
				return nil, err
			}
		}
		return existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	enrollment := &model.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   model.EnrollmentActive,
	}
	if err := s.EnrollRepo.Create(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) ListByUser(userID uint) ([]model.Enrollment, error) {
	return s.EnrollRepo.ListByUser(userID)
}
