package repository

import (
	"course_platform_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) ListByUserAndCourse(userID, courseID uint) ([]model.ResourceProgress, error) {
	var records []model.ResourceProgress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).Find(&records).Error
	return records, err
}

func (r *ProgressRepository) GetCourseProgress(userID, courseID uint) (*model.CourseProgress, error) {
	var progress model.CourseProgress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}
