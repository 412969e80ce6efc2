package repository

import (
	"course_platform_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) FindByID(id uint) (*model.EvaluationAttempt, error) {
	var attempt model.EvaluationAttempt
	if err := r.DB.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) CountByUserAndEvaluation(userID, evaluationID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.EvaluationAttempt{}).
		Where("user_id = ? AND evaluation_id = ?", userID, evaluationID).
		Count(&count).Error
	return count, err
}

func (r *AttemptRepository) ListByUserAndEvaluation(userID, evaluationID uint) ([]model.EvaluationAttempt, error) {
	var attempts []model.EvaluationAttempt
	err := r.DB.Where("user_id = ? AND evaluation_id = ?", userID, evaluationID).
		Order("submitted_at ASC").Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) GetAnswers(attemptID uint) ([]model.AttemptAnswer, error) {
	var answers []model.AttemptAnswer
	err := r.DB.Where("attempt_id = ?", attemptID).Find(&answers).Error
	return answers, err
}
