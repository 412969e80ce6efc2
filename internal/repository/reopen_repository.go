package repository

import (
	"course_platform_backend/internal/model"

	"gorm.io/gorm"
)

type ReopenRepository struct {
	DB *gorm.DB
}

func NewReopenRepository(db *gorm.DB) *ReopenRepository {
	return &ReopenRepository{DB: db}
}

func (r *ReopenRepository) Create(request *model.EvaluationReopenRequest) error {
	return r.DB.Create(request).Error
}

func (r *ReopenRepository) Update(request *model.EvaluationReopenRequest) error {
	return r.DB.Save(request).Error
}

func (r *ReopenRepository) FindByID(id uint) (*model.EvaluationReopenRequest, error) {
	var request model.EvaluationReopenRequest
	if err := r.DB.First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// HasPending reports whether the user already has an unresolved request for
// the evaluation. At most one pending request per (user, evaluation) exists.
func (r *ReopenRepository) HasPending(userID, evaluationID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.EvaluationReopenRequest{}).
		Where("user_id = ? AND evaluation_id = ? AND status = ?", userID, evaluationID, model.ReopenPending).
		Count(&count).Error
	return count > 0, err
}

// ApprovedExtraAttempts sums the attempt grants from approved requests; the
// effective budget is max_attempts plus this figure.
func (r *ReopenRepository) ApprovedExtraAttempts(userID, evaluationID uint) (int, error) {
	var total int64
	err := r.DB.Model(&model.EvaluationReopenRequest{}).
		Where("user_id = ? AND evaluation_id = ? AND status = ?", userID, evaluationID, model.ReopenApproved).
		Select("COALESCE(SUM(extra_attempts), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *ReopenRepository) ListPending(page, limit int) ([]model.EvaluationReopenRequest, int64, error) {
	var requests []model.EvaluationReopenRequest
	var total int64

	q := r.DB.Model(&model.EvaluationReopenRequest{}).Where("status = ?", model.ReopenPending)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("id ASC").Offset((page - 1) * limit).Limit(limit).Find(&requests).Error
	return requests, total, err
}
