package repository

import (
	"course_platform_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{DB: db}
}

func (r *OutboxRepository) ListUndispatched(limit int) ([]model.OutboxEvent, error) {
	var events []model.OutboxEvent
	err := r.DB.Where("dispatched_at IS NULL").Order("id ASC").Limit(limit).Find(&events).Error
	return events, err
}

func (r *OutboxRepository) MarkDispatched(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now()
	return r.DB.Model(&model.OutboxEvent{}).Where("id IN ?", ids).Update("dispatched_at", &now).Error
}
