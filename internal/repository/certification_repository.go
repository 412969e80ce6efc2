package repository

import (
	"course_platform_backend/internal/model"

	"gorm.io/gorm"
)

type CertificationRepository struct {
	DB *gorm.DB
}

func NewCertificationRepository(db *gorm.DB) *CertificationRepository {
	return &CertificationRepository{DB: db}
}

func (r *CertificationRepository) FindByUserAndCourse(userID, courseID uint) (*model.Certification, error) {
	var cert model.Certification
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificationRepository) ListByUser(userID uint) ([]model.Certification, error) {
	var certs []model.Certification
	err := r.DB.Where("user_id = ?", userID).Order("issued_at DESC").Find(&certs).Error
	return certs, err
}
