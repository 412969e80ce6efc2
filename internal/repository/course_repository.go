package repository

import (
	"course_platform_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	if err := r.DB.First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) List(page, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	if err := r.DB.Model(&model.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("id DESC").Offset((page - 1) * limit).Limit(limit).Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) CreateSection(section *model.Section) error {
	return r.DB.Create(section).Error
}

func (r *CourseRepository) ListSections(courseID uint) ([]model.Section, error) {
	var sections []model.Section
	err := r.DB.Where("course_id = ?", courseID).Order("`order` ASC, id ASC").Find(&sections).Error
	return sections, err
}

func (r *CourseRepository) CreateResource(resource *model.Resource) error {
	return r.DB.Create(resource).Error
}

func (r *CourseRepository) UpdateResource(resource *model.Resource) error {
	return r.DB.Save(resource).Error
}

func (r *CourseRepository) FindResourceByID(id uint) (*model.Resource, error) {
	var resource model.Resource
	if err := r.DB.First(&resource, id).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *CourseRepository) ListResources(courseID uint) ([]model.Resource, error) {
	var resources []model.Resource
	err := r.DB.Where("course_id = ?", courseID).Order("`order` ASC, id ASC").Find(&resources).Error
	return resources, err
}
