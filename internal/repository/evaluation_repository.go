package repository

import (
	"course_platform_backend/internal/model"

	"gorm.io/gorm"
)

type EvaluationRepository struct {
	DB *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{DB: db}
}

func (r *EvaluationRepository) Create(evaluation *model.Evaluation) error {
	return r.DB.Create(evaluation).Error
}

func (r *EvaluationRepository) Update(evaluation *model.Evaluation) error {
	return r.DB.Save(evaluation).Error
}

func (r *EvaluationRepository) FindByID(id uint) (*model.Evaluation, error) {
	var evaluation model.Evaluation
	if err := r.DB.First(&evaluation, id).Error; err != nil {
		return nil, err
	}
	return &evaluation, nil
}

func (r *EvaluationRepository) ListByCourse(courseID uint) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	err := r.DB.Where("course_id = ?", courseID).Order("id ASC").Find(&evaluations).Error
	return evaluations, err
}

// ListQuestions returns the evaluation's questions in their explicit order,
// which grading alignment depends on.
func (r *EvaluationRepository) ListQuestions(evaluationID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("evaluation_id = ?", evaluationID).Order("`order` ASC, id ASC").Find(&questions).Error
	return questions, err
}

func (r *EvaluationRepository) ListOptions(questionIDs []uint) ([]model.QuestionOption, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}
	var options []model.QuestionOption
	err := r.DB.Where("question_id IN ?", questionIDs).Order("id ASC").Find(&options).Error
	return options, err
}
