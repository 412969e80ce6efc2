package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// EvaluationService covers instructor authoring of evaluations, questions and
// options. The attempt engine only ever reads these as of submission time.
type EvaluationService struct {
	EvalRepo   *repository.EvaluationRepository
	CourseRepo *repository.CourseRepository
	DB         *gorm.DB
}

func NewEvaluationService(evalRepo *repository.EvaluationRepository, courseRepo *repository.CourseRepository, db *gorm.DB) *EvaluationService {
	return &EvaluationService{EvalRepo: evalRepo, CourseRepo: courseRepo, DB: db}
}

type QuestionOptionReq struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionReq struct {
	ID      uint                `json:"id"`
	Type    model.QuestionType  `json:"type" binding:"required"`
	Prompt  string              `json:"prompt" binding:"required"`
	Order   int                 `json:"order"`
	Options []QuestionOptionReq `json:"options"`
}

type EvaluationReq struct {
	Title          *string        `json:"title"`
	Description    *string        `json:"description"`
	SectionID      *uint          `json:"sectionId"`
	IsExam         *bool          `json:"isExam"`
	PassingScore   *float64       `json:"passingScore"`
	MaxAttempts    *int           `json:"maxAttempts"`
	AvailableUntil *time.Time     `json:"availableUntil"`
	Questions      *[]QuestionReq `json:"questions"`
}

// validateQuestion enforces the closed question shapes: a boolean question has
// exactly two options with one correct, a single-choice question has at least
// two options with exactly one correct, a free-text question has none.
func validateQuestion(q QuestionReq) error {
	correct := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct++
		}
	}

	switch q.Type {
	case model.Boolean:
		if len(q.Options) != 2 {
			return fmt.Errorf("boolean question %q must have exactly two options", q.Prompt)
		}
		if correct != 1 {
			return fmt.Errorf("boolean question %q must have exactly one correct option", q.Prompt)
		}
	case model.SingleChoice:
		if len(q.Options) < 2 {
			return fmt.Errorf("single-choice question %q must have at least two options", q.Prompt)
		}
		if correct != 1 {
			return fmt.Errorf("single-choice question %q must have exactly one correct option", q.Prompt)
		}
	case model.FreeText:
		if len(q.Options) != 0 {
			return fmt.Errorf("free-text question %q must not have options", q.Prompt)
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}

func validateEvaluationReq(req EvaluationReq) error {
	if req.PassingScore != nil && (*req.PassingScore < 0 || *req.PassingScore > 100) {
		return fmt.Errorf("passing score must be between 0 and 100")
	}
	if req.MaxAttempts != nil && *req.MaxAttempts < 0 {
		return fmt.Errorf("max attempts must not be negative")
	}
	if req.Questions != nil {
		for _, q := range *req.Questions {
			if err := validateQuestion(q); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *EvaluationService) CreateEvaluation(creatorID, courseID uint, req EvaluationReq) (*model.Evaluation, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, util.ErrCourseNotFound
	}
	if req.Title == nil || *req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if err := validateEvaluationReq(req); err != nil {
		return nil, err
	}

	evaluation := &model.Evaluation{
		CourseID:  courseID,
		Title:     *req.Title,
		CreatorID: creatorID,
	}
	if req.Description != nil {
		evaluation.Description = *req.Description
	}
	if req.SectionID != nil {
		evaluation.SectionID = *req.SectionID
	}
	if req.IsExam != nil {
		evaluation.IsExam = *req.IsExam
	}
	if req.PassingScore != nil {
		evaluation.PassingScore = *req.PassingScore
	}
	if req.MaxAttempts != nil {
		evaluation.MaxAttempts = *req.MaxAttempts
	}
	evaluation.AvailableUntil = req.AvailableUntil

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(evaluation).Error; err != nil {
			return err
		}
		if req.Questions == nil {
			return nil
		}
		for _, qReq := range *req.Questions {
			if err := createQuestionTx(tx, evaluation.ID, qReq); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return evaluation, nil
}

func createQuestionTx(tx *gorm.DB, evaluationID uint, req QuestionReq) error {
	question := &model.Question{
		EvaluationID: evaluationID,
		Type:         req.Type,
		Prompt:       req.Prompt,
		Order:        req.Order,
	}
	if err := tx.Create(question).Error; err != nil {
		return err
	}
	for _, optReq := range req.Options {
		option := &model.QuestionOption{
			QuestionID: question.ID,
			Text:       optReq.Text,
			IsCorrect:  optReq.IsCorrect,
		}
		if err := tx.Create(option).Error; err != nil {
			return err
		}
	}
	return nil
}

// UpdateEvaluation patches the evaluation and, when questions are provided,
// replaces the question set (update by id, create new, delete missing).
// Historical attempts are never touched: Passed stays as graded even when
// PassingScore changes.
func (s *EvaluationService) UpdateEvaluation(evaluationID uint, req EvaluationReq) (*model.Evaluation, error) {
	evaluation, err := s.EvalRepo.FindByID(evaluationID)
	if err != nil {
		return nil, util.ErrEvaluationNotFound
	}
	if err := validateEvaluationReq(req); err != nil {
		return nil, err
	}

	if req.Title != nil {
		evaluation.Title = *req.Title
	}
	if req.Description != nil {
		evaluation.Description = *req.Description
	}
	if req.SectionID != nil {
		evaluation.SectionID = *req.SectionID
	}
	if req.IsExam != nil {
		evaluation.IsExam = *req.IsExam
	}
	if req.PassingScore != nil {
		evaluation.PassingScore = *req.PassingScore
	}
	if req.MaxAttempts != nil {
		evaluation.MaxAttempts = *req.MaxAttempts
	}
	if req.AvailableUntil != nil {
		evaluation.AvailableUntil = req.AvailableUntil
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(evaluation).Error; err != nil {
			return err
		}
		if req.Questions == nil {
			return nil
		}

		existing, err := s.EvalRepo.ListQuestions(evaluationID)
		if err != nil {
			return err
		}
		existingMap := make(map[uint]*model.Question, len(existing))
		for i := range existing {
			existingMap[existing[i].ID] = &existing[i]
		}

		kept := make(map[uint]bool)
		for _, qReq := range *req.Questions {
			if qReq.ID != 0 {
				q, ok := existingMap[qReq.ID]
				if !ok {
					return fmt.Errorf("question %d does not belong to this evaluation", qReq.ID)
				}
				q.Type = qReq.Type
				q.Prompt = qReq.Prompt
				q.Order = qReq.Order
				if err := tx.Save(q).Error; err != nil {
					return err
				}
				if err := tx.Where("question_id = ?", q.ID).Delete(&model.QuestionOption{}).Error; err != nil {
					return err
				}
				for _, optReq := range qReq.Options {
					option := &model.QuestionOption{QuestionID: q.ID, Text: optReq.Text, IsCorrect: optReq.IsCorrect}
					if err := tx.Create(option).Error; err != nil {
						return err
					}
				}
				kept[q.ID] = true
			} else {
				if err := createQuestionTx(tx, evaluationID, qReq); err != nil {
					return err
				}
			}
		}

		for id := range existingMap {
			if !kept[id] {
				if err := tx.Where("question_id = ?", id).Delete(&model.QuestionOption{}).Error; err != nil {
					return err
				}
				if err := tx.Delete(&model.Question{}, id).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return evaluation, nil
}

func (s *EvaluationService) GetEvaluation(evaluationID uint) (*model.Evaluation, []model.Question, []model.QuestionOption, error) {
	evaluation, err := s.EvalRepo.FindByID(evaluationID)
	if err != nil {
		return nil, nil, nil, util.ErrEvaluationNotFound
	}

	questions, err := s.EvalRepo.ListQuestions(evaluationID)
	if err != nil {
		return nil, nil, nil, err
	}

	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	options, err := s.EvalRepo.ListOptions(ids)
	if err != nil {
		return nil, nil, nil, err
	}

	return evaluation, questions, options, nil
}

type StudentOption struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type StudentQuestion struct {
	ID      uint               `json:"id"`
	Type    model.QuestionType `json:"type"`
	Prompt  string             `json:"prompt"`
	Order   int                `json:"order"`
	Options []StudentOption    `json:"options,omitempty"`
}

// GetForStudent returns the evaluation with correctness flags stripped.
func (s *EvaluationService) GetForStudent(evaluationID uint) (*model.Evaluation, []StudentQuestion, error) {
	evaluation, questions, options, err := s.GetEvaluation(evaluationID)
	if err != nil {
		return nil, nil, err
	}

	optionsByQuestion := make(map[uint][]StudentOption)
	for _, opt := range options {
		optionsByQuestion[opt.QuestionID] = append(optionsByQuestion[opt.QuestionID], StudentOption{
			ID:   opt.ID,
			Text: opt.Text,
		})
	}

	studentQs := make([]StudentQuestion, len(questions))
	for i, q := range questions {
		studentQs[i] = StudentQuestion{
			ID:      q.ID,
			Type:    q.Type,
			Prompt:  q.Prompt,
			Order:   q.Order,
			Options: optionsByQuestion[q.ID],
		}
	}

	return evaluation, studentQs, nil
}

func (s *EvaluationService) ListByCourse(courseID uint) ([]model.Evaluation, error) {
	return s.EvalRepo.ListByCourse(courseID)
}
