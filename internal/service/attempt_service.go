package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"course_platform_backend/pkg/logger"
	"course_platform_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttemptService scores submitted answers against an evaluation's questions
// and enforces the effective attempt budget (max_attempts plus approved
// reopen grants). Attempts are write-once: score and passed are fixed at
// submission time.
type AttemptService struct {
	EvalRepo    *repository.EvaluationRepository
	AttemptRepo *repository.AttemptRepository
	EnrollRepo  *repository.EnrollmentRepository
	ProgressSvc *ProgressService
	DB          *gorm.DB
}

func NewAttemptService(
	evalRepo *repository.EvaluationRepository,
	attemptRepo *repository.AttemptRepository,
	enrollRepo *repository.EnrollmentRepository,
	progressSvc *ProgressService,
	db *gorm.DB,
) *AttemptService {
	return &AttemptService{
		EvalRepo:    evalRepo,
		AttemptRepo: attemptRepo,
		EnrollRepo:  enrollRepo,
		ProgressSvc: progressSvc,
		DB:          db,
	}
}

type AnswerReq struct {
	OptionID *uint  `json:"optionId"`
	Text     string `json:"text"`
}

type SubmitAttemptReq struct {
	// Answers is keyed by question id.
	Answers   map[string]AnswerReq `json:"answers" binding:"required"`
	StartedAt *time.Time           `json:"startedAt"`
}

func (s *AttemptService) SubmitAttempt(userID, evaluationID uint, req SubmitAttemptReq) (*model.EvaluationAttempt, error) {
	evaluation, err := s.EvalRepo.FindByID(evaluationID)
	if err != nil {
		return nil, util.ErrEvaluationNotFound
	}

	enrolled, err := s.EnrollRepo.IsActive(userID, evaluation.CourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	now := time.Now()
	if evaluation.Closed(now) {
		return nil, util.ErrEvaluationClosed
	}

	questions, err := s.EvalRepo.ListQuestions(evaluationID)
	if err != nil {
		return nil, err
	}
	questionIDs := make([]uint, len(questions))
	for i, q := range questions {
		questionIDs[i] = q.ID
	}
	options, err := s.EvalRepo.ListOptions(questionIDs)
	if err != nil {
		return nil, err
	}

	questionByID := make(map[uint]*model.Question, len(questions))
	for i := range questions {
		questionByID[questions[i].ID] = &questions[i]
	}
	optionQuestion := make(map[uint]uint, len(options)) // option id -> owning question
	correctOption := make(map[uint]uint)                // question id -> correct option id
	for _, opt := range options {
		optionQuestion[opt.ID] = opt.QuestionID
		if opt.IsCorrect {
			correctOption[opt.QuestionID] = opt.ID
		}
	}

	// Reject anything referencing a question or option outside the evaluation
	// before scoring.
	answers := make(map[uint]AnswerReq, len(req.Answers))
	for key, ans := range req.Answers {
		questionID := util.MustParseUint(key)
		question, ok := questionByID[questionID]
		if !ok {
			return nil, util.ErrMalformedAnswer
		}
		if ans.OptionID != nil {
			if owner, ok := optionQuestion[*ans.OptionID]; !ok || owner != questionID {
				return nil, util.ErrMalformedAnswer
			}
		}
		if question.Type == model.FreeText && ans.OptionID != nil {
			return nil, util.ErrMalformedAnswer
		}
		answers[questionID] = ans
	}

	// Free-text questions await manual grading and are excluded from the
	// automatic denominator. An evaluation with no auto-gradable questions
	// scores 0 and cannot be passed automatically.
	autoGradable := 0
	correct := 0
	for _, q := range questions {
		if !q.AutoGradable() {
			continue
		}
		autoGradable++
		ans, answered := answers[q.ID]
		if answered && ans.OptionID != nil && correctOption[q.ID] == *ans.OptionID {
			correct++
		}
	}

	score := 0.0
	if autoGradable > 0 {
		score = float64(correct) / float64(autoGradable) * 100
	}
	passed := score >= evaluation.PassingScore

	startedAt := now
	if req.StartedAt != nil {
		startedAt = *req.StartedAt
	}

	attempt := &model.EvaluationAttempt{
		EvaluationID: evaluationID,
		UserID:       userID,
		Score:        score,
		Passed:       passed,
		StartedAt:    startedAt,
		SubmittedAt:  now,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// The budget check runs inside the transaction so two concurrent
		// submissions cannot both slip under the ceiling.
		if evaluation.MaxAttempts > 0 {
			var used int64
			if err := tx.Model(&model.EvaluationAttempt{}).
				Where("user_id = ? AND evaluation_id = ?", userID, evaluationID).
				Count(&used).Error; err != nil {
				return err
			}
			var grants int64
			if err := tx.Model(&model.EvaluationReopenRequest{}).
				Where("user_id = ? AND evaluation_id = ? AND status = ?", userID, evaluationID, model.ReopenApproved).
				Select("COALESCE(SUM(extra_attempts), 0)").
				Scan(&grants).Error; err != nil {
				return err
			}
			if used >= int64(evaluation.MaxAttempts)+grants {
				return util.ErrNoAttemptsRemaining
			}
		}

		if err := tx.Create(attempt).Error; err != nil {
			return err
		}

		for questionID, ans := range answers {
			row := model.AttemptAnswer{
				AttemptID:  attempt.ID,
				QuestionID: questionID,
				OptionID:   ans.OptionID,
				Text:       ans.Text,
			}
			if questionByID[questionID].AutoGradable() {
				isCorrect := ans.OptionID != nil && correctOption[questionID] == *ans.OptionID
				row.Correct = &isCorrect
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := "failed"
	if passed {
		result = "passed"
	}
	monitoring.AttemptsScored.WithLabelValues(result).Inc()

	// A passing attempt can complete the course; the aggregator re-derives
	// everything from stored attempts, so a failure here cannot corrupt the
	// attempt itself.
	if passed {
		if _, err := s.ProgressSvc.Recompute(userID, evaluation.CourseID); err != nil {
			logger.Log.Error("progress recompute after passing attempt failed",
				zap.Uint("userId", userID),
				zap.Uint("courseId", evaluation.CourseID),
				zap.Error(err))
		}
	}

	return attempt, nil
}

func (s *AttemptService) ListAttempts(userID, evaluationID uint) ([]model.EvaluationAttempt, error) {
	if _, err := s.EvalRepo.FindByID(evaluationID); err != nil {
		return nil, util.ErrEvaluationNotFound
	}
	return s.AttemptRepo.ListByUserAndEvaluation(userID, evaluationID)
}

// RemainingAttempts returns how many submissions the user has left, or -1
// when the evaluation is unlimited.
func (s *AttemptService) RemainingAttempts(userID uint, evaluation *model.Evaluation) (int, error) {
	if evaluation.MaxAttempts == 0 {
		return -1, nil
	}
	used, err := s.AttemptRepo.CountByUserAndEvaluation(userID, evaluation.ID)
	if err != nil {
		return 0, err
	}
	var grants int64
	err = s.DB.Model(&model.EvaluationReopenRequest{}).
		Where("user_id = ? AND evaluation_id = ? AND status = ?", userID, evaluation.ID, model.ReopenApproved).
		Select("COALESCE(SUM(extra_attempts), 0)").
		Scan(&grants).Error
	if err != nil {
		return 0, err
	}

	remaining := evaluation.MaxAttempts + int(grants) - int(used)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
