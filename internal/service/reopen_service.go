package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"strings"
	"time"
)

// ReopenService runs the pending → approved/denied petition workflow. An
// approval raises the user's effective attempt budget without touching
// historical attempts.
type ReopenService struct {
	EvalRepo    *repository.EvaluationRepository
	AttemptRepo *repository.AttemptRepository
	ReopenRepo  *repository.ReopenRepository
}

func NewReopenService(evalRepo *repository.EvaluationRepository, attemptRepo *repository.AttemptRepository, reopenRepo *repository.ReopenRepository) *ReopenService {
	return &ReopenService{EvalRepo: evalRepo, AttemptRepo: attemptRepo, ReopenRepo: reopenRepo}
}

// Request creates a pending petition. It is only valid once the attempt
// budget is exhausted, and only one pending request may exist per
// (user, evaluation).
func (s *ReopenService) Request(userID, evaluationID uint, justification string) (*model.EvaluationReopenRequest, error) {
	if strings.TrimSpace(justification) == "" {
		return nil, util.ErrJustificationRequired
	}

	evaluation, err := s.EvalRepo.FindByID(evaluationID)
	if err != nil {
		return nil, util.ErrEvaluationNotFound
	}
	if evaluation.MaxAttempts == 0 {
		// Unlimited evaluations never exhaust.
		return nil, util.ErrAttemptsNotExhausted
	}

	used, err := s.AttemptRepo.CountByUserAndEvaluation(userID, evaluationID)
	if err != nil {
		return nil, err
	}
	grants, err := s.ReopenRepo.ApprovedExtraAttempts(userID, evaluationID)
	if err != nil {
		return nil, err
	}
	if used < int64(evaluation.MaxAttempts+grants) {
		return nil, util.ErrAttemptsNotExhausted
	}

	pending, err := s.ReopenRepo.HasPending(userID, evaluationID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, util.ErrReopenPending
	}

	request := &model.EvaluationReopenRequest{
		EvaluationID:  evaluationID,
		UserID:        userID,
		Justification: justification,
		Status:        model.ReopenPending,
	}
	if err := s.ReopenRepo.Create(request); err != nil {
		return nil, err
	}
	return request, nil
}

// Approve grants extra attempts (one by default) and resolves the petition.
func (s *ReopenService) Approve(reviewerID, requestID uint, extraAttempts int) (*model.EvaluationReopenRequest, error) {
	request, err := s.ReopenRepo.FindByID(requestID)
	if err != nil {
		return nil, util.ErrReopenNotFound
	}
	if request.Status != model.ReopenPending {
		return nil, util.ErrReopenResolved
	}

	if extraAttempts <= 0 {
		extraAttempts = 1
	}

	now := time.Now()
	request.Status = model.ReopenApproved
	request.ExtraAttempts = extraAttempts
	request.ReviewerID = &reviewerID
	request.ReviewedAt = &now

	if err := s.ReopenRepo.Update(request); err != nil {
		return nil, err
	}
	return request, nil
}

// Deny resolves the petition without changing the budget.
func (s *ReopenService) Deny(reviewerID, requestID uint) (*model.EvaluationReopenRequest, error) {
	request, err := s.ReopenRepo.FindByID(requestID)
	if err != nil {
		return nil, util.ErrReopenNotFound
	}
	if request.Status != model.ReopenPending {
		return nil, util.ErrReopenResolved
	}

	now := time.Now()
	request.Status = model.ReopenDenied
	request.ReviewerID = &reviewerID
	request.ReviewedAt = &now

	if err := s.ReopenRepo.Update(request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *ReopenService) ListPending(page, limit int) ([]model.EvaluationReopenRequest, int64, error) {
	return s.ReopenRepo.ListPending(page, limit)
}
