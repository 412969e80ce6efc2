package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReopenRequestRequiresExhaustedBudget(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, model.Student)
	course := env.createCourse(t, false)
	env.enroll(t, user.ID, course.ID)

	limited, _, wrong := env.createBooleanEvaluation(t, course.ID, 50, 1)
	unlimited, _, _ := env.createBooleanEvaluation(t, course.ID, 50, 0)
	questions, err := env.evalRepo.ListQuestions(limited.ID)
	require.NoError(t, err)

	// Unlimited evaluations never exhaust.
	_, err = env.reopen.Request(user.ID, unlimited.ID, "please")
	assert.ErrorIs(t, err, util.ErrAttemptsNotExhausted)

	// Budget not yet used up.
	_, err = env.reopen.Request(user.ID, limited.ID, "please")
	assert.ErrorIs(t, err, util.ErrAttemptsNotExhausted)

	_, err = env.attempt.SubmitAttempt(user.ID, limited.ID, SubmitAttemptReq{Answers: answersFor(questions[0].ID, wrong)})
	require.NoError(t, err)

	// Justification is mandatory.
	_, err = env.reopen.Request(user.ID, limited.ID, "   ")
	assert.ErrorIs(t, err, util.ErrJustificationRequired)

	request, err := env.reopen.Request(user.ID, limited.ID, "network dropped mid-attempt")
	require.NoError(t, err)
	assert.Equal(t, model.ReopenPending, request.Status)

	// Only one pending request per (user, evaluation).
	_, err = env.reopen.Request(user.ID, limited.ID, "second try")
	assert.ErrorIs(t, err, util.ErrReopenPending)
}

func TestReopenApproveAndDeny(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, model.Student)
	staff := env.createUser(t, model.Admin)
	course := env.createCourse(t, false)
	env.enroll(t, user.ID, course.ID)

	evaluation, _, wrong := env.createBooleanEvaluation(t, course.ID, 50, 1)
	questions, err := env.evalRepo.ListQuestions(evaluation.ID)
	require.NoError(t, err)

	_, err = env.attempt.SubmitAttempt(user.ID, evaluation.ID, SubmitAttemptReq{Answers: answersFor(questions[0].ID, wrong)})
	require.NoError(t, err)

	request, err := env.reopen.Request(user.ID, evaluation.ID, "misclicked")
	require.NoError(t, err)

	approved, err := env.reopen.Approve(staff.ID, request.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, model.ReopenApproved, approved.Status)
	assert.Equal(t, 1, approved.ExtraAttempts) // defaulted
	require.NotNil(t, approved.ReviewerID)
	assert.Equal(t, staff.ID, *approved.ReviewerID)
	assert.NotNil(t, approved.ReviewedAt)

	// Resolved requests are terminal.
	_, err = env.reopen.Approve(staff.ID, request.ID, 1)
	assert.ErrorIs(t, err, util.ErrReopenResolved)
	_, err = env.reopen.Deny(staff.ID, request.ID)
	assert.ErrorIs(t, err, util.ErrReopenResolved)

	// Use the extra attempt, exhaust again, then get denied.
	_, err = env.attempt.SubmitAttempt(user.ID, evaluation.ID, SubmitAttemptReq{Answers: answersFor(questions[0].ID, wrong)})
	require.NoError(t, err)

	second, err := env.reopen.Request(user.ID, evaluation.ID, "one more chance")
	require.NoError(t, err)

	denied, err := env.reopen.Deny(staff.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReopenDenied, denied.Status)
	assert.Equal(t, 0, denied.ExtraAttempts)

	// Denial leaves the budget unchanged.
	_, err = env.attempt.SubmitAttempt(user.ID, evaluation.ID, SubmitAttemptReq{Answers: answersFor(questions[0].ID, wrong)})
	assert.ErrorIs(t, err, util.ErrNoAttemptsRemaining)
}

func TestReopenListPending(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, model.Student)
	course := env.createCourse(t, false)
	env.enroll(t, user.ID, course.ID)

	evaluation, _, wrong := env.createBooleanEvaluation(t, course.ID, 50, 1)
	questions, err := env.evalRepo.ListQuestions(evaluation.ID)
	require.NoError(t, err)

	_, err = env.attempt.SubmitAttempt(user.ID, evaluation.ID, SubmitAttemptReq{Answers: answersFor(questions[0].ID, wrong)})
	require.NoError(t, err)
	_, err = env.reopen.Request(user.ID, evaluation.ID, "deadline pressure")
	require.NoError(t, err)

	pending, total, err := env.reopen.ListPending(1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, user.ID, pending[0].UserID)
}
