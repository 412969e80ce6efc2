package service

import (
	"course_platform_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateAutoIssueOnCompletion(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, model.Student)
	course := env.createCourse(t, true)
	resource := env.addResource(t, course.ID, model.Required)
	env.enroll(t, user.ID, course.ID)

	// No evaluations: completing the last required resource issues directly.
	_, err := env.progress.MarkResourceComplete(user.ID, course.ID, resource.ID, user.Role)
	require.NoError(t, err)

	cert, err := env.certificate.GetByUserAndCourse(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SystemIssuer, cert.IssuedBy)
	assert.Equal(t, 100.0, cert.Score)
	assert.NotEmpty(t, cert.Serial)

	var events int64
	require.NoError(t, env.db.Model(&model.OutboxEvent{}).
		Where("topic = ?", model.TopicCertificateIssued).Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

func TestCertificateBlockedByUnpassedEvaluation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, model.Student)
	course := env.createCourse(t, true)
	resource := env.addResource(t, course.ID, model.Required)
	env.enroll(t, user.ID, course.ID)

	evaluation, correct, _ := env.createBooleanEvaluation(t, course.ID, 50, 0)
	questions, err := env.evalRepo.ListQuestions(evaluation.ID)
	require.NoError(t, err)

	_, err = env.progress.MarkResourceComplete(user.ID, course.ID, resource.ID, user.Role)
	require.NoError(t, err)

	eligible, reason, err := env.certificate.CanIssue(user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, eligible)
	assert.Equal(t, ReasonEvaluationNotPassed, reason)

	// Ineligibility is a reason, not an error, for manual issuance too.
	cert, reason, err := env.certificate.Issue(user.ID, course.ID, "staff@example.com")
	require.NoError(t, err)
	assert.Nil(t, cert)
	assert.Equal(t, ReasonEvaluationNotPassed, reason)

	// A passing attempt unlocks the gate and auto-issues via the aggregator.
	_, err = env.attempt.SubmitAttempt(user.ID, evaluation.ID, SubmitAttemptReq{
		Answers: answersFor(questions[0].ID, correct),
	})
	require.NoError(t, err)

	cert, err = env.certificate.GetByUserAndCourse(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, cert.Score)
}

func TestCertificateIssueIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, model.Student)
	course := env.createCourse(t, true)
	resource := env.addResource(t, course.ID, model.Required)
	env.enroll(t, user.ID, course.ID)

	_, err := env.progress.MarkResourceComplete(user.ID, course.ID, resource.ID, user.Role)
	require.NoError(t, err)

	first, err := env.certificate.GetByUserAndCourse(user.ID, course.ID)
	require.NoError(t, err)

	// A later manual issue returns the existing certificate untouched.
	second, reason, err := env.certificate.Issue(user.ID, course.ID, "staff@example.com")
	require.NoError(t, err)
	assert.Empty(t, reason)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Serial, second.Serial)
	assert.Equal(t, model.SystemIssuer, second.IssuedBy)

	var count int64
	require.NoError(t, env.db.Model(&model.Certification{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCertificateDisabled(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, model.Student)
	course := env.createCourse(t, false)
	resource := env.addResource(t, course.ID, model.Required)
	env.enroll(t, user.ID, course.ID)

	_, err := env.progress.MarkResourceComplete(user.ID, course.ID, resource.ID, user.Role)
	require.NoError(t, err)

	eligible, reason, err := env.certificate.CanIssue(user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, eligible)
	assert.Equal(t, ReasonCertificatesDisabled, reason)

	_, err = env.certificate.GetByUserAndCourse(user.ID, course.ID)
	assert.Error(t, err)
}

func TestCertificateIncompleteCourse(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, model.Student)
	course := env.createCourse(t, true)
	env.addResource(t, course.ID, model.Required)
	env.enroll(t, user.ID, course.ID)

	eligible, reason, err := env.certificate.CanIssue(user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, eligible)
	assert.Equal(t, ReasonCourseIncomplete, reason)
}

func TestCertificateScoreSnapshotAveragesBestPassingScores(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, model.Student)
	course := env.createCourse(t, true)
	resource := env.addResource(t, course.ID, model.Required)
	env.enroll(t, user.ID, course.ID)

	// Two evaluations; the second is a two-question one passed at 50.
	eval1, correct1, _ := env.createBooleanEvaluation(t, course.ID, 50, 0)
	q1, err := env.evalRepo.ListQuestions(eval1.ID)
	require.NoError(t, err)

	eval2, err := env.evaluation.CreateEvaluation(1, course.ID, EvaluationReq{
		Title:        ptr("Second"),
		PassingScore: ptr(50.0),
		Questions: ptr([]QuestionReq{
			{
				Type:   model.Boolean,
				Prompt: "Maps are ordered",
				Options: []QuestionOptionReq{
					{Text: "false", IsCorrect: true},
					{Text: "true"},
				},
			},
			{
				Type:   model.Boolean,
				Prompt: "Arrays are values",
				Options: []QuestionOptionReq{
					{Text: "true", IsCorrect: true},
					{Text: "false"},
				},
			},
		}),
	})
	require.NoError(t, err)

	q2, err := env.evalRepo.ListQuestions(eval2.ID)
	require.NoError(t, err)
	opts2, err := env.evalRepo.ListOptions([]uint{q2[0].ID, q2[1].ID})
	require.NoError(t, err)

	// Pass eval1 at 100.
	_, err = env.attempt.SubmitAttempt(user.ID, eval1.ID, SubmitAttemptReq{
		Answers: answersFor(q1[0].ID, correct1),
	})
	require.NoError(t, err)

	// Pass eval2 at 50: first question correct, second wrong.
	answers := map[string]AnswerReq{}
	for _, opt := range opts2 {
		o := opt
		if o.QuestionID == q2[0].ID && o.IsCorrect {
			answers[uintKey(q2[0].ID)] = AnswerReq{OptionID: &o.ID}
		}
		if o.QuestionID == q2[1].ID && !o.IsCorrect {
			answers[uintKey(q2[1].ID)] = AnswerReq{OptionID: &o.ID}
		}
	}
	_, err = env.attempt.SubmitAttempt(user.ID, eval2.ID, SubmitAttemptReq{Answers: answers})
	require.NoError(t, err)

	_, err = env.progress.MarkResourceComplete(user.ID, course.ID, resource.ID, user.Role)
	require.NoError(t, err)

	cert, err := env.certificate.GetByUserAndCourse(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, cert.Score)
}
