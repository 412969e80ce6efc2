package service

import (
	"course_platform_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEvaluationValidatesQuestionShapes(t *testing.T) {
	env := newTestEnv(t)
	course := env.createCourse(t, false)

	cases := []struct {
		name     string
		question QuestionReq
	}{
		{
			name: "boolean with three options",
			question: QuestionReq{
				Type:   model.Boolean,
				Prompt: "p",
				Options: []QuestionOptionReq{
					{Text: "a", IsCorrect: true}, {Text: "b"}, {Text: "c"},
				},
			},
		},
		{
			name: "boolean with no correct option",
			question: QuestionReq{
				Type:   model.Boolean,
				Prompt: "p",
				Options: []QuestionOptionReq{
					{Text: "a"}, {Text: "b"},
				},
			},
		},
		{
			name: "single choice with one option",
			question: QuestionReq{
				Type:   model.SingleChoice,
				Prompt: "p",
				Options: []QuestionOptionReq{
					{Text: "a", IsCorrect: true},
				},
			},
		},
		{
			name: "single choice with two correct options",
			question: QuestionReq{
				Type:   model.SingleChoice,
				Prompt: "p",
				Options: []QuestionOptionReq{
					{Text: "a", IsCorrect: true}, {Text: "b", IsCorrect: true},
				},
			},
		},
		{
			name: "free text with options",
			question: QuestionReq{
				Type:   model.FreeText,
				Prompt: "p",
				Options: []QuestionOptionReq{
					{Text: "a"},
				},
			},
		},
		{
			name:     "unknown type",
			question: QuestionReq{Type: "essay", Prompt: "p"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.evaluation.CreateEvaluation(1, course.ID, EvaluationReq{
				Title:     ptr("Quiz"),
				Questions: ptr([]QuestionReq{tc.question}),
			})
			assert.Error(t, err)
		})
	}
}

func TestCreateEvaluationValidatesBounds(t *testing.T) {
	env := newTestEnv(t)
	course := env.createCourse(t, false)

	_, err := env.evaluation.CreateEvaluation(1, course.ID, EvaluationReq{
		Title:        ptr("Quiz"),
		PassingScore: ptr(120.0),
	})
	assert.Error(t, err)

	_, err = env.evaluation.CreateEvaluation(1, course.ID, EvaluationReq{
		Title:       ptr("Quiz"),
		MaxAttempts: ptr(-1),
	})
	assert.Error(t, err)

	_, err = env.evaluation.CreateEvaluation(1, course.ID, EvaluationReq{})
	assert.Error(t, err) // title required
}

func TestUpdateEvaluationReplacesQuestions(t *testing.T) {
	env := newTestEnv(t)
	course := env.createCourse(t, false)

	evaluation, _, _ := env.createBooleanEvaluation(t, course.ID, 50, 0)
	existing, err := env.evalRepo.ListQuestions(evaluation.ID)
	require.NoError(t, err)
	require.Len(t, existing, 1)

	// Keep the boolean question with a new prompt, add a free-text one.
	updated, err := env.evaluation.UpdateEvaluation(evaluation.ID, EvaluationReq{
		Questions: ptr([]QuestionReq{
			{
				ID:     existing[0].ID,
				Type:   model.Boolean,
				Prompt: "Reworded prompt",
				Options: []QuestionOptionReq{
					{Text: "yes", IsCorrect: true},
					{Text: "no"},
				},
			},
			{Type: model.FreeText, Prompt: "Explain"},
		}),
	})
	require.NoError(t, err)
	assert.Equal(t, evaluation.ID, updated.ID)

	questions, err := env.evalRepo.ListQuestions(evaluation.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "Reworded prompt", questions[0].Prompt)

	// Dropping all questions deletes them.
	_, err = env.evaluation.UpdateEvaluation(evaluation.ID, EvaluationReq{
		Questions: ptr([]QuestionReq{}),
	})
	require.NoError(t, err)

	questions, err = env.evalRepo.ListQuestions(evaluation.ID)
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestGetForStudentStripsAnswerKeys(t *testing.T) {
	env := newTestEnv(t)
	course := env.createCourse(t, false)
	evaluation, _, _ := env.createBooleanEvaluation(t, course.ID, 50, 0)

	_, questions, err := env.evaluation.GetForStudent(evaluation.ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	require.Len(t, questions[0].Options, 2)

	// StudentOption carries only id and text; correctness is not exposed.
	for _, opt := range questions[0].Options {
		assert.NotZero(t, opt.ID)
		assert.NotEmpty(t, opt.Text)
	}
}
