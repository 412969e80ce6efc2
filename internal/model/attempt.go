package model

import "time"

// EvaluationAttempt is one scored submission. Rows are write-once: Score and
// Passed are fixed at submission time and never recomputed, even if the
// evaluation's passing score is edited later.
// swagger:model EvaluationAttempt
type EvaluationAttempt struct {
	BaseModel
	EvaluationID uint      `gorm:"index:idx_eval_user_attempt;type:bigint unsigned;not null" json:"evaluationId"`
	UserID       uint      `gorm:"index:idx_eval_user_attempt;type:bigint unsigned;not null" json:"userId"`
	Score        float64   `gorm:"default:0" json:"score"` // 0-100
	Passed       bool      `gorm:"default:false" json:"passed"`
	StartedAt    time.Time `json:"startedAt"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

func (EvaluationAttempt) TableName() string {
	return "evaluation_attempts"
}

// AttemptAnswer preserves a graded selection. Correct stays nil for free_text
// answers, which are pending manual grading.
// swagger:model AttemptAnswer
type AttemptAnswer struct {
	BaseModel
	AttemptID  uint   `gorm:"index;type:bigint unsigned;not null" json:"attemptId"`
	QuestionID uint   `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	OptionID   *uint  `gorm:"type:bigint unsigned" json:"optionId,omitempty"`
	Text       string `gorm:"type:text" json:"text,omitempty"`
	Correct    *bool  `json:"correct,omitempty"`
}

func (AttemptAnswer) TableName() string {
	return "attempt_answers"
}
