package model

import "time"

// QuestionType is a closed set; free_text questions are excluded from
// automatic scoring and wait for manual grading.
type QuestionType string

const (
	Boolean      QuestionType = "boolean"
	SingleChoice QuestionType = "single_choice"
	FreeText     QuestionType = "free_text"
)

// swagger:model Evaluation
type Evaluation struct {
	BaseModel
	CourseID       uint       `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	SectionID      uint       `gorm:"index;type:bigint unsigned" json:"sectionId"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	IsExam         bool       `gorm:"default:false" json:"isExam"`
	PassingScore   float64    `gorm:"default:0" json:"passingScore"` // 0-100
	MaxAttempts    int        `gorm:"default:0" json:"maxAttempts"`  // 0 = unlimited
	AvailableUntil *time.Time `json:"availableUntil,omitempty"`      // past deadline = closed for new attempts
	CreatorID      uint       `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

// Closed reports whether the evaluation no longer accepts new attempts.
func (e *Evaluation) Closed(now time.Time) bool {
	return e.AvailableUntil != nil && now.After(*e.AvailableUntil)
}

// swagger:model Question
type Question struct {
	BaseModel
	EvaluationID uint         `gorm:"index;type:bigint unsigned;not null" json:"evaluationId"`
	Type         QuestionType `gorm:"size:20;not null" json:"type"`
	Prompt       string       `gorm:"type:text;not null" json:"prompt"`
	Order        int          `gorm:"default:0" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}

// AutoGradable reports whether the question counts toward the automatic score.
func (q *Question) AutoGradable() bool {
	return q.Type == Boolean || q.Type == SingleChoice
}

// swagger:model QuestionOption
type QuestionOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}
