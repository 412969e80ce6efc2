package model

import "time"

type ReopenStatus string

const (
	ReopenPending  ReopenStatus = "pending"
	ReopenApproved ReopenStatus = "approved"
	ReopenDenied   ReopenStatus = "denied"
)

// EvaluationReopenRequest is a student petition for extra attempts after the
// budget is exhausted. Approval raises the effective budget by ExtraAttempts
// without touching historical attempts.
// swagger:model EvaluationReopenRequest
type EvaluationReopenRequest struct {
	BaseModel
	EvaluationID  uint         `gorm:"index;type:bigint unsigned;not null" json:"evaluationId"`
	UserID        uint         `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Justification string       `gorm:"type:text;not null" json:"justification"`
	Status        ReopenStatus `gorm:"size:20;default:'pending'" json:"status"`
	ExtraAttempts int          `gorm:"default:0" json:"extraAttempts"`
	ReviewerID    *uint        `gorm:"type:bigint unsigned" json:"reviewerId,omitempty"`
	ReviewedAt    *time.Time   `json:"reviewedAt,omitempty"`
}

func (EvaluationReopenRequest) TableName() string {
	return "evaluation_reopen_requests"
}
