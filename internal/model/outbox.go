package model

import (
	"encoding/json"
	"time"
)

const (
	TopicCourseCompleted    = "course.completed"
	TopicCertificateIssued  = "certificate.issued"
	TopicLiveSessionPlanned = "live_session.planned" // calendar sync
)

// OutboxEvent records a state transition for external consumers (calendar
// sync, notifications). Rows are written inside the same transaction as the
// transition and dispatched asynchronously; the core never waits on dispatch.
// swagger:model OutboxEvent
type OutboxEvent struct {
	BaseModel
	Topic        string          `gorm:"size:100;index;not null" json:"topic"`
	Payload      json.RawMessage `gorm:"type:json" json:"payload"`
	DispatchedAt *time.Time      `gorm:"index" json:"dispatchedAt,omitempty"`
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}
