package model

import "time"

// ResourceProgress is the per-student, per-resource ledger row. Upserted by
// (user, course, resource); Requirement is copied from the resource when the
// row is first created.
// swagger:model ResourceProgress
type ResourceProgress struct {
	BaseModel
	UserID      uint                `gorm:"index:idx_user_course_resource,unique;type:bigint unsigned;not null" json:"userId"`
	CourseID    uint                `gorm:"index:idx_user_course_resource,unique;type:bigint unsigned;not null" json:"courseId"`
	ResourceID  uint                `gorm:"index:idx_user_course_resource,unique;type:bigint unsigned;not null" json:"resourceId"`
	Completed   bool                `gorm:"default:false" json:"completed"`
	Requirement ResourceRequirement `gorm:"size:20;default:'required'" json:"requirement"`
	CompletedAt *time.Time          `json:"completedAt,omitempty"`
}

func (ResourceProgress) TableName() string {
	return "resource_progress"
}

// CourseProgress is the per-student course aggregate. It is always fully
// recomputed from the ledger and the current catalog, never patched
// incrementally, so tier edits after enrollment cannot cause drift.
// swagger:model CourseProgress
type CourseProgress struct {
	BaseModel
	UserID         uint    `gorm:"index:idx_user_course_progress,unique;type:bigint unsigned;not null" json:"userId"`
	CourseID       uint    `gorm:"index:idx_user_course_progress,unique;type:bigint unsigned;not null" json:"courseId"`
	RequiredCount  int     `gorm:"default:0" json:"requiredCount"`
	CompletedCount int     `gorm:"default:0" json:"completedCount"`
	Percent        float64 `gorm:"default:0" json:"percent"`
	Completed      bool    `gorm:"default:false" json:"completed"`
}

func (CourseProgress) TableName() string {
	return "course_progress"
}
