package model

import "time"

// SystemIssuer marks certificates created by automatic triggers rather than
// an explicit staff action.
const SystemIssuer = "system"

// Certification is issued exactly once per (user, course). The unique index
// backs up the in-transaction existence check; a duplicate-key error on a
// concurrent second writer is treated as "already issued".
// swagger:model Certification
type Certification struct {
	BaseModel
	UserID   uint      `gorm:"index:idx_user_course_cert,unique;type:bigint unsigned;not null" json:"userId"`
	CourseID uint      `gorm:"index:idx_user_course_cert,unique;type:bigint unsigned;not null" json:"courseId"`
	Serial   string    `gorm:"size:36;unique;not null" json:"serial"`
	Template string    `gorm:"size:255" json:"template"`
	Score    float64   `gorm:"default:0" json:"score"` // evaluation score snapshot at issue time
	IssuedBy string    `gorm:"size:100;not null" json:"issuedBy"`
	IssuedAt time.Time `json:"issuedAt"`
}

func (Certification) TableName() string {
	return "certifications"
}
