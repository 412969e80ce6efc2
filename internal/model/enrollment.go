package model

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID   uint             `gorm:"index:idx_user_course_enrollment,unique;type:bigint unsigned;not null" json:"userId"`
	CourseID uint             `gorm:"index:idx_user_course_enrollment,unique;type:bigint unsigned;not null" json:"courseId"`
	Status   EnrollmentStatus `gorm:"size:20;default:'active'" json:"status"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
