package model

type ResourceType string

const (
	Document    ResourceType = "document"
	Video       ResourceType = "video"
	LiveSession ResourceType = "live_session"
)

// ResourceRequirement is the requirement tier of a resource inside a course.
// Only "required" resources count toward completion; an "alternative" resource
// is one of a group of interchangeable resources.
type ResourceRequirement string

const (
	Required    ResourceRequirement = "required"
	Optional    ResourceRequirement = "optional"
	Alternative ResourceRequirement = "alternative"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title               string `gorm:"size:255;not null" json:"title"`
	Description         string `gorm:"type:text" json:"description"`
	Published           bool   `gorm:"default:false" json:"published"`
	CertificateEnabled  bool   `gorm:"default:false" json:"certificateEnabled"`
	CertificateTemplate string `gorm:"size:255" json:"certificateTemplate"`
	CreatorID           uint   `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Section
type Section struct {
	BaseModel
	CourseID uint   `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Order    int    `gorm:"default:0" json:"order"`
}

func (Section) TableName() string {
	return "sections"
}

// swagger:model Resource
type Resource struct {
	BaseModel
	CourseID    uint                `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	SectionID   uint                `gorm:"index;type:bigint unsigned" json:"sectionId"`
	Title       string              `gorm:"size:255;not null" json:"title"`
	Description string              `gorm:"type:text" json:"description"`
	Type        ResourceType        `gorm:"size:20;not null" json:"type"`
	Requirement ResourceRequirement `gorm:"size:20;default:'required'" json:"requirement"`
	Order       int                 `gorm:"default:0" json:"order"`
	URL         string              `gorm:"size:255" json:"url"`
	Duration    float64             `gorm:"default:0" json:"duration"` // seconds, videos only
	Size        int64               `gorm:"default:0" json:"size"`
	Format      string              `gorm:"size:50" json:"format"`
	Thumbnail   string              `gorm:"size:255" json:"thumbnail"`
	UploaderID  uint                `gorm:"index;type:bigint unsigned" json:"uploaderId"`
}

func (Resource) TableName() string {
	return "resources"
}
