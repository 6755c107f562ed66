package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Course is one generated course. CID is the caller-supplied identifier used
// by every endpoint; ID only orders rows by insertion.
type Course struct {
	ID             uint                                 `gorm:"primaryKey;autoIncrement" json:"id"`
	CID            string                               `gorm:"column:cid;not null;uniqueIndex" json:"cid"`
	UserEmail      string                               `gorm:"column:user_email;not null;index" json:"userEmail"`
	Name           string                               `gorm:"column:name;not null" json:"name"`
	Description    string                               `gorm:"column:description" json:"description"`
	Category       string                               `gorm:"column:category" json:"category"`
	Level          string                               `gorm:"column:level;not null" json:"level"`
	NoOfChapters   int                                  `gorm:"column:no_of_chapters;not null" json:"noOfChapters"`
	IncludeVideo   bool                                 `gorm:"column:include_video;not null;default:false" json:"includeVideo"`
	CourseJSON     datatypes.JSONType[CourseLayout]     `gorm:"column:course_json" json:"courseJson"`
	CourseContent  datatypes.JSONType[[]ChapterContent] `gorm:"column:course_content;not null" json:"courseContent"`
	BannerImageURL string                               `gorm:"column:banner_image_url" json:"bannerImageUrl"`
	CreatedAt      time.Time                            `json:"createdAt"`
	UpdatedAt      time.Time                            `json:"updatedAt"`
}

func (Course) TableName() string { return "course" }

// Layout returns the stored outline.
func (c *Course) Layout() CourseLayout {
	if c == nil {
		return CourseLayout{}
	}
	return c.CourseJSON.Data()
}

// Content returns the stored chapter content; never nil.
func (c *Course) Content() []ChapterContent {
	if c == nil {
		return []ChapterContent{}
	}
	out := c.CourseContent.Data()
	if out == nil {
		return []ChapterContent{}
	}
	return out
}

// HasContent reports whether content generation has stored at least one chapter.
func (c *Course) HasContent() bool {
	return len(c.Content()) > 0
}

// NewContent wraps chapters for the course_content column. A nil slice is
// stored as [] so the column never holds JSON null.
func NewContent(chapters []ChapterContent) datatypes.JSONType[[]ChapterContent] {
	if chapters == nil {
		chapters = []ChapterContent{}
	}
	return datatypes.NewJSONType(chapters)
}

func NewLayout(layout CourseLayout) datatypes.JSONType[CourseLayout] {
	return datatypes.NewJSONType(layout)
}
