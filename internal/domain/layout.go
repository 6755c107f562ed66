package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

// CourseLayout is the outline produced by the layout generator.
type CourseLayout struct {
	Course LayoutCourse `json:"course" validate:"required"`
}

type LayoutCourse struct {
	Name              string          `json:"name" validate:"required"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Level             string          `json:"level"`
	IncludeVideo      bool            `json:"includeVideo"`
	NoOfChapters      int             `json:"noOfChapters"`
	BannerImagePrompt string          `json:"bannerImagePrompt"`
	Chapters          []LayoutChapter `json:"chapters" validate:"dive"`
}

type LayoutChapter struct {
	ChapterName string   `json:"chapterName" validate:"required"`
	Duration    string   `json:"duration"`
	Topics      []string `json:"topics"`
}

// Chapters returns the outline's chapters in order.
func (l CourseLayout) Chapters() []LayoutChapter {
	return l.Course.Chapters
}

var ErrEmptyLayout = errors.New("empty course layout")

// DecodeLayout accepts the stored {"course":{...}} shape as well as a bare
// {"chapters":[...]} or {"name":...,"chapters":[...]} object, which is what
// browsers tend to post back after editing a layout.
func DecodeLayout(raw json.RawMessage) (CourseLayout, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return CourseLayout{}, ErrEmptyLayout
	}
	var wrapped struct {
		Course *LayoutCourse `json:"course"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return CourseLayout{}, err
	}
	if wrapped.Course != nil {
		return CourseLayout{Course: *wrapped.Course}, nil
	}
	var bare LayoutCourse
	if err := json.Unmarshal(raw, &bare); err != nil {
		return CourseLayout{}, err
	}
	return CourseLayout{Course: bare}, nil
}
