package domain

import (
	"sort"
	"time"

	"gorm.io/datatypes"
)

// Enrollment links a user to a course and tracks completed chapter indexes.
type Enrollment struct {
	ID                uint                      `gorm:"primaryKey;autoIncrement" json:"id"`
	CID               string                    `gorm:"column:cid;not null;uniqueIndex:idx_enrollment_user_course" json:"cid"`
	UserEmail         string                    `gorm:"column:user_email;not null;uniqueIndex:idx_enrollment_user_course;index" json:"userEmail"`
	CompletedChapters datatypes.JSONType[[]int] `gorm:"column:completed_chapters;not null" json:"completedChapters"`
	CreatedAt         time.Time                 `json:"createdAt"`
	UpdatedAt         time.Time                 `json:"updatedAt"`
}

func (Enrollment) TableName() string { return "enrollment" }

func (e *Enrollment) Completed() []int {
	if e == nil {
		return []int{}
	}
	return NormalizeChapterSet(e.CompletedChapters.Data())
}

// NewChapterSet normalizes set and wraps it for the completed_chapters column.
func NewChapterSet(set []int) datatypes.JSONType[[]int] {
	return datatypes.NewJSONType(NormalizeChapterSet(set))
}

// NormalizeChapterSet drops negatives and duplicates and sorts ascending.
func NormalizeChapterSet(set []int) []int {
	seen := make(map[int]struct{}, len(set))
	out := make([]int, 0, len(set))
	for _, i := range set {
		if i < 0 {
			continue
		}
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// ToggleChapter adds or removes idx. Marking complete then incomplete
// returns the original membership.
func ToggleChapter(set []int, idx int, completed bool) []int {
	out := make([]int, 0, len(set)+1)
	for _, i := range set {
		if i != idx {
			out = append(out, i)
		}
	}
	if completed {
		out = append(out, idx)
	}
	return NormalizeChapterSet(out)
}

// ProgressPercent returns completed/total as a whole percentage.
func ProgressPercent(completed []int, total int) int {
	if total <= 0 {
		return 0
	}
	n := 0
	for _, i := range NormalizeChapterSet(completed) {
		if i < total {
			n++
		}
	}
	return n * 100 / total
}
