package web

import (
	"strconv"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/domain"
)

type CourseCard struct {
	CID         string
	Name        string
	Description string
	Level       string
	Category    string
	BannerURL   string
	Chapters    int
	HasContent  bool
	Progress    int
	Enrolled    bool
}

type ChapterItem struct {
	Index     int
	Name      string
	Duration  string
	Topics    []string
	Completed bool
	Active    bool
	Failed    bool
}

type CoursePage struct {
	Course    CourseCard
	Chapters  []ChapterItem
	Selected  int
	Lesson    *domain.ChapterContent
	Videos    []domain.VideoRef
	Enrolled  bool
	Completed bool
	SignedIn  bool
}

func NewCourseCard(c *domain.Course) CourseCard {
	layout := c.Layout()
	desc := strings.TrimSpace(layout.Course.Description)
	if desc == "" {
		desc = c.Description
	}
	return CourseCard{
		CID:         c.CID,
		Name:        c.Name,
		Description: desc,
		Level:       c.Level,
		Category:    c.Category,
		BannerURL:   c.BannerImageURL,
		Chapters:    len(layout.Chapters()),
		HasContent:  c.HasContent(),
	}
}

// SelectedChapter parses the ?chapter= value and clamps it to [0, n).
func SelectedChapter(raw string, n int) int {
	i, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || i < 0 || n == 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// NewCoursePage builds the reader view. enrollment may be nil.
func NewCoursePage(c *domain.Course, enrollment *domain.Enrollment, selected string, signedIn bool) CoursePage {
	layout := c.Layout().Chapters()
	content := c.Content()

	n := len(layout)
	if len(content) > n {
		n = len(content)
	}
	idx := SelectedChapter(selected, n)

	done := map[int]bool{}
	if enrollment != nil {
		for _, i := range enrollment.Completed() {
			done[i] = true
		}
	}

	chapters := make([]ChapterItem, 0, n)
	for i := 0; i < n; i++ {
		item := ChapterItem{Index: i, Completed: done[i], Active: i == idx}
		if i < len(layout) {
			item.Name = layout[i].ChapterName
			item.Duration = layout[i].Duration
			item.Topics = layout[i].Topics
		}
		if i < len(content) {
			if item.Name == "" {
				item.Name = content[i].CourseData.ChapterName
			}
			item.Failed = content[i].Failed()
		}
		chapters = append(chapters, item)
	}

	page := CoursePage{
		Course:    NewCourseCard(c),
		Chapters:  chapters,
		Selected:  idx,
		Enrolled:  enrollment != nil,
		Completed: done[idx],
		SignedIn:  signedIn,
	}
	if enrollment != nil {
		page.Course.Enrolled = true
		page.Course.Progress = domain.ProgressPercent(enrollment.Completed(), len(layout))
	}
	if idx < len(content) {
		lesson := content[idx]
		page.Lesson = &lesson
		page.Videos = lesson.YoutubeVideo
		if len(page.Videos) > 2 {
			page.Videos = page.Videos[:2]
		}
	}
	return page
}

type WorkspacePage struct {
	SignedIn  bool
	Email     string
	MyCourses []CourseCard
	Enrolled  []CourseCard
	Explore   []CourseCard
}

type EditCoursePage struct {
	Course   CourseCard
	Chapters []ChapterItem
	Owner    bool
	SignedIn bool
}

type ErrorPage struct {
	Status  int
	Message string
}

func NewEditCoursePage(c *domain.Course, owner, signedIn bool) EditCoursePage {
	layout := c.Layout().Chapters()
	content := c.Content()
	chapters := make([]ChapterItem, 0, len(layout))
	for i, ch := range layout {
		item := ChapterItem{Index: i, Name: ch.ChapterName, Duration: ch.Duration, Topics: ch.Topics}
		if i < len(content) {
			item.Failed = content[i].Failed()
		}
		chapters = append(chapters, item)
	}
	return EditCoursePage{
		Course:   NewCourseCard(c),
		Chapters: chapters,
		Owner:    owner,
		SignedIn: signedIn,
	}
}
