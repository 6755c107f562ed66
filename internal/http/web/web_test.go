package web

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/domain"
)

func course(chapters int, content []domain.ChapterContent) *domain.Course {
	layout := domain.CourseLayout{Course: domain.LayoutCourse{Name: "Go", Description: "Learn Go."}}
	for i := 0; i < chapters; i++ {
		layout.Course.Chapters = append(layout.Course.Chapters, domain.LayoutChapter{ChapterName: "Chapter " + string(rune('A'+i))})
	}
	return &domain.Course{
		CID:           "cid-1",
		Name:          "Go",
		CourseJSON:    domain.NewLayout(layout),
		CourseContent: domain.NewContent(content),
	}
}

func TestSelectedChapterClamps(t *testing.T) {
	assert.Equal(t, 0, SelectedChapter("", 3))
	assert.Equal(t, 0, SelectedChapter("-2", 3))
	assert.Equal(t, 1, SelectedChapter("1", 3))
	assert.Equal(t, 2, SelectedChapter("99", 3))
	assert.Equal(t, 0, SelectedChapter("1", 0))
}

func TestNewCoursePage(t *testing.T) {
	content := []domain.ChapterContent{
		{CourseData: domain.ChapterLesson{ChapterName: "Chapter A"}, Status: domain.ChapterStatusOK},
		{
			YoutubeVideo: []domain.VideoRef{{VideoID: "1"}, {VideoID: "2"}, {VideoID: "3"}},
			CourseData:   domain.ChapterLesson{ChapterName: "Chapter B", Topics: []domain.TopicContent{{Topic: "t", Content: "<p>x</p>"}}},
			Status:       domain.ChapterStatusOK,
		},
	}
	enrollment := &domain.Enrollment{CompletedChapters: domain.NewChapterSet([]int{1})}

	page := NewCoursePage(course(3, content), enrollment, "1", true)
	assert.Equal(t, 1, page.Selected)
	require.Len(t, page.Chapters, 3)
	assert.True(t, page.Chapters[1].Active)
	assert.True(t, page.Chapters[1].Completed)
	assert.True(t, page.Completed)
	require.NotNil(t, page.Lesson)
	assert.Len(t, page.Videos, 2)
	assert.Equal(t, 33, page.Course.Progress)

	noContent := NewCoursePage(course(2, nil), nil, "5", false)
	assert.Equal(t, 1, noContent.Selected)
	assert.Nil(t, noContent.Lesson)
	assert.False(t, noContent.Enrolled)
}

func TestSafeHTMLStripsScripts(t *testing.T) {
	got := string(SafeHTML(`<p onclick="x()">Hi</p><script>alert(1)</script>`))
	assert.Equal(t, "<p>Hi</p>", got)
}

func TestTemplatesRender(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	page := NewCoursePage(course(1, []domain.ChapterContent{{
		CourseData: domain.ChapterLesson{ChapterName: "Chapter A", Topics: []domain.TopicContent{{Topic: "Intro", Content: "<b>bold</b>"}}},
	}}), nil, "0", true)
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "course.html", page))
	out := buf.String()
	assert.Contains(t, out, "Chapter A")
	assert.Contains(t, out, "<b>bold</b>")

	buf.Reset()
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "workspace.html", WorkspacePage{SignedIn: false}))
	assert.True(t, strings.Contains(buf.String(), "Sign in"))
}
