package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/domain"
)

// Layout builds an outline with n chapters of two topics each.
func Layout(name string, n int) domain.CourseLayout {
	chapters := make([]domain.LayoutChapter, 0, n)
	for i := 0; i < n; i++ {
		chapters = append(chapters, domain.LayoutChapter{
			ChapterName: fmt.Sprintf("Chapter %d", i+1),
			Duration:    "30 minutes",
			Topics:      []string{fmt.Sprintf("Topic %d.1", i+1), fmt.Sprintf("Topic %d.2", i+1)},
		})
	}
	return domain.CourseLayout{Course: domain.LayoutCourse{
		Name:         name,
		Description:  name + " description.",
		Category:     "Programming",
		Level:        "Beginner",
		NoOfChapters: n,
		Chapters:     chapters,
	}}
}

// Chapters builds n successful chapter contents.
func Chapters(n int) []domain.ChapterContent {
	out := make([]domain.ChapterContent, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.ChapterContent{
			YoutubeVideo: []domain.VideoRef{{VideoID: fmt.Sprintf("vid%d", i), Title: "video"}},
			CourseData: domain.ChapterLesson{
				ChapterName: fmt.Sprintf("Chapter %d", i+1),
				Topics:      []domain.TopicContent{{Topic: "t", Content: "<p>c</p>"}},
			},
			Status: domain.ChapterStatusOK,
		})
	}
	return out
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, email string, chapters int, content []domain.ChapterContent) *domain.Course {
	tb.Helper()
	c := &domain.Course{
		CID:           uuid.NewString(),
		UserEmail:     email,
		Name:          "course",
		Level:         "Beginner",
		Category:      "Programming",
		NoOfChapters:  chapters,
		CourseJSON:    domain.NewLayout(Layout("course", chapters)),
		CourseContent: domain.NewContent(content),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, email, cid string, completed []int) *domain.Enrollment {
	tb.Helper()
	e := &domain.Enrollment{
		CID:               cid,
		UserEmail:         email,
		CompletedChapters: domain.NewChapterSet(completed),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}
