package domain

type ChapterStatus string

const (
	ChapterStatusOK     ChapterStatus = "ok"
	ChapterStatusFailed ChapterStatus = "failed"
)

// ChapterContent is one element of a course's generated content.
type ChapterContent struct {
	YoutubeVideo []VideoRef    `json:"youtubeVideo"`
	CourseData   ChapterLesson `json:"courseData"`
	Status       ChapterStatus `json:"status,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// Failed reports whether generation for this chapter did not produce a lesson.
func (c ChapterContent) Failed() bool {
	return c.Status == ChapterStatusFailed
}

type ChapterLesson struct {
	ChapterName string         `json:"chapterName" validate:"required"`
	Topics      []TopicContent `json:"topics" validate:"dive"`
}

type TopicContent struct {
	Topic   string `json:"topic" validate:"required"`
	Content string `json:"content"`
}

type VideoRef struct {
	VideoID string `json:"videoId"`
	Title   string `json:"title"`
}
