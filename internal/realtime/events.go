package realtime

import (
	"context"
	"strings"
)

type SSEEvent string

const (
	SSEEventCourseLayoutCreated    SSEEvent = "course.layout.created"
	SSEEventCourseChapterGenerated SSEEvent = "course.chapter.generated"
	SSEEventCourseContentGenerated SSEEvent = "course.content.generated"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// Publisher delivers a message to every subscriber of msg.Channel.
type Publisher interface {
	Publish(ctx context.Context, msg SSEMessage) error
}

func CourseChannel(cid string) string {
	cid = strings.TrimSpace(cid)
	if cid == "" {
		return ""
	}
	return "course:" + cid
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, SSEMessage) error { return nil }

func NopPublisher() Publisher { return nopPublisher{} }
