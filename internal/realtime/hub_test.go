package realtime

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubOrderingAndReconnect(t *testing.T) {
	hub := NewSSEHub(logger.NewNop())
	channel := CourseChannel("abc")

	clientA := hub.NewSSEClient("a@example.com")
	hub.AddChannel(clientA, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventCourseChapterGenerated, Data: map[string]any{"index": 0}})
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventCourseContentGenerated})

	assert.Equal(t, SSEEventCourseChapterGenerated, recvMessage(t, clientA.Outbound, time.Second).Event)
	assert.Equal(t, SSEEventCourseContentGenerated, recvMessage(t, clientA.Outbound, time.Second).Event)

	hub.CloseClient(clientA)
	hub.CloseClient(clientA)
	_, ok := <-clientA.Outbound
	assert.False(t, ok, "outbound should be closed after disconnect")
	assert.Equal(t, 0, hub.Subscribers(channel))

	clientB := hub.NewSSEClient("a@example.com")
	hub.AddChannel(clientB, channel)
	require.NoError(t, hub.Publish(context.Background(), SSEMessage{Channel: channel, Event: SSEEventCourseLayoutCreated}))
	assert.Equal(t, SSEEventCourseLayoutCreated, recvMessage(t, clientB.Outbound, time.Second).Event)
}

func TestSSEHubIgnoresOtherChannels(t *testing.T) {
	hub := NewSSEHub(logger.NewNop())
	client := hub.NewSSEClient("")
	hub.AddChannel(client, CourseChannel("one"))
	hub.Broadcast(SSEMessage{Channel: CourseChannel("two"), Event: SSEEventCourseLayoutCreated})
	hub.Broadcast(SSEMessage{Event: SSEEventCourseLayoutCreated})

	select {
	case msg := <-client.Outbound:
		t.Fatalf("unexpected message: %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}

	hub.RemoveChannel(client, CourseChannel("one"))
	assert.Equal(t, 0, hub.Subscribers(CourseChannel("one")))
}

func TestSSEHubServeHTTPStreamsEvents(t *testing.T) {
	hub := NewSSEHub(logger.NewNop())
	channel := CourseChannel("cid-1")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := hub.NewSSEClient("")
		hub.AddChannel(client, channel)
		defer hub.CloseClient(client)
		hub.ServeHTTP(w, r, client)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)

	require.Eventually(t, func() bool { return hub.Subscribers(channel) == 1 }, time.Second, 10*time.Millisecond)
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventCourseContentGenerated, Data: map[string]any{"cid": "cid-1"}})

	var eventLine, dataLine string
	for eventLine == "" || dataLine == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		switch {
		case strings.HasPrefix(line, "event: "):
			eventLine = strings.TrimSpace(line)
		case strings.HasPrefix(line, "data: "):
			dataLine = strings.TrimSpace(line)
		}
	}
	assert.Equal(t, "event: course.content.generated", eventLine)
	assert.Contains(t, dataLine, `"cid":"cid-1"`)
}

func TestCourseChannel(t *testing.T) {
	assert.Equal(t, "course:x", CourseChannel(" x "))
	assert.Equal(t, "", CourseChannel(""))
}
