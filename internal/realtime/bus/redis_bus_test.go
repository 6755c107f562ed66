package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/realtime"
)

func TestNewRedisBusRequiresAddr(t *testing.T) {
	_, err := NewRedisBus(context.Background(), logger.NewNop(), RedisOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_ADDR")

	_, err = NewRedisBus(context.Background(), nil, RedisOptions{Addr: "localhost:6379"})
	require.Error(t, err)
}

func TestDecodeMessage(t *testing.T) {
	msg, err := decodeMessage(`{"channel":"course:x","event":"course.layout.created","data":{"cid":"x"}}`)
	require.NoError(t, err)
	assert.Equal(t, "course:x", msg.Channel)
	assert.Equal(t, realtime.SSEEventCourseLayoutCreated, msg.Event)

	_, err = decodeMessage(`{"event":"course.layout.created"}`)
	require.Error(t, err)
	_, err = decodeMessage(`not json`)
	require.Error(t, err)
}

func TestNilBusIsSafe(t *testing.T) {
	var b *redisBus
	require.Error(t, b.Publish(context.Background(), realtime.SSEMessage{}))
	require.NoError(t, b.Close())
}
