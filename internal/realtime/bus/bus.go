package bus

import (
	"context"

	"github.com/yungbote/coursegen-backend/internal/realtime"
)

// Bus fans messages out across server instances.
type Bus interface {
	realtime.Publisher
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
