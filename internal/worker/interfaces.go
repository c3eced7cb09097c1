package worker

import (
	"context"
	"time"

	"github.com/vytor/lexiflash/internal/learning"
)

// OutboxFlusher delivers parked updates.
// Declared here so the worker package does not import services.
type OutboxFlusher interface {
	Flush(ctx context.Context) (learning.RetryResult, error)
}

// SessionReaper closes sessions idle for longer than maxIdle.
type SessionReaper interface {
	ReapIdle(ctx context.Context, maxIdle time.Duration) int
}
