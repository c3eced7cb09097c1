package jobs

import "time"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueOutboxRetry() error
	EnqueueSessionReap(maxIdle time.Duration) error
}
