package jobs

import (
	"time"

	"github.com/vytor/lexiflash/internal/worker"
)

// WorkerQueue implements JobQueue on top of a worker pool
type WorkerQueue struct {
	pool     *worker.Pool
	outbox   worker.OutboxFlusher
	sessions worker.SessionReaper
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, outbox worker.OutboxFlusher, sessions worker.SessionReaper) JobQueue {
	return &WorkerQueue{
		pool:     pool,
		outbox:   outbox,
		sessions: sessions,
	}
}

func (q *WorkerQueue) EnqueueOutboxRetry() error {
	return q.pool.Submit(&worker.RetryOutboxJob{Outbox: q.outbox})
}

func (q *WorkerQueue) EnqueueSessionReap(maxIdle time.Duration) error {
	return q.pool.Submit(&worker.ReapSessionsJob{Sessions: q.sessions, MaxIdle: maxIdle})
}
