package worker

import (
	"context"
	"time"

	"github.com/vytor/lexiflash/internal/logger"
)

// RetryOutboxJob delivers parked word updates.
type RetryOutboxJob struct {
	Outbox OutboxFlusher
}

func (j *RetryOutboxJob) Name() string { return "retry_outbox" }

func (j *RetryOutboxJob) Run(ctx context.Context) error {
	res, err := j.Outbox.Flush(ctx)
	if err != nil {
		return err
	}
	if res.Batches > 0 {
		logger.FromContext(ctx).Info("delivered %d parked batches", res.Batches)
	}
	return nil
}

// ReapSessionsJob closes idle sessions, flushing their pending answers.
type ReapSessionsJob struct {
	Sessions SessionReaper
	MaxIdle  time.Duration
}

func (j *ReapSessionsJob) Name() string { return "reap_sessions" }

func (j *ReapSessionsJob) Run(ctx context.Context) error {
	if n := j.Sessions.ReapIdle(ctx, j.MaxIdle); n > 0 {
		logger.FromContext(ctx).Debug("reaped %d sessions", n)
	}
	return nil
}
