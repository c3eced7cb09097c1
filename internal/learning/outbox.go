package learning

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vytor/lexiflash/internal/learnapi"
	"github.com/vytor/lexiflash/internal/logger"
	"github.com/vytor/lexiflash/internal/models"
	"github.com/vytor/lexiflash/internal/repository"
)

// Submitter sends one batch of outcomes to the learning API.
type Submitter interface {
	SubmitUpdates(ctx context.Context, updates []models.WordUpdate) error
}

// Outbox parks batches whose submission failed and resubmits them later.
type Outbox struct {
	repo  repository.OutboxRepository
	api   Submitter
	limit int
	newID func() string

	// retryMu keeps retry passes from sending the same batch twice.
	retryMu sync.Mutex
}

func NewOutbox(repo repository.OutboxRepository, api Submitter) *Outbox {
	return &Outbox{repo: repo, api: api, limit: 50, newID: uuid.NewString}
}

// RetryResult reports what a Retry pass delivered.
type RetryResult struct {
	Batches int `json:"batches"`
	Updates int `json:"updates"`
}

// Park stores a batch for later delivery, keeping its answer order.
func (o *Outbox) Park(ctx context.Context, updates []models.WordUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	id := o.newID()
	if err := o.repo.Enqueue(ctx, id, updates); err != nil {
		return fmt.Errorf("park batch: %w", err)
	}
	logger.FromContext(ctx).WithPrefix("outbox").WithField("batch_id", id).
		Warn("parked %d updates for retry", len(updates))
	return nil
}

// Retry resubmits parked batches oldest first. It stops at the first failed
// batch so later batches are never delivered ahead of earlier ones. Passes
// are serialised: a concurrent caller waits and then sees only what is left.
func (o *Outbox) Retry(ctx context.Context) (RetryResult, error) {
	o.retryMu.Lock()
	defer o.retryMu.Unlock()

	log := logger.FromContext(ctx).WithPrefix("outbox")
	var res RetryResult

	batches, err := o.repo.Batches(ctx, o.limit)
	if err != nil {
		return res, fmt.Errorf("load parked batches: %w", err)
	}
	if len(batches) == 0 {
		return res, nil
	}
	log.Debug("retrying %d parked batches", len(batches))

	for _, b := range batches {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		updates := b.WordUpdates()
		if err := o.api.SubmitUpdates(ctx, updates); err != nil {
			if !errors.Is(err, learnapi.ErrUnauthorized) {
				if mErr := o.repo.MarkFailed(ctx, b.BatchID, err.Error()); mErr != nil {
					log.Error("failed to record retry failure for %s: %v", b.BatchID, mErr)
				}
			}
			log.Warn("retry of batch %s failed: %v", b.BatchID, err)
			return res, err
		}
		if err := o.repo.Remove(ctx, b.BatchID); err != nil {
			// Delivered but still stored: the next pass sends it again.
			log.Error("failed to remove delivered batch %s: %v", b.BatchID, err)
			return res, err
		}
		res.Batches++
		res.Updates += len(updates)
	}

	log.Info("delivered %d parked batches (%d updates)", res.Batches, res.Updates)
	return res, nil
}

// Stats reports what is still waiting.
func (o *Outbox) Stats(ctx context.Context) (models.OutboxStats, error) {
	return o.repo.Stats(ctx)
}
