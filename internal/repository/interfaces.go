package repository

import (
	"context"

	"github.com/vytor/lexiflash/internal/models"
)

// KVRepository is the local persistent key-value store. A write simply
// overwrites the previous value.
type KVRepository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// OutboxRepository persists word-update batches whose submission failed so
// they can be retried later.
type OutboxRepository interface {
	Enqueue(ctx context.Context, batchID string, updates []models.WordUpdate) error
	// Batches returns up to limit batches, oldest first, each in answer order.
	Batches(ctx context.Context, limit int) ([]models.OutboxBatch, error)
	Remove(ctx context.Context, batchID string) error
	MarkFailed(ctx context.Context, batchID string, reason string) error
	Stats(ctx context.Context) (models.OutboxStats, error)
}
