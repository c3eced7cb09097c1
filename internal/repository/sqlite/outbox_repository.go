package sqlite

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/lexiflash/internal/logger"
	"github.com/vytor/lexiflash/internal/models"
	"github.com/vytor/lexiflash/internal/repository"
)

type outboxRepository struct {
	db *sqlx.DB
}

// NewOutboxRepository creates an OutboxRepository backed by pending_updates.
func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Enqueue(ctx context.Context, batchID string, updates []models.WordUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	log := logger.FromContext(ctx).WithPrefix("outbox_repo").WithField("batch_id", batchID)

	insert := sqlBuilder.Insert("pending_updates").
		Columns("batch_id", "seq", "word_id", "is_correct", "is_already_know")
	for i, u := range updates {
		insert = insert.Values(batchID, i, u.WordID, u.IsCorrect, u.IsAlreadyKnow)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to park %d updates: %v", len(updates), err)
		return err
	}
	log.Info("parked %d updates in outbox", len(updates))
	return nil
}

func (r *outboxRepository) Batches(ctx context.Context, limit int) ([]models.OutboxBatch, error) {
	log := logger.FromContext(ctx).WithPrefix("outbox_repo")
	if limit <= 0 {
		limit = 50
	}

	idsQuery, args, err := sqlBuilder.Select("batch_id").
		From("pending_updates").
		GroupBy("batch_id").
		OrderBy("MIN(id) ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	var batchIDs []string
	if err := r.db.SelectContext(ctx, &batchIDs, idsQuery, args...); err != nil {
		log.Error("failed to list outbox batches: %v", err)
		return nil, err
	}
	if len(batchIDs) == 0 {
		return nil, nil
	}

	rowsQuery, args, err := sqlBuilder.Select(
		"id", "batch_id", "seq", "word_id", "is_correct", "is_already_know", "attempts", "last_error", "created_at",
	).
		From("pending_updates").
		Where(squirrel.Eq{"batch_id": batchIDs}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []models.PendingUpdate
	if err := r.db.SelectContext(ctx, &rows, rowsQuery, args...); err != nil {
		log.Error("failed to load outbox rows: %v", err)
		return nil, err
	}

	byBatch := make(map[string][]models.PendingUpdate, len(batchIDs))
	for _, row := range rows {
		byBatch[row.BatchID] = append(byBatch[row.BatchID], row)
	}
	batches := make([]models.OutboxBatch, 0, len(batchIDs))
	for _, id := range batchIDs {
		batches = append(batches, models.OutboxBatch{BatchID: id, Updates: byBatch[id]})
	}
	log.Debug("loaded %d outbox batches (%d updates)", len(batches), len(rows))
	return batches, nil
}

func (r *outboxRepository) Remove(ctx context.Context, batchID string) error {
	log := logger.FromContext(ctx).WithPrefix("outbox_repo").WithField("batch_id", batchID)

	query, args, err := sqlBuilder.Delete("pending_updates").Where(squirrel.Eq{"batch_id": batchID}).ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to remove batch: %v", err)
		return err
	}
	log.Debug("batch removed from outbox")
	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, batchID string, reason string) error {
	log := logger.FromContext(ctx).WithPrefix("outbox_repo").WithField("batch_id", batchID)

	query, args, err := sqlBuilder.Update("pending_updates").
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", reason).
		Where(squirrel.Eq{"batch_id": batchID}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to record batch failure: %v", err)
		return err
	}
	return nil
}

func (r *outboxRepository) Stats(ctx context.Context) (models.OutboxStats, error) {
	query, args, err := sqlBuilder.Select("COUNT(DISTINCT batch_id) AS batches", "COUNT(*) AS updates").
		From("pending_updates").
		ToSql()
	if err != nil {
		return models.OutboxStats{}, err
	}

	var stats models.OutboxStats
	if err := r.db.GetContext(ctx, &stats, query, args...); err != nil {
		logger.FromContext(ctx).WithPrefix("outbox_repo").Error("failed to count outbox: %v", err)
		return models.OutboxStats{}, err
	}
	return stats, nil
}
