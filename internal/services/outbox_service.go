package services

import (
	"context"

	apperrors "github.com/vytor/lexiflash/internal/errors"
	"github.com/vytor/lexiflash/internal/learning"
	"github.com/vytor/lexiflash/internal/logger"
	"github.com/vytor/lexiflash/internal/models"
)

// OutboxService exposes the parked-update outbox.
type OutboxService interface {
	Flush(ctx context.Context) (learning.RetryResult, error)
	Stats(ctx context.Context) (models.OutboxStats, error)
}

type outboxService struct {
	outbox *learning.Outbox
}

// NewOutboxService creates a new OutboxService
func NewOutboxService(outbox *learning.Outbox) OutboxService {
	return &outboxService{outbox: outbox}
}

func (s *outboxService) Flush(ctx context.Context) (learning.RetryResult, error) {
	res, err := s.outbox.Retry(ctx)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("outbox").Warn("flush stopped after %d batches: %v", res.Batches, err)
		return res, upstreamError("deliver parked updates", err)
	}
	return res, nil
}

func (s *outboxService) Stats(ctx context.Context) (models.OutboxStats, error) {
	stats, err := s.outbox.Stats(ctx)
	if err != nil {
		return models.OutboxStats{}, apperrors.NewInternalError(err)
	}
	return stats, nil
}
