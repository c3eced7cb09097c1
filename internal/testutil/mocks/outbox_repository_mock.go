package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/lexiflash/internal/models"
)

// MockOutboxRepository is a mock implementation of repository.OutboxRepository
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Enqueue(ctx context.Context, batchID string, updates []models.WordUpdate) error {
	args := m.Called(ctx, batchID, append([]models.WordUpdate(nil), updates...))
	return args.Error(0)
}

func (m *MockOutboxRepository) Batches(ctx context.Context, limit int) ([]models.OutboxBatch, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OutboxBatch), args.Error(1)
}

func (m *MockOutboxRepository) Remove(ctx context.Context, batchID string) error {
	args := m.Called(ctx, batchID)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, batchID string, reason string) error {
	args := m.Called(ctx, batchID, reason)
	return args.Error(0)
}

func (m *MockOutboxRepository) Stats(ctx context.Context) (models.OutboxStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.OutboxStats), args.Error(1)
}
