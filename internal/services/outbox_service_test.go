package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/lexiflash/internal/errors"
	"github.com/vytor/lexiflash/internal/learnapi"
	"github.com/vytor/lexiflash/internal/learning"
	"github.com/vytor/lexiflash/internal/models"
	"github.com/vytor/lexiflash/internal/repository/sqlite"
	"github.com/vytor/lexiflash/internal/testutil"
	"github.com/vytor/lexiflash/internal/testutil/mocks"
)

func TestOutboxService_FlushReportsDelivered(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	defer testutil.MustClose(t, database)

	client := new(mocks.MockLearnClient)
	outbox := learning.NewOutbox(sqlite.NewOutboxRepository(database.DB), client)
	require.NoError(t, outbox.Park(ctx, []models.WordUpdate{{WordID: "w1"}, {WordID: "w2", IsCorrect: true}}))
	client.On("SubmitUpdates", mock.Anything, []models.WordUpdate{{WordID: "w1"}, {WordID: "w2", IsCorrect: true}}).Return(nil).Once()

	svc := NewOutboxService(outbox)
	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.OutboxStats{Batches: 1, Updates: 2}, stats)

	res, err := svc.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, learning.RetryResult{Batches: 1, Updates: 2}, res)

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Batches)
	client.AssertExpectations(t)
}

func TestOutboxService_FlushMapsErrors(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	defer testutil.MustClose(t, database)

	client := new(mocks.MockLearnClient)
	outbox := learning.NewOutbox(sqlite.NewOutboxRepository(database.DB), client)
	require.NoError(t, outbox.Park(ctx, []models.WordUpdate{{WordID: "w1"}}))
	svc := NewOutboxService(outbox)

	client.On("SubmitUpdates", mock.Anything, mock.Anything).Return(errors.New("502")).Once()
	_, err := svc.Flush(ctx)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUpstream))

	client.On("SubmitUpdates", mock.Anything, mock.Anything).Return(fmt.Errorf("patch: %w", learnapi.ErrUnauthorized)).Once()
	_, err = svc.Flush(ctx)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnauthorized))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Batches, "failed batches stay parked")
}
