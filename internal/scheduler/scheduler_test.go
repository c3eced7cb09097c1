package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lexiflash/internal/testutil/mocks"
	"github.com/vytor/lexiflash/internal/worker"
)

func TestScheduler_TasksEnqueueJobs(t *testing.T) {
	queue := new(mocks.MockJobQueue)
	queue.On("EnqueueOutboxRetry").Return(worker.ErrQueueFull).Once()
	queue.On("EnqueueSessionReap", 30*time.Minute).Return(nil).Once()

	s := New(queue, time.Minute, 30*time.Minute)
	s.retryOutbox()
	s.reapSessions()

	queue.AssertExpectations(t)
}

func TestScheduler_StartRunsRetryImmediately(t *testing.T) {
	queue := new(mocks.MockJobQueue)
	called := make(chan struct{}, 1)
	queue.On("EnqueueOutboxRetry").Run(func(mock.Arguments) {
		select {
		case called <- struct{}{}:
		default:
		}
	}).Return(nil)

	s := New(queue, time.Hour, time.Hour)
	require.NoError(t, s.Start())
	defer s.Stop()

	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("outbox retry was not scheduled")
	}
	queue.AssertNotCalled(t, "EnqueueSessionReap", mock.Anything)
}
