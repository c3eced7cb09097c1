package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueOutboxRetry() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueSessionReap(maxIdle time.Duration) error {
	args := m.Called(maxIdle)
	return args.Error(0)
}
