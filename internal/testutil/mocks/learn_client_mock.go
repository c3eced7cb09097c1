package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/lexiflash/internal/models"
)

// MockLearnClient is a mock implementation of learnapi.ClientInterface
type MockLearnClient struct {
	mock.Mock
}

func (m *MockLearnClient) CollectionLearnWords(ctx context.Context, collectionID string, numOfWords int) ([]models.LearningWord, error) {
	args := m.Called(ctx, collectionID, numOfWords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LearningWord), args.Error(1)
}

func (m *MockLearnClient) CollectionReviewWords(ctx context.Context, collectionID string, numOfWords int) ([]models.LearningWord, error) {
	args := m.Called(ctx, collectionID, numOfWords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LearningWord), args.Error(1)
}

func (m *MockLearnClient) TopicReviewWords(ctx context.Context, topicID string, numOfWords int) ([]models.LearningWord, error) {
	args := m.Called(ctx, topicID, numOfWords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LearningWord), args.Error(1)
}

func (m *MockLearnClient) WordDetail(ctx context.Context, word string) (*models.WordDetail, error) {
	args := m.Called(ctx, word)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WordDetail), args.Error(1)
}

func (m *MockLearnClient) SubmitUpdates(ctx context.Context, updates []models.WordUpdate) error {
	// Copy so later buffer reuse cannot change what the test asserts on.
	batch := append([]models.WordUpdate(nil), updates...)
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockLearnClient) SignIn(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResult), args.Error(1)
}

func (m *MockLearnClient) Collections(ctx context.Context) ([]models.Collection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Collection), args.Error(1)
}
