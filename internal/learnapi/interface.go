package learnapi

import (
	"context"

	"github.com/vytor/lexiflash/internal/models"
)

// ClientInterface defines the Remote Learning API operations.
type ClientInterface interface {
	CollectionLearnWords(ctx context.Context, collectionID string, numOfWords int) ([]models.LearningWord, error)
	CollectionReviewWords(ctx context.Context, collectionID string, numOfWords int) ([]models.LearningWord, error)
	TopicReviewWords(ctx context.Context, topicID string, numOfWords int) ([]models.LearningWord, error)
	WordDetail(ctx context.Context, word string) (*models.WordDetail, error)
	SubmitUpdates(ctx context.Context, updates []models.WordUpdate) error
	SignIn(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Collections(ctx context.Context) ([]models.Collection, error)
}

var _ ClientInterface = (*Client)(nil)
