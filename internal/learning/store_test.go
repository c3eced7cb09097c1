package learning_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/lexiflash/internal/db"
	"github.com/vytor/lexiflash/internal/learning"
	"github.com/vytor/lexiflash/internal/models"
	"github.com/vytor/lexiflash/internal/repository"
	"github.com/vytor/lexiflash/internal/repository/sqlite"
	"github.com/vytor/lexiflash/internal/testutil"
	"github.com/vytor/lexiflash/internal/testutil/mocks"
)

type StoreSuite struct {
	suite.Suite
	ctx    context.Context
	db     *db.DB
	repo   repository.OutboxRepository
	client *mocks.MockLearnClient
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewOutboxRepository(s.db.DB)
	s.client = new(mocks.MockLearnClient)
}

func (s *StoreSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *StoreSuite) newStore(kind learning.Kind, id string, words []models.LearningWord) *learning.Store {
	s.client.On("CollectionLearnWords", mock.Anything, id, 10).Return(words, nil).Maybe()
	s.client.On("CollectionReviewWords", mock.Anything, id, 10).Return(words, nil).Maybe()
	s.client.On("TopicReviewWords", mock.Anything, id, 10).Return(words, nil).Maybe()
	store := learning.NewStore(s.client, kind, id, 10, learning.WithOutbox(learning.NewOutbox(s.repo, s.client)))
	s.Require().NoError(store.Load(s.ctx))
	return store
}

func (s *StoreSuite) TestLoad_SelectsEndpointByKind() {
	cases := []struct {
		kind   learning.Kind
		method string
	}{
		{learning.NewCollection, "CollectionLearnWords"},
		{learning.ReviewCollection, "CollectionReviewWords"},
		{learning.NewTopic, "TopicReviewWords"},
		{learning.ReviewTopic, "TopicReviewWords"},
	}
	for _, tc := range cases {
		client := new(mocks.MockLearnClient)
		client.On(tc.method, mock.Anything, "id-1", 5).Return(testutil.Words("a", "b"), nil).Once()

		store := learning.NewStore(client, tc.kind, "id-1", 5)
		s.Require().NoError(store.Load(s.ctx), tc.kind)

		s.Assert().Len(store.Words(), 2, tc.kind)
		s.Assert().Equal(models.SessionProgress{Completed: 0, Total: 2}, store.Progress(), tc.kind)
		client.AssertExpectations(s.T())
	}
}

func (s *StoreSuite) TestLoad_FailureLeavesListEmpty() {
	boom := errors.New("api down")
	s.client.On("CollectionLearnWords", mock.Anything, "basics", 10).Return(nil, boom)

	store := learning.NewStore(s.client, learning.NewCollection, "basics", 10)
	err := store.Load(s.ctx)

	s.Assert().ErrorIs(err, boom)
	s.Assert().Empty(store.Words())
	s.Assert().Equal(models.SessionProgress{}, store.Progress())
	s.Assert().ErrorIs(store.Err(), boom)
}

func (s *StoreSuite) TestMarkWordAsLearned_ProgressIsMonotonicAndCapped() {
	store := s.newStore(learning.NewCollection, "basics", testutil.Words("a", "b", "c"))

	for i := 1; i <= 3; i++ {
		store.MarkWordAsLearned("w", true, false)
		s.Assert().Equal(i, store.Progress().Completed)
	}
	store.MarkWordAsLearned("extra", true, false)
	s.Assert().Equal(models.SessionProgress{Completed: 3, Total: 3}, store.Progress())
	s.Assert().Len(store.Pending(), 4)
	s.client.AssertNotCalled(s.T(), "SubmitUpdates", mock.Anything, mock.Anything)
}

func (s *StoreSuite) TestSubmit_EmptyBufferMakesNoCall() {
	store := s.newStore(learning.NewCollection, "basics", testutil.Words("a"))

	s.Require().NoError(store.SubmitPendingUpdates(s.ctx))
	s.Require().NoError(store.SubmitPendingUpdates(s.ctx))

	s.client.AssertNotCalled(s.T(), "SubmitUpdates", mock.Anything, mock.Anything)
}

func (s *StoreSuite) TestSubmit_PreservesAnswerOrderAndClears() {
	store := s.newStore(learning.NewCollection, "basics", testutil.Words("a", "b", "c"))
	want := []models.WordUpdate{
		{WordID: "A", IsCorrect: true},
		{WordID: "B", IsCorrect: false},
		{WordID: "C", IsCorrect: true, IsAlreadyKnow: true},
	}
	s.client.On("SubmitUpdates", mock.Anything, want).Return(nil).Once()

	store.MarkWordAsLearned("A", true, false)
	store.MarkWordAsLearned("B", false, false)
	store.MarkWordAsLearned("C", true, true)

	s.Require().NoError(store.SubmitPendingUpdates(s.ctx))
	s.Assert().Empty(store.Pending())
	s.Assert().NoError(store.Err())
	s.client.AssertExpectations(s.T())
}

func (s *StoreSuite) TestSubmit_FailureParksBatchInOutbox() {
	store := s.newStore(learning.NewCollection, "basics", testutil.Words("a", "b"))
	boom := errors.New("502")
	s.client.On("SubmitUpdates", mock.Anything, mock.Anything).Return(boom).Once()

	store.MarkWordAsLearned("w1", true, false)
	store.MarkWordAsLearned("w2", false, false)

	err := store.SubmitPendingUpdates(s.ctx)
	s.Assert().ErrorIs(err, boom)
	s.Assert().Empty(store.Pending())

	batches, err := s.repo.Batches(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(batches, 1)
	s.Assert().Equal([]models.WordUpdate{{WordID: "w1", IsCorrect: true}, {WordID: "w2"}}, batches[0].WordUpdates())
}

func (s *StoreSuite) TestSubmit_FailureWithoutOutboxKeepsBuffer() {
	boom := errors.New("timeout")
	s.client.On("CollectionLearnWords", mock.Anything, "basics", 10).Return(testutil.Words("a", "b"), nil)
	s.client.On("SubmitUpdates", mock.Anything, []models.WordUpdate{{WordID: "w1", IsCorrect: true}}).Return(boom).Once()
	s.client.On("SubmitUpdates", mock.Anything, []models.WordUpdate{{WordID: "w1", IsCorrect: true}, {WordID: "w2"}}).Return(nil).Once()

	store := learning.NewStore(s.client, learning.NewCollection, "basics", 10)
	s.Require().NoError(store.Load(s.ctx))

	store.MarkWordAsLearned("w1", true, false)
	s.Assert().ErrorIs(store.SubmitPendingUpdates(s.ctx), boom)
	s.Assert().Len(store.Pending(), 1)

	store.MarkWordAsLearned("w2", false, false)
	s.Require().NoError(store.SubmitPendingUpdates(s.ctx))
	s.Assert().Empty(store.Pending())
	s.client.AssertExpectations(s.T())
}

func (s *StoreSuite) TestLoad_RetriesParkedBatchesFirst() {
	parked := []models.WordUpdate{{WordID: "old", IsCorrect: true}}
	s.Require().NoError(s.repo.Enqueue(s.ctx, "earlier", parked))
	s.client.On("SubmitUpdates", mock.Anything, parked).Return(nil).Once()

	s.newStore(learning.NewCollection, "basics", testutil.Words("a"))

	stats, err := s.repo.Stats(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(0, stats.Batches)
	s.client.AssertExpectations(s.T())
}

func (s *StoreSuite) TestClose_FlushesPendingOnce() {
	store := s.newStore(learning.NewCollection, "basics", testutil.Words("a", "b", "c"))
	s.client.On("SubmitUpdates", mock.Anything, mock.Anything).Return(nil)

	store.MarkWordAsLearned("w1", true, false)
	store.MarkWordAsLearned("w2", false, false)

	s.Require().NoError(store.Close(s.ctx))
	s.Require().NoError(store.Close(s.ctx))

	s.client.AssertNumberOfCalls(s.T(), "SubmitUpdates", 1)
}

func (s *StoreSuite) TestClose_NothingPendingMakesNoCall() {
	store := s.newStore(learning.NewCollection, "basics", testutil.Words("a"))
	s.Require().NoError(store.Close(s.ctx))
	s.client.AssertNotCalled(s.T(), "SubmitUpdates", mock.Anything, mock.Anything)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}
