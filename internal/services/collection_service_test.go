package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/lexiflash/internal/db"
	apperrors "github.com/vytor/lexiflash/internal/errors"
	"github.com/vytor/lexiflash/internal/localstore"
	"github.com/vytor/lexiflash/internal/media"
	"github.com/vytor/lexiflash/internal/models"
	"github.com/vytor/lexiflash/internal/repository/sqlite"
	"github.com/vytor/lexiflash/internal/testutil"
	"github.com/vytor/lexiflash/internal/testutil/mocks"
)

type CollectionServiceSuite struct {
	suite.Suite
	ctx    context.Context
	db     *db.DB
	store  *localstore.Store
	client *mocks.MockLearnClient
	svc    CollectionService
}

func (s *CollectionServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewTestDB(s.T())
	s.store = localstore.New(sqlite.NewKVRepository(s.db.DB))
	s.client = new(mocks.MockLearnClient)
	s.svc = NewCollectionService(s.client, s.store, media.NewResolver("https://cdn.example.com"))
}

func (s *CollectionServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CollectionServiceSuite) TestList_FetchesAndCaches() {
	s.client.On("Collections", mock.Anything).Return([]models.Collection{
		{ID: "c1", Name: "Basics", Image: "basics.png"},
	}, nil).Once()

	got, err := s.svc.List(s.ctx, false)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Assert().Equal("https://cdn.example.com/basics.png", got[0].ImageURL)

	// Served from the cache the second time.
	got, err = s.svc.List(s.ctx, false)
	s.Require().NoError(err)
	s.Assert().Equal("Basics", got[0].Name)
	s.client.AssertNumberOfCalls(s.T(), "Collections", 1)
}

func (s *CollectionServiceSuite) TestList_RefreshFallsBackToCache() {
	s.Require().NoError(s.store.SetCollections(s.ctx, []models.Collection{{ID: "c1", Name: "Cached"}}))
	s.client.On("Collections", mock.Anything).Return(nil, errors.New("offline"))

	got, err := s.svc.List(s.ctx, true)
	s.Require().NoError(err)
	s.Assert().Equal("Cached", got[0].Name)
}

func (s *CollectionServiceSuite) TestList_NoCacheAndFetchFails() {
	s.client.On("Collections", mock.Anything).Return(nil, errors.New("offline"))

	_, err := s.svc.List(s.ctx, false)
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeUpstream))
}

func (s *CollectionServiceSuite) TestPinAndUnpin() {
	s.Require().NoError(s.store.SetCollections(s.ctx, []models.Collection{
		{ID: "c1", Name: "Basics"},
		{ID: "c2", Name: "Travel"},
	}))

	items, err := s.svc.Pin(s.ctx, "c2")
	s.Require().NoError(err)
	s.Assert().Equal([]models.PinnedItem{{ID: "c2", Name: "Travel", Kind: "collection"}}, items)

	items, err = s.svc.Pin(s.ctx, "c2")
	s.Require().NoError(err)
	s.Assert().Len(items, 1)

	_, err = s.svc.Pin(s.ctx, "missing")
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeNotFound))

	items, err = s.svc.Unpin(s.ctx, "c2")
	s.Require().NoError(err)
	s.Assert().Empty(items)

	stored, err := s.svc.Pinned(s.ctx)
	s.Require().NoError(err)
	s.Assert().Empty(stored)
}

func TestCollectionServiceSuite(t *testing.T) {
	suite.Run(t, new(CollectionServiceSuite))
}
