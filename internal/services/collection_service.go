package services

import (
	"context"
	"strings"

	apperrors "github.com/vytor/lexiflash/internal/errors"
	"github.com/vytor/lexiflash/internal/localstore"
	"github.com/vytor/lexiflash/internal/logger"
	"github.com/vytor/lexiflash/internal/media"
	"github.com/vytor/lexiflash/internal/models"
)

// CollectionLister is the part of the learning API the collection service uses.
type CollectionLister interface {
	Collections(ctx context.Context) ([]models.Collection, error)
}

// CollectionService serves the collection list and the user's pins.
type CollectionService interface {
	List(ctx context.Context, refresh bool) ([]models.Collection, error)
	Pinned(ctx context.Context) ([]models.PinnedItem, error)
	Pin(ctx context.Context, id string) ([]models.PinnedItem, error)
	Unpin(ctx context.Context, id string) ([]models.PinnedItem, error)
}

type collectionService struct {
	api   CollectionLister
	store *localstore.Store
	media media.Resolver
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(api CollectionLister, store *localstore.Store, m media.Resolver) CollectionService {
	return &collectionService{api: api, store: store, media: m}
}

// List returns the cached collections unless refresh is set or nothing is
// cached yet. A failed fetch falls back to the cache when there is one.
func (s *collectionService) List(ctx context.Context, refresh bool) ([]models.Collection, error) {
	log := logger.FromContext(ctx).WithPrefix("collections")

	cached, ok, err := s.store.Collections(ctx)
	if err != nil {
		log.Warn("failed to read cached collections: %v", err)
		ok = false
	}
	if ok && !refresh {
		log.Debug("serving %d cached collections", len(cached))
		return s.decorate(cached), nil
	}

	fresh, err := s.api.Collections(ctx)
	if err != nil {
		if ok {
			log.Warn("fetch failed, serving cached collections: %v", err)
			return s.decorate(cached), nil
		}
		log.Error("failed to fetch collections: %v", err)
		return nil, upstreamError("load collections", err)
	}

	if err := s.store.SetCollections(ctx, fresh); err != nil {
		log.Warn("failed to cache collections: %v", err)
	}
	return s.decorate(fresh), nil
}

func (s *collectionService) decorate(cs []models.Collection) []models.Collection {
	out := make([]models.Collection, len(cs))
	for i, c := range cs {
		if c.Image != "" {
			c.ImageURL = s.media.URL(c.Image)
		}
		out[i] = c
	}
	return out
}

func (s *collectionService) Pinned(ctx context.Context) ([]models.PinnedItem, error) {
	items, err := s.store.Pinned(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if items == nil {
		items = []models.PinnedItem{}
	}
	return items, nil
}

// Pin adds a known collection to the pinned list. Pinning twice is a no-op.
func (s *collectionService) Pin(ctx context.Context, id string) ([]models.PinnedItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewValidationError("id", "is required")
	}

	items, err := s.Pinned(ctx)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.ID == id {
			return items, nil
		}
	}

	collections, err := s.List(ctx, false)
	if err != nil {
		return nil, err
	}
	var found *models.Collection
	for i := range collections {
		if collections[i].ID == id {
			found = &collections[i]
			break
		}
	}
	if found == nil {
		return nil, apperrors.NewNotFoundError("collection", id)
	}

	items = append(items, models.PinnedItem{ID: found.ID, Name: found.Name, Kind: "collection"})
	if err := s.store.SetPinned(ctx, items); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	logger.FromContext(ctx).WithPrefix("collections").Info("pinned collection %s", id)
	return items, nil
}

// Unpin removes an item from the pinned list. Unknown ids are ignored.
func (s *collectionService) Unpin(ctx context.Context, id string) ([]models.PinnedItem, error) {
	items, err := s.Pinned(ctx)
	if err != nil {
		return nil, err
	}
	kept := make([]models.PinnedItem, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return items, nil
	}
	if err := s.store.SetPinned(ctx, kept); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return kept, nil
}
