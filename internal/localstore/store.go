package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vytor/lexiflash/internal/logger"
	"github.com/vytor/lexiflash/internal/models"
	"github.com/vytor/lexiflash/internal/repository"
)

// Keys of the persisted client state.
const (
	KeyAccessToken = "accessToken"
	KeyUser        = "user"
	KeyCollections = "collections"
	KeyPinned      = "pinnedCollections"
)

// Store gives typed access to the persisted client keys. Values are JSON
// encoded, except the token which is stored verbatim.
type Store struct {
	kv repository.KVRepository
}

func New(kv repository.KVRepository) *Store {
	return &Store{kv: kv}
}

func (s *Store) AccessToken(ctx context.Context) (string, error) {
	token, _, err := s.kv.Get(ctx, KeyAccessToken)
	return token, err
}

func (s *Store) SetAccessToken(ctx context.Context, token string) error {
	return s.kv.Set(ctx, KeyAccessToken, token)
}

// User returns the cached user record, or nil when nobody is signed in.
func (s *Store) User(ctx context.Context) (*models.User, error) {
	var u models.User
	ok, err := s.getJSON(ctx, KeyUser, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (s *Store) SetUser(ctx context.Context, u models.User) error {
	return s.setJSON(ctx, KeyUser, u)
}

// ClearAuth drops the token and user record.
func (s *Store) ClearAuth(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyAccessToken, KeyUser)
}

// Collections returns the last fetched collection list; ok is false when
// nothing has been cached yet.
func (s *Store) Collections(ctx context.Context) ([]models.Collection, bool, error) {
	var out []models.Collection
	ok, err := s.getJSON(ctx, KeyCollections, &out)
	return out, ok, err
}

func (s *Store) SetCollections(ctx context.Context, cs []models.Collection) error {
	if cs == nil {
		cs = []models.Collection{}
	}
	return s.setJSON(ctx, KeyCollections, cs)
}

func (s *Store) Pinned(ctx context.Context) ([]models.PinnedItem, error) {
	var out []models.PinnedItem
	if _, err := s.getJSON(ctx, KeyPinned, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) SetPinned(ctx context.Context, items []models.PinnedItem) error {
	if items == nil {
		items = []models.PinnedItem{}
	}
	return s.setJSON(ctx, KeyPinned, items)
}

func (s *Store) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		// A corrupt entry is treated as absent; the next write replaces it.
		logger.FromContext(ctx).WithPrefix("localstore").Warn("discarding unreadable %s entry: %v", key, err)
		return false, nil
	}
	return true, nil
}

func (s *Store) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, string(raw))
}
