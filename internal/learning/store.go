// Package learning implements the learning session: the store that holds the
// session's words, progress and pending answers, and the controller that
// moves a session through its flashcard and quiz passes.
package learning

import (
	"context"
	"fmt"
	"sync"

	"github.com/vytor/lexiflash/internal/logger"
	"github.com/vytor/lexiflash/internal/models"
)

// API is the part of the learning API a session needs.
type API interface {
	Submitter
	CollectionLearnWords(ctx context.Context, collectionID string, numOfWords int) ([]models.LearningWord, error)
	CollectionReviewWords(ctx context.Context, collectionID string, numOfWords int) ([]models.LearningWord, error)
	TopicReviewWords(ctx context.Context, topicID string, numOfWords int) ([]models.LearningWord, error)
}

// Store owns one session's word list, progress and pending-update buffer.
type Store struct {
	api        API
	outbox     *Outbox
	kind       Kind
	id         string
	numOfWords int
	log        *logger.Logger

	// flushMu serialises submissions; mu guards the fields below.
	flushMu  sync.Mutex
	mu       sync.Mutex
	words    []models.LearningWord
	progress models.SessionProgress
	pending  []models.WordUpdate
	lastErr  error
	closed   bool
}

type StoreOption func(*Store)

// WithOutbox parks failed batches durably instead of keeping them in memory.
func WithOutbox(o *Outbox) StoreOption {
	return func(s *Store) {
		s.outbox = o
	}
}

func NewStore(api API, kind Kind, id string, numOfWords int, opts ...StoreOption) *Store {
	s := &Store{
		api:        api,
		kind:       kind,
		id:         id,
		numOfWords: numOfWords,
		log: logger.Default().WithPrefix("session-store").WithFields(map[string]any{
			"kind": kind,
			"id":   id,
		}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the session's words. Parked batches from earlier sessions are
// delivered first so the server scores against up-to-date history. On
// failure the word list is left empty and the error is kept for Err.
func (s *Store) Load(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("session-store").WithField("kind", s.kind)

	if s.outbox != nil {
		if _, err := s.outbox.Retry(ctx); err != nil {
			log.Warn("parked updates not delivered before load: %v", err)
		}
	}

	words, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		log.Error("failed to load words for %s: %v", s.id, err)
		s.words = nil
		s.progress = models.SessionProgress{}
		s.lastErr = err
		return err
	}
	s.words = words
	s.progress = models.SessionProgress{Completed: 0, Total: len(words)}
	s.lastErr = nil
	log.Info("loaded %d words for %s", len(words), s.id)
	return nil
}

func (s *Store) fetch(ctx context.Context) ([]models.LearningWord, error) {
	switch s.kind {
	case NewCollection:
		return s.api.CollectionLearnWords(ctx, s.id, s.numOfWords)
	case ReviewCollection:
		return s.api.CollectionReviewWords(ctx, s.id, s.numOfWords)
	case NewTopic, ReviewTopic:
		// Topics only have a review endpoint.
		return s.api.TopicReviewWords(ctx, s.id, s.numOfWords)
	default:
		return nil, fmt.Errorf("unknown session kind %q", s.kind)
	}
}

// Words returns a copy of the loaded word list.
func (s *Store) Words() []models.LearningWord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.LearningWord(nil), s.words...)
}

func (s *Store) Progress() models.SessionProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Pending returns a copy of the unsent updates, in answer order.
func (s *Store) Pending() []models.WordUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.WordUpdate(nil), s.pending...)
}

// Err returns the error of the last load or submit, if it failed.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// MarkWordAsLearned buffers one outcome and counts it towards progress.
// It never talks to the network.
func (s *Store) MarkWordAsLearned(wordID string, isCorrect, isAlreadyKnow bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, models.WordUpdate{
		WordID:        wordID,
		IsCorrect:     isCorrect,
		IsAlreadyKnow: isAlreadyKnow,
	})
	if s.progress.Completed < s.progress.Total {
		s.progress.Completed++
	} else {
		s.log.Warn("answer for %s past the end of the pass (%d/%d)", wordID, s.progress.Completed, s.progress.Total)
	}
}

// ResetProgress starts a new pass of total words.
func (s *Store) ResetProgress(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = models.SessionProgress{Completed: 0, Total: total}
}

// SubmitPendingUpdates sends the whole buffer as one batch. An empty buffer
// makes no call. If the API call fails the batch goes to the outbox and the
// error is returned; without an outbox, or when parking fails too, the batch
// stays buffered ahead of any newer answers.
func (s *Store) SubmitPendingUpdates(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return nil
	}
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	log := logger.FromContext(ctx).WithPrefix("session-store").WithField("kind", s.kind)
	log.Debug("submitting %d updates", len(batch))

	err := s.api.SubmitUpdates(ctx, batch)
	if err == nil {
		s.setErr(nil)
		log.Info("submitted %d updates", len(batch))
		return nil
	}

	s.setErr(err)
	log.Error("failed to submit %d updates: %v", len(batch), err)

	if s.outbox != nil {
		// The request context may already be gone at teardown.
		parkCtx := context.WithoutCancel(ctx)
		perr := s.outbox.Park(parkCtx, batch)
		if perr == nil {
			return err
		}
		log.Error("failed to park updates, keeping them in memory: %v", perr)
	}

	s.mu.Lock()
	s.pending = append(batch, s.pending...)
	s.mu.Unlock()
	return err
}

// Close is the teardown flush: it submits once if anything is pending.
// Later calls are no-ops.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	n := len(s.pending)
	s.mu.Unlock()

	if n == 0 {
		return nil
	}
	logger.FromContext(ctx).WithPrefix("session-store").Debug("flushing %d updates on close", n)
	return s.SubmitPendingUpdates(ctx)
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
