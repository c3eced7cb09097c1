package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/vytor/lexiflash/internal/errors"
	"github.com/vytor/lexiflash/internal/exercise"
	"github.com/vytor/lexiflash/internal/learning"
	"github.com/vytor/lexiflash/internal/logger"
)

// StartSessionInput describes the session to open.
type StartSessionInput struct {
	Kind       string
	ID         string
	NumOfWords int
}

// SessionView is a session snapshot addressed by its id.
type SessionView struct {
	ID string `json:"id"`
	learning.State
}

// ExerciseView is the current quiz exercise, or Done once the quiz is over.
type ExerciseView struct {
	Done     bool             `json:"done"`
	Exercise *exercise.Prompt `json:"exercise,omitempty"`
	Session  SessionView      `json:"session"`
}

// AnswerResult is the outcome of one quiz answer.
type AnswerResult struct {
	Correct  bool        `json:"correct"`
	Expected string      `json:"expected,omitempty"`
	Session  SessionView `json:"session"`
}

// SessionService keeps the live learning sessions of this process.
type SessionService interface {
	Start(ctx context.Context, in StartSessionInput) (*SessionView, error)
	Get(ctx context.Context, id string) (*SessionView, error)
	AnswerCard(ctx context.Context, id string, known, alreadyKnow bool) (*SessionView, error)
	Exercise(ctx context.Context, id string) (*ExerciseView, error)
	AnswerExercise(ctx context.Context, id string, answer exercise.Answer) (*AnswerResult, error)
	End(ctx context.Context, id string) (*SessionView, error)
	ReapIdle(ctx context.Context, maxIdle time.Duration) int
	CloseAll(ctx context.Context)
}

type sessionEntry struct {
	ctrl     *learning.Controller
	lastUsed time.Time
}

type sessionService struct {
	api        learning.API
	outbox     *learning.Outbox
	preparer   learning.Preparer
	numOfWords int
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewSessionService creates a SessionService. outbox may be nil, in which
// case failed batches stay in the session's memory.
func NewSessionService(api learning.API, outbox *learning.Outbox, preparer learning.Preparer, numOfWords int) SessionService {
	return &sessionService{
		api:        api,
		outbox:     outbox,
		preparer:   preparer,
		numOfWords: numOfWords,
		now:        time.Now,
		sessions:   make(map[string]*sessionEntry),
	}
}

func (s *sessionService) Start(ctx context.Context, in StartSessionInput) (*SessionView, error) {
	log := logger.FromContext(ctx).WithPrefix("sessions")

	kind, err := learning.ParseKind(in.Kind)
	if err != nil {
		return nil, apperrors.NewValidationError("kind", err.Error())
	}
	if strings.TrimSpace(in.ID) == "" {
		return nil, apperrors.NewValidationError("id", "is required")
	}
	n := in.NumOfWords
	if n <= 0 {
		n = s.numOfWords
	}

	var opts []learning.StoreOption
	if s.outbox != nil {
		opts = append(opts, learning.WithOutbox(s.outbox))
	}
	store := learning.NewStore(s.api, kind, in.ID, n, opts...)
	if err := store.Load(ctx); err != nil {
		return nil, upstreamError("load words", err)
	}

	ctrl := learning.NewController(kind, store, s.preparer)
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = &sessionEntry{ctrl: ctrl, lastUsed: s.now()}
	s.mu.Unlock()

	view := &SessionView{ID: id, State: ctrl.State()}
	log.Info("started %s session %s for %s with %d words", kind, id, in.ID, view.Progress.Total)
	return view, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*SessionView, error) {
	ctrl, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return &SessionView{ID: id, State: ctrl.State()}, nil
}

func (s *sessionService) AnswerCard(ctx context.Context, id string, known, alreadyKnow bool) (*SessionView, error) {
	ctrl, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	if alreadyKnow {
		err = ctrl.OnWordAlreadyKnown(ctx)
	} else {
		err = ctrl.OnWordLearned(ctx, known)
	}
	if err := s.flushOutcome(ctx, id, err); err != nil {
		return nil, err
	}
	return &SessionView{ID: id, State: ctrl.State()}, nil
}

func (s *sessionService) Exercise(ctx context.Context, id string) (*ExerciseView, error) {
	ctrl, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if ctrl.Mode() == learning.ModeDone {
		return &ExerciseView{Done: true, Session: SessionView{ID: id, State: ctrl.State()}}, nil
	}

	ex, err := ctrl.CurrentExercise(ctx)
	if err := s.flushOutcome(ctx, id, err); err != nil {
		return nil, err
	}

	view := &ExerciseView{Session: SessionView{ID: id, State: ctrl.State()}}
	if ex == nil {
		view.Done = true
		return view, nil
	}
	prompt := ex.Prompt
	view.Exercise = &prompt
	return view, nil
}

func (s *sessionService) AnswerExercise(ctx context.Context, id string, answer exercise.Answer) (*AnswerResult, error) {
	ctrl, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	grade, err := ctrl.AnswerExercise(ctx, answer)
	if err := s.flushOutcome(ctx, id, err); err != nil {
		return nil, err
	}
	return &AnswerResult{
		Correct:  grade.Correct,
		Expected: grade.Expected,
		Session:  SessionView{ID: id, State: ctrl.State()},
	}, nil
}

// End tears a session down. Pending answers are flushed before it returns.
func (s *sessionService) End(ctx context.Context, id string) (*SessionView, error) {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return nil, apperrors.NewNotFoundError("session", id)
	}

	if err := entry.ctrl.Close(ctx); err != nil {
		logger.FromContext(ctx).WithPrefix("sessions").Warn("flush on close of %s failed: %v", id, err)
	}
	return &SessionView{ID: id, State: entry.ctrl.State()}, nil
}

// ReapIdle closes sessions untouched for longer than maxIdle and reports how
// many were closed.
func (s *sessionService) ReapIdle(ctx context.Context, maxIdle time.Duration) int {
	log := logger.FromContext(ctx).WithPrefix("sessions")
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	var stale []string
	for id, e := range s.sessions {
		if e.lastUsed.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	sort.Strings(stale)
	entries := make([]*sessionEntry, 0, len(stale))
	for _, id := range stale {
		entries = append(entries, s.sessions[id])
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for i, e := range entries {
		if err := e.ctrl.Close(ctx); err != nil {
			log.Warn("flush of idle session %s failed: %v", stale[i], err)
		}
	}
	if len(entries) > 0 {
		log.Info("closed %d idle sessions", len(entries))
	}
	return len(entries)
}

// CloseAll flushes and forgets every session; used at shutdown.
func (s *sessionService) CloseAll(ctx context.Context) {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*sessionEntry)
	s.mu.Unlock()

	for id, e := range all {
		if err := e.ctrl.Close(ctx); err != nil {
			logger.FromContext(ctx).WithPrefix("sessions").Warn("flush of session %s at shutdown failed: %v", id, err)
		}
	}
}

func (s *sessionService) lookup(id string) (*learning.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("session", id)
	}
	e.lastUsed = s.now()
	return e.ctrl, nil
}

// flushOutcome separates controller misuse from a failed final submit. The
// answer itself was recorded in both submit cases and the batch is either
// parked or still buffered, so a submit failure is only logged; the state
// snapshot carries the error for the presentation layer.
func (s *sessionService) flushOutcome(ctx context.Context, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, learning.ErrWrongMode) || errors.Is(err, learning.ErrNoExercise) {
		return sessionError(err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return apperrors.NewInternalError(err)
	}
	logger.FromContext(ctx).WithPrefix("sessions").Warn("submit for session %s failed: %v", id, err)
	return nil
}
