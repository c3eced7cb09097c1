package scheduler

import (
	"errors"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vytor/lexiflash/internal/jobs"
	"github.com/vytor/lexiflash/internal/logger"
	"github.com/vytor/lexiflash/internal/worker"
)

// Scheduler periodically hands maintenance jobs to the worker queue.
type Scheduler struct {
	scheduler   *gocron.Scheduler
	queue       jobs.JobQueue
	retryEvery  time.Duration
	sessionIdle time.Duration
	log         *logger.Logger
}

// New creates a scheduler. retryEvery is the outbox retry period and
// sessionIdle the age after which an untouched session is closed.
func New(queue jobs.JobQueue, retryEvery, sessionIdle time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler:   s,
		queue:       queue,
		retryEvery:  retryEvery,
		sessionIdle: sessionIdle,
		log:         logger.Default().WithPrefix("scheduler"),
	}
}

// Start registers the periodic tasks and runs them in the background.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.retryEvery).Do(s.retryOutbox); err != nil {
		return err
	}
	// Checking at a tenth of the idle limit keeps reaping reasonably prompt.
	reapEvery := s.sessionIdle / 10
	if reapEvery < time.Minute {
		reapEvery = time.Minute
	}
	if _, err := s.scheduler.Every(reapEvery).WaitForSchedule().Do(s.reapSessions); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Info("scheduler started: outbox retry every %v, session reap every %v", s.retryEvery, reapEvery)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) retryOutbox() {
	s.enqueue("outbox retry", s.queue.EnqueueOutboxRetry())
}

func (s *Scheduler) reapSessions() {
	s.enqueue("session reap", s.queue.EnqueueSessionReap(s.sessionIdle))
}

func (s *Scheduler) enqueue(what string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, worker.ErrQueueFull):
		// The previous run is still queued; skip this tick.
		s.log.Debug("%s skipped: %v", what, err)
	default:
		s.log.Warn("failed to enqueue %s: %v", what, err)
	}
}
