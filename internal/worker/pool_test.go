package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lexiflash/internal/learning"
	"github.com/vytor/lexiflash/internal/worker"
)

type funcJob struct {
	name string
	fn   func(context.Context) error
}

func (j funcJob) Name() string { return j.name }

func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

func TestPool_RunsJobsAndDrainsOnStop(t *testing.T) {
	pool := worker.NewPool(2, 8)
	pool.Start(context.Background())

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(funcJob{name: "count", fn: func(context.Context) error {
			ran.Add(1)
			return nil
		}}))
	}
	pool.Stop()

	assert.Equal(t, int32(5), ran.Load())
	assert.ErrorIs(t, pool.Submit(funcJob{name: "late", fn: func(context.Context) error { return nil }}), worker.ErrPoolStopped)
}

func TestPool_SubmitFailsWhenQueueFull(t *testing.T) {
	pool := worker.NewPool(1, 1)
	release := make(chan struct{})
	started := make(chan struct{})
	pool.Start(context.Background())
	defer pool.Stop()

	require.NoError(t, pool.Submit(funcJob{name: "block", fn: func(context.Context) error {
		close(started)
		<-release
		return nil
	}}))
	<-started
	require.NoError(t, pool.Submit(funcJob{name: "queued", fn: func(context.Context) error { return nil }}))

	err := pool.Submit(funcJob{name: "overflow", fn: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, worker.ErrQueueFull)
	close(release)
}

func TestPool_SurvivesPanicsAndErrors(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, pool.Submit(funcJob{name: "panic", fn: func(context.Context) error { panic("boom") }}))
	require.NoError(t, pool.Submit(funcJob{name: "fail", fn: func(context.Context) error { return errors.New("nope") }}))
	require.NoError(t, pool.Submit(funcJob{name: "ok", fn: func(context.Context) error {
		wg.Done()
		return nil
	}}))

	waitOrFail(t, &wg)
	pool.Stop()
}

type fakeFlusher struct{ calls atomic.Int32 }

func (f *fakeFlusher) Flush(context.Context) (learning.RetryResult, error) {
	f.calls.Add(1)
	return learning.RetryResult{Batches: 1, Updates: 2}, nil
}

type fakeReaper struct{ maxIdle time.Duration }

func (f *fakeReaper) ReapIdle(_ context.Context, maxIdle time.Duration) int {
	f.maxIdle = maxIdle
	return 1
}

func TestJobs(t *testing.T) {
	flusher := &fakeFlusher{}
	require.NoError(t, (&worker.RetryOutboxJob{Outbox: flusher}).Run(context.Background()))
	assert.Equal(t, int32(1), flusher.calls.Load())

	reaper := &fakeReaper{}
	require.NoError(t, (&worker.ReapSessionsJob{Sessions: reaper, MaxIdle: time.Minute}).Run(context.Background()))
	assert.Equal(t, time.Minute, reaper.maxIdle)
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for jobs")
	}
}
