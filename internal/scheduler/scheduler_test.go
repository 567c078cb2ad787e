package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nexusai/billing/internal/config"
	"github.com/nexusai/billing/internal/domain/billing"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu       sync.Mutex
	calls    int
	actor    string
	deadline bool
	block    chan struct{}
	err      error
}

func (r *fakeRunner) RunBillingCycleForAll(ctx context.Context) (*billing.BatchResult, error) {
	r.mu.Lock()
	r.calls++
	r.actor = types.GetActorID(ctx)
	_, r.deadline = ctx.Deadline()
	block := r.block
	r.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return &billing.BatchResult{RunID: "run_partial"}, ctx.Err()
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return &billing.BatchResult{RunID: "run_test"}, nil
}

func newTestScheduler(t *testing.T, schedule string, runner Runner) *Scheduler {
	t.Helper()
	cfg := config.GetDefaultConfig()
	cfg.Billing.Schedule = schedule
	cfg.Billing.RunTimeout = time.Minute
	return NewScheduler(cfg, runner, logger.NewNoopLogger())
}

func TestRunOnceAttributesAndBoundsTheRun(t *testing.T) {
	runner := &fakeRunner{}
	s := newTestScheduler(t, "", runner)

	result, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run_test", result.RunID)
	assert.Equal(t, types.ActorScheduler, runner.actor)
	assert.True(t, runner.deadline)
}

func TestRunOnceReturnsRunnerError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("store offline")}
	s := newTestScheduler(t, "", runner)

	_, err := s.RunOnce(context.Background())
	assert.EqualError(t, err, "store offline")
}

func TestStartWithoutScheduleIsIdle(t *testing.T) {
	s := newTestScheduler(t, "", &fakeRunner{})

	assert.False(t, s.Enabled())
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := newTestScheduler(t, "every tuesday", &fakeRunner{})

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestTickSkipsWhileRunning(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	s := newTestScheduler(t, "@every 1h", runner)
	require.NoError(t, s.Start(context.Background()))

	go s.tick()
	require.Eventually(t, func() bool {
		runner.mu.Lock()
		defer runner.mu.Unlock()
		return runner.calls == 1
	}, 5*time.Second, 10*time.Millisecond)

	s.tick()

	runner.mu.Lock()
	assert.Equal(t, 1, runner.calls)
	runner.mu.Unlock()

	// Stop cancels the blocked run and waits for it
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestTriggerIsRejectedWhileTickRuns(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	s := newTestScheduler(t, "@every 1h", runner)
	require.NoError(t, s.Start(context.Background()))

	go s.tick()
	require.Eventually(t, func() bool {
		runner.mu.Lock()
		defer runner.mu.Unlock()
		return runner.calls == 1
	}, 5*time.Second, 10*time.Millisecond)

	_, err := s.Trigger(context.Background())
	require.Error(t, err)
	assert.True(t, ierr.IsInvalidOperation(err))

	close(runner.block)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	result, err := s.Trigger(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run_test", result.RunID)

	runner.mu.Lock()
	assert.Equal(t, 2, runner.calls)
	runner.mu.Unlock()
}
