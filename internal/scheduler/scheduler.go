package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/nexusai/billing/internal/config"
	"github.com/nexusai/billing/internal/domain/billing"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/types"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

// Runner is the part of the billing service the scheduler drives
type Runner interface {
	RunBillingCycleForAll(ctx context.Context) (*billing.BatchResult, error)
}

// Scheduler runs the recurring billing batch on a cron schedule. Runs never
// overlap: a tick that fires while a run is still going is skipped.
type Scheduler struct {
	cron    *cron.Cron
	runner  Runner
	logger  *logger.Logger
	spec    string
	timeout time.Duration

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewScheduler(cfg *config.Configuration, runner Runner, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		runner:  runner,
		logger:  logger,
		spec:    cfg.Billing.Schedule,
		timeout: cfg.Billing.RunTimeout,
	}
}

// Enabled reports whether a schedule is configured
func (s *Scheduler) Enabled() bool {
	return s.spec != ""
}

// Start registers the billing job and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.Enabled() {
		s.logger.Info("billing schedule not configured, scheduler idle")
		return nil
	}

	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))

	if _, err := s.cron.AddFunc(s.spec, s.tick); err != nil {
		return ierr.WithError(err).
			WithHint("billing.schedule is not a valid cron expression").
			WithReportableDetails(map[string]any{"schedule": s.spec}).
			Mark(ierr.ErrValidation)
	}

	s.cron.Start()
	s.logger.Infow("billing scheduler started", "schedule", s.spec, "run_timeout", s.timeout)
	return nil
}

// Stop halts the cron loop and cancels an in-progress run. It waits for the
// run to return its partial result, or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	if !s.Enabled() || s.cancel == nil {
		return nil
	}

	stopped := s.cron.Stop()
	s.cancel()

	done := make(chan struct{})
	go func() {
		<-stopped.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("billing scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) tick() {
	if !s.begin() {
		s.logger.Warnw("previous billing run still in progress, skipping tick", "schedule", s.spec)
		return
	}
	defer s.end()

	_, _ = s.RunOnce(s.ctx)
}

// Trigger runs a batch now through the same guard as cron ticks. It is
// rejected with InvalidOperation while another run is in progress.
func (s *Scheduler) Trigger(ctx context.Context) (*billing.BatchResult, error) {
	if !s.begin() {
		return nil, ierr.NewError("billing run already in progress").
			WithHint("A billing run is already in progress, try again later").
			Mark(ierr.ErrInvalidOperation)
	}
	defer s.end()

	return s.RunOnce(ctx)
}

// RunOnce runs a single billing batch bounded by the configured timeout
func (s *Scheduler) RunOnce(ctx context.Context) (*billing.BatchResult, error) {
	ctx = types.SetActorID(ctx, types.ActorScheduler)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.runner.RunBillingCycleForAll(ctx)
	if err != nil {
		s.logger.Errorw("scheduled billing run failed", "error", err)
		return result, err
	}

	s.logger.Infow("scheduled billing run completed",
		"run_id", result.RunID,
		"charged", result.Count(types.AccountRunStatusCharged),
		"declined", result.Count(types.AccountRunStatusDeclined),
		"errors", len(result.Errors),
	)
	return result, nil
}

func (s *Scheduler) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	s.wg.Add(1)
	return true
}

func (s *Scheduler) end() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	s.wg.Done()
}

// RegisterHooks ties the scheduler to the fx lifecycle
func RegisterHooks(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Stop,
	})
}
