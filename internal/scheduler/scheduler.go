package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/feral-file/nft-valuation/internal/adapter"
	"github.com/feral-file/nft-valuation/internal/config"
	"github.com/feral-file/nft-valuation/internal/ingest"
	"github.com/feral-file/nft-valuation/internal/logger"
)

// Scheduler is a long-running background task
type Scheduler interface {
	// Start runs the schedule; it blocks until the context is canceled or Stop is called
	Start(ctx context.Context) error
	// Stop waits for the running job to finish, bounded by ctx
	Stop(ctx context.Context) error
	// Name returns the scheduler's name for logging and identification
	Name() string
}

type syncScheduler struct {
	cfg       config.SyncConfig
	syncer    ingest.Syncer
	clock     adapter.Clock
	cron      *cron.Cron
	running   atomic.Bool
	runs      atomic.Int64
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// NewSyncScheduler creates a scheduler running SyncAll on the configured cron schedule.
// Runs never overlap; a tick arriving while a sync is in progress is skipped.
func NewSyncScheduler(cfg config.SyncConfig, syncer ingest.Syncer, clock adapter.Clock) Scheduler {
	return &syncScheduler{
		cfg:    cfg,
		syncer: syncer,
		clock:  clock,
		cron: cron.New(
			cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
			cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the scheduler's name
func (s *syncScheduler) Name() string {
	return "sync-scheduler"
}

// Start registers the sync job and blocks until the context is canceled or Stop is called
func (s *syncScheduler) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("scheduler already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	job := cron.FuncJob(func() { s.run(ctx) })
	if _, err := s.cron.AddJob(s.cfg.Schedule, job); err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", s.cfg.Schedule, err)
	}

	logger.InfoCtx(ctx, "Starting sync scheduler",
		zap.String("schedule", s.cfg.Schedule),
		zap.Bool("run_on_start", s.cfg.RunOnStart),
	)

	s.cron.Start()
	if s.cfg.RunOnStart {
		// goes through the same chain so it cannot overlap with a scheduled tick
		go s.cron.Entries()[0].WrappedJob.Run()
	}

	select {
	case <-ctx.Done():
		logger.InfoCtx(ctx, "Sync scheduler stopping due to context cancellation")
	case <-s.stopCh:
		logger.InfoCtx(ctx, "Sync scheduler stop requested")
	}

	<-s.cron.Stop().Done()
	return nil
}

// Stop signals the main loop and waits for it to exit
func (s *syncScheduler) Stop(ctx context.Context) error {
	if !s.running.Load() {
		return nil
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Sync scheduler stop interrupted by context timeout")
		return ctx.Err()
	}
}

func (s *syncScheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	run := s.runs.Add(1)
	start := s.clock.Now()
	logger.InfoCtx(ctx, "Starting sync run", zap.Int64("run", run))

	if err := s.syncer.SyncAll(ctx); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Sync run finished with errors"), zap.Int64("run", run))
		return
	}

	logger.InfoCtx(ctx, "Sync run finished",
		zap.Int64("run", run),
		zap.Duration("duration", s.clock.Since(start)),
	)
}
