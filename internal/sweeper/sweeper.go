// Package sweeper runs the retention sweep: a single repeating job that
// removes messages older than the configured horizon. Scheduling is handled
// by robfig/cron with an @every interval; a sweep also runs immediately at
// startup so a long-stopped instance does not wait a full interval before
// enforcing retention. Missed ticks are not replayed — the next sweep always
// covers them because the purge is cutoff-scoped and idempotent.
package sweeper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Purger removes messages older than the retention horizon and reports how
// many rows were deleted. Implemented by services.MessageService.
type Purger interface {
	Purge(ctx context.Context, retentionDays int) (int64, error)
}

// Config holds the dependencies and tuning for the sweeper.
type Config struct {
	Purger        Purger
	RetentionDays int
	Interval      time.Duration // sweep cadence; defaults to 24h if zero
}

// Sweeper owns the periodic retention job.
type Sweeper struct {
	purger        Purger
	retentionDays int
	interval      time.Duration

	cron   *cron.Cron
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Sweeper with the given config.
func New(cfg Config) *Sweeper {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Sweeper{
		purger:        cfg.Purger,
		retentionDays: cfg.RetentionDays,
		interval:      interval,
	}
}

// Start launches the sweep schedule and fires one sweep immediately. It is a
// no-op when retention is disabled (RetentionDays <= 0 means retain forever).
func (s *Sweeper) Start(ctx context.Context) error {
	if s.retentionDays <= 0 {
		log.Info().Msg("retention disabled, sweeper not started")
		return nil
	}

	ctx, s.cancel = context.WithCancel(ctx)

	// Overlapping sweeps are skipped rather than queued; a sweep that is
	// still running already covers the tick that would have overlapped it.
	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() { s.sweep(ctx) }); err != nil {
		return fmt.Errorf("sweeper: schedule: %w", err)
	}

	// @every fires only after one full interval; sweep once right away.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sweep(ctx)
	}()

	s.cron.Start()
	log.Info().
		Dur("interval", s.interval).
		Int("retention_days", s.retentionDays).
		Msg("retention sweeper started")
	return nil
}

// Stop halts the schedule and waits for any in-flight sweep to finish. The
// context is cancelled only after the waits, so a running purge completes
// instead of being aborted mid-delete. Safe to call when the sweeper never
// started.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		// cron.Stop returns a context that completes once running jobs exit.
		<-s.cron.Stop().Done()
	}
	s.wg.Wait()
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		log.Info().Msg("retention sweeper stopped")
	}
}

// sweep performs one purge pass and logs the outcome.
func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()
	n, err := s.purger.Purge(ctx, s.retentionDays)
	if err != nil {
		log.Error().Err(err).Msg("retention sweep failed")
		return
	}
	log.Info().
		Int64("deleted", n).
		Int("retention_days", s.retentionDays).
		Dur("took", time.Since(start)).
		Msg("retention sweep completed")
}
