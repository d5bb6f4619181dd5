// Package jobs runs the periodic scoring batch.
package jobs

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
	"github.com/robfig/cron/v3"
)

// WeekCalculator scores the current period of every league.
type WeekCalculator interface {
	CalculateCurrentWeeks(ctx context.Context) (usecase.CurrentWeeksResult, error)
}

// CacheInvalidator drops cached match results so a run sees fresh feed data.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// ErrNonIdempotentMode rejects periodic runs that would add the current
// period to the overall totals again on every tick.
var ErrNonIdempotentMode = crerr.New("scheduled scoring requires CUMULATIVE_MODE=recompute")

type Options struct {
	// Spec is a standard five-field cron spec or a descriptor such as "@hourly".
	Spec     string
	Location *time.Location
	// Mode is the leaderboard cumulative mode the calculator runs with.
	Mode usecase.CumulativeMode
}

type Scheduler struct {
	cron        *cron.Cron
	spec        string
	mode        usecase.CumulativeMode
	calc        WeekCalculator
	invalidator CacheInvalidator
	logger      *logging.Logger
}

// NewScheduler builds a scheduler for opts.Spec. A run still in progress when
// the next tick fires makes that tick a no-op.
func NewScheduler(calc WeekCalculator, invalidator CacheInvalidator, opts Options, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	cronLog := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		spec:        opts.Spec,
		mode:        opts.Mode,
		calc:        calc,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Start registers the run and starts the cron loop. Additive totals are not
// idempotent, so Start refuses any mode other than recompute.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.mode != usecase.CumulativeRecompute {
		return crerr.Wrapf(ErrNonIdempotentMode, "mode=%q", s.mode)
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.ErrorContext(ctx, "scheduled scoring run failed", "error", err)
		}
	})
	if err != nil {
		return crerr.Wrapf(err, "schedule scoring spec=%q", s.spec)
	}

	s.cron.Start()
	s.logger.InfoContext(ctx, "scoring scheduler started",
		"spec", s.spec,
		"location", s.cron.Location().String(),
		"mode", string(s.mode),
	)
	return nil
}

// Stop waits for a running batch to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scoring scheduler stopped")
}

// RunOnce scores every league's current period.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}

	started := time.Now()
	result, err := s.calc.CalculateCurrentWeeks(ctx)
	s.logger.InfoContext(ctx, "scoring run finished",
		"processed", result.Processed,
		"skipped", result.Skipped,
		"duration_ms", time.Since(started).Milliseconds(),
		"failed", err != nil,
	)
	if err != nil {
		return crerr.Wrap(err, "calculate current weeks")
	}
	return nil
}

// cronLogger adapts the service logger to cron's logging interface.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
