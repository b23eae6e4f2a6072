// Package scheduler triggers pipeline runs on a fixed interval and on manual
// request, enforcing at most one run in flight process-wide.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hotdeals/deal-harvester/internal/observability"
	"github.com/hotdeals/deal-harvester/internal/pipeline"
	"github.com/hotdeals/deal-harvester/internal/platform"
	"github.com/hotdeals/deal-harvester/internal/platform/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Pipeline executes one full harvest run.
type Pipeline interface {
	Run(ctx context.Context) (models.RunSummary, error)
}

// Clock provides times.
type Clock interface {
	// Now returns current UTC time.
	Now() *time.Time
}

type systemClock struct{}

// Now returns current UTC time.
func (c systemClock) Now() *time.Time {
	now := time.Now().UTC()
	return &now
}

// Option is custom configuration of Scheduler.
type Option func(s *Scheduler)

// Scheduler owns the pipeline run state and the interval timer.
type Scheduler struct {
	cron     *cron.Cron
	pipeline Pipeline
	interval time.Duration
	state    runState
	clock    Clock
	logger   *zerolog.Logger
}

// New returns new Scheduler firing every interval.
func New(pipe Pipeline, interval time.Duration, logger *zerolog.Logger, ops ...Option) *Scheduler {
	sched := &Scheduler{
		cron:     cron.New(),
		pipeline: pipe,
		interval: interval,
		clock:    systemClock{},
		logger:   logger,
	}
	sched.state.status = models.StatusIdle

	for _, op := range ops {
		op(sched)
	}

	return sched
}

// Start registers the interval job and starts the timer loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		if err := s.TriggerNow(); err != nil {
			s.logger.Warn().Err(err).Msg("skipping scheduled run")
		}
	})
	if err != nil {
		return fmt.Errorf("can't register interval job: %w", err)
	}

	s.cron.Start()
	s.logger.Info().Dur("interval", s.interval).Msg("scheduler started")

	return nil
}

// Stop stops the timer loop and waits for its job wrapper to return.
// A pipeline run already in flight keeps running in the background.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// TriggerNow starts a pipeline run in the background and returns immediately.
// Returns platform.ErrAlreadyRunning when a run is already in flight.
func (s *Scheduler) TriggerNow() error {
	if !s.state.tryStart() {
		return platform.ErrAlreadyRunning
	}

	go s.execute()

	return nil
}

// Status returns a snapshot of the pipeline run state.
func (s *Scheduler) Status() models.Run {
	return s.state.snapshot()
}

// execute runs the pipeline and translates its outcome into the run state.
// The running flag is cleared on every exit path, panics included; failures
// never propagate past the scheduler.
func (s *Scheduler) execute() {
	status := models.StatusError
	var message *string
	var completedAt *time.Time

	defer func() {
		if rec := recover(); rec != nil {
			status = models.StatusError
			message = lo.ToPtr(fmt.Sprintf("%v", rec))
			s.logger.Error().Str("panic", *message).Msg("pipeline run panicked")
		}
		s.state.finish(status, message, completedAt)
		observability.PipelineRuns.WithLabelValues(string(status)).Inc()
	}()

	summary, err := s.pipeline.Run(context.Background())

	observability.PagesScraped.Add(float64(summary.PagesFetched))
	observability.PagesFailed.Add(float64(summary.PagesFailed))

	switch {
	case err == nil:
		status = models.StatusCompleted
		completedAt = s.clock.Now()
		observability.SnapshotProducts.Set(float64(summary.Products))
		s.logger.Info().
			Int("products", summary.Products).
			Msg("pipeline run completed")
	case errors.Is(err, pipeline.ErrFetchTimeout), errors.Is(err, pipeline.ErrNormalizeTimeout):
		status = models.StatusTimeout
		message = lo.ToPtr(err.Error())
		s.logger.Error().Err(err).Msg("pipeline run timed out")
	default:
		status = models.StatusError
		message = lo.ToPtr(err.Error())
		s.logger.Error().Err(err).Msg("pipeline run failed")
	}
}

// WithClock sets Scheduler's custom Clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}
