// Package scheduler runs the ingest and embedding cycle on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/pathforge-labs/pathforge/internal/logger"
)

// Step is one named stage of a cycle.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler wraps robfig/cron. Overlapping cycles are skipped.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	steps  []Step
	logger *zap.Logger

	job cron.Job
	ctx context.Context
	wg  sync.WaitGroup
}

// New creates a Scheduler that fires every interval.
func New(interval time.Duration, steps []Step, log *zap.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler interval must be positive, got %s", interval)
	}
	if len(steps) == 0 {
		return nil, errors.New("scheduler needs at least one step")
	}
	if log == nil {
		log = zap.NewNop()
	}

	cl := logger.NewCronLogger(log)
	s := &Scheduler{
		cron:   cron.New(cron.WithLogger(cl)),
		spec:   fmt.Sprintf("@every %s", interval),
		steps:  steps,
		logger: log,
	}
	s.job = cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(s.runCycle))

	return s, nil
}

// Start registers the cycle and starts the scheduler. One cycle also runs
// immediately so storage is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx = ctx
	if _, err := s.cron.AddJob(s.spec, s.job); err != nil {
		return fmt.Errorf("cron.AddJob: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.spec))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.job.Run()
	}()

	return nil
}

// Stop halts the scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runCycle() {
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	started := time.Now()
	s.logger.Info("cycle started")

	for _, step := range s.steps {
		if ctx.Err() != nil {
			s.logger.Info("cycle cancelled", zap.String("next_step", step.Name))
			return
		}

		if err := step.Run(ctx); err != nil {
			s.logger.Error("cycle step failed",
				zap.String("step_name", step.Name),
				zap.Error(err),
			)
			continue
		}
	}

	s.logger.Info("cycle complete", zap.Duration("took", time.Since(started)))
}
