// Package scheduler runs orchestration on a cron cadence for long-lived
// deployments.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"jobradar/internal/domain"
)

// Runner executes one batch of scraping tasks.
type Runner interface {
	Run(ctx context.Context, tasks []domain.ScrapingTask) (*domain.RunResult, error)
}

type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	tasks  []domain.ScrapingTask
	spec   string
	logger *slog.Logger
}

// New builds a scheduler firing on the given cron spec (e.g. "@every 6h").
func New(runner Runner, spec string, tasks []domain.ScrapingTask, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		tasks:  tasks,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the cron job, runs one batch immediately so a fresh
// deployment does not wait for the first tick, and blocks until the
// context is canceled.
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.tasks) == 0 {
		return fmt.Errorf("no tasks configured")
	}

	if _, err := s.cron.AddFunc(s.spec, func() {
		s.runBatch(ctx)
	}); err != nil {
		return fmt.Errorf("register cron job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "spec", s.spec, "tasks", len(s.tasks))

	go s.runBatch(ctx)

	<-ctx.Done()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("scheduler stopped")
	return ctx.Err()
}

func (s *Scheduler) runBatch(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	s.logger.Info("scheduled run starting", "tasks", len(s.tasks))
	result, err := s.runner.Run(ctx, s.tasks)
	if err != nil {
		s.logger.Error("scheduled run failed", "error", err)
		return
	}
	s.logger.Info("scheduled run finished",
		"run_id", result.RunID,
		"completed", result.TasksCompleted,
		"failed", result.TasksFailed,
		"new", result.TotalNew,
	)
}
