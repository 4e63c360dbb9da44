package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jobradar/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run recurring scraping batches on a schedule",
	Long: `Run the configured scraping batch on a cron schedule until interrupted.

The task set comes from the schedule section of the config file; one batch
runs immediately on startup, then on every tick of the cron spec.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	tasks, err := buildTasks(cfg.Schedule.SearchTerms, cfg.Schedule.Sites, "", cfg.Schedule.MaxPostings)
	if err != nil {
		return fmt.Errorf("build scheduled tasks: %w", err)
	}

	orch := newOrchestrator(cfg.Orchestration)
	sched := scheduler.New(orch, cfg.Schedule.Spec, tasks, logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler: %w", err)
	}

	logger.Info("scheduler stopped")
	return nil
}
