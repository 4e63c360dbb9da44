package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobradar/internal/domain"
)

type countingRunner struct {
	runs atomic.Int32
}

func (r *countingRunner) Run(_ context.Context, tasks []domain.ScrapingTask) (*domain.RunResult, error) {
	r.runs.Add(1)
	return &domain.RunResult{TasksCompleted: len(tasks)}, nil
}

func TestScheduler_RunsImmediately(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, "@every 1h", []domain.ScrapingTask{
		{Site: domain.SiteLinkedIn, SearchTerm: "go"},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool {
		return runner.runs.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond, "the first batch runs without waiting for a tick")

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_RejectsEmptyTaskList(t *testing.T) {
	s := New(&countingRunner{}, "@every 1h", nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := s.Start(context.Background())
	assert.ErrorContains(t, err, "no tasks configured")
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := New(&countingRunner{}, "not a cron spec", []domain.ScrapingTask{
		{Site: domain.SiteIndeed, SearchTerm: "go"},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := s.Start(context.Background())
	assert.ErrorContains(t, err, "register cron job")
}
