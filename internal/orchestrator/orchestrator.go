// Package orchestrator fans scraping tasks out over a bounded worker pool
// and reconciles the results.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobradar/internal/domain"
)

// Orchestrator runs batches of scraping tasks with retries and bounded
// concurrency, then hands the accumulated postings to the pipeline.
type Orchestrator struct {
	factory   ScraperFactory
	processor Processor
	sessions  SessionReader
	postings  PostingCounter
	cfg       domain.OrchestrationConfig
	logger    *slog.Logger
}

func New(
	factory ScraperFactory,
	processor Processor,
	sessions SessionReader,
	postings PostingCounter,
	cfg domain.OrchestrationConfig,
	logger *slog.Logger,
) *Orchestrator {
	if cfg.MaxConcurrentTasks <= 0 {
		cfg.MaxConcurrentTasks = 1
	}
	return &Orchestrator{
		factory:   factory,
		processor: processor,
		sessions:  sessions,
		postings:  postings,
		cfg:       cfg,
		logger:    logger,
	}
}

type taskOutcome struct {
	task   domain.ScrapingTask
	result *domain.ScrapeResult
	err    error
}

// Run executes every task and returns an aggregate result. Task failures
// are recorded in the result, never returned as an error; the returned
// error covers only the final processing drain.
func (o *Orchestrator) Run(ctx context.Context, tasks []domain.ScrapingTask) (*domain.RunResult, error) {
	result := &domain.RunResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		SiteStats: map[domain.Site]*domain.SiteStats{},
	}
	logger := o.logger.With("run_id", result.RunID)
	logger.Info("orchestration run starting", "tasks", len(tasks))

	sorted := sortTasks(tasks)

	queue := make(chan domain.ScrapingTask)
	outcomes := make(chan taskOutcome)

	var wg sync.WaitGroup
	for range o.cfg.MaxConcurrentTasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.worker(ctx, queue, outcomes)
		}()
	}

	go func() {
		defer close(queue)
		for _, task := range sorted {
			select {
			case queue <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for out := range outcomes {
		o.record(result, out, logger)
		if out.err == nil && o.cfg.ProcessImmediately {
			// Per-task drain failures are recoverable: the postings
			// stay pending for the next drain.
			_ = o.drain(ctx, result, logger)
		}
	}

	if !o.cfg.ProcessImmediately {
		if err := o.drain(ctx, result, logger); err != nil {
			result.Duration = time.Since(result.StartedAt)
			return result, err
		}
	}

	result.Duration = time.Since(result.StartedAt)
	logger.Info("orchestration run finished",
		"completed", result.TasksCompleted,
		"failed", result.TasksFailed,
		"new", result.TotalNew,
		"existing", result.TotalExisting,
		"duration", result.Duration,
	)
	return result, nil
}

// EstimateDuration is the back-of-envelope run time used by dry runs:
// serial task time plus inter-task delays, divided by the pool width.
func (o *Orchestrator) EstimateDuration(tasks []domain.ScrapingTask) time.Duration {
	if len(tasks) == 0 {
		return 0
	}
	perTask := o.cfg.TimeoutPerTask
	if perTask == 0 {
		perTask = time.Minute
	}
	serial := time.Duration(len(tasks)) * (perTask + o.cfg.DelayBetweenTasks)
	return serial / time.Duration(o.cfg.MaxConcurrentTasks)
}

// PlanTasks returns the tasks in execution order without running them.
func (o *Orchestrator) PlanTasks(tasks []domain.ScrapingTask) []domain.ScrapingTask {
	return sortTasks(tasks)
}

// Health summarizes the last 24 hours of scraping and the current
// processing backlog.
func (o *Orchestrator) Health(ctx context.Context) (*domain.HealthReport, error) {
	report := &domain.HealthReport{
		Timestamp: time.Now().UTC(),
		Sites:     map[domain.Site]domain.SiteHealth{},
	}

	sessions, err := o.sessions.ListSince(ctx, report.Timestamp.Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	type agg struct {
		sessions       int
		completed      int
		scraped        int
		lastSuccessful *domain.ScrapingSession
	}
	bySite := map[domain.Site]*agg{}
	for _, s := range sessions {
		a := bySite[s.SourceSite]
		if a == nil {
			a = &agg{}
			bySite[s.SourceSite] = a
		}
		a.sessions++
		a.scraped += s.JobsSuccessful
		if s.Status == domain.SessionCompleted {
			a.completed++
			if a.lastSuccessful == nil || s.StartedAt.After(a.lastSuccessful.StartedAt) {
				a.lastSuccessful = s
			}
		}
	}
	for site, a := range bySite {
		health := domain.SiteHealth{
			Sessions:       a.sessions,
			LastSuccessful: a.lastSuccessful,
			TotalScraped:   a.scraped,
		}
		if a.sessions > 0 {
			health.SuccessRate = float64(a.completed) / float64(a.sessions) * 100
		}
		report.Sites[site] = health
	}

	pending, err := o.postings.CountByStatus(ctx, domain.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("count pending postings: %w", err)
	}
	failed, err := o.postings.CountByStatus(ctx, domain.StatusFailed)
	if err != nil {
		return nil, fmt.Errorf("count failed postings: %w", err)
	}
	report.PendingProcessing = int(pending)
	report.FailedProcessing = int(failed)
	return report, nil
}

func (o *Orchestrator) worker(ctx context.Context, queue <-chan domain.ScrapingTask, outcomes chan<- taskOutcome) {
	for task := range queue {
		result, err := o.runTask(ctx, task)
		select {
		case outcomes <- taskOutcome{task: task, result: result, err: err}:
		case <-ctx.Done():
			return
		}

		if o.cfg.DelayBetweenTasks > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(o.cfg.DelayBetweenTasks):
			}
		}
	}
}

// runTask tries a task up to MaxRetries+1 times with a fresh scraper per
// attempt.
func (o *Orchestrator) runTask(ctx context.Context, task domain.ScrapingTask) (*domain.ScrapeResult, error) {
	logger := o.logger.With("site", string(task.Site), "term", task.SearchTerm)

	var lastErr error
	attempts := o.cfg.MaxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		scraper, err := o.factory.NewScraper(task.Site)
		if err != nil {
			return nil, fmt.Errorf("build scraper: %w", err)
		}

		result, err := scraper.Scrape(ctx, task.SearchTerm, task.Location, task.MaxPostings)
		if err == nil {
			return result, nil
		}
		lastErr = err
		logger.Warn("task attempt failed", "attempt", attempt, "max_attempts", attempts, "error", err)

		if attempt < attempts && o.cfg.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(o.cfg.RetryDelay):
			}
		}
	}
	return nil, fmt.Errorf("all %d attempts failed: %w", attempts, lastErr)
}

func (o *Orchestrator) record(result *domain.RunResult, out taskOutcome, logger *slog.Logger) {
	stats := result.SiteStats[out.task.Site]
	if stats == nil {
		stats = &domain.SiteStats{}
		result.SiteStats[out.task.Site] = stats
	}
	stats.Searches++

	if out.err != nil {
		result.TasksFailed++
		stats.Failures++
		result.Errors = append(result.Errors, domain.TaskError{
			Site:       out.task.Site,
			SearchTerm: out.task.SearchTerm,
			Message:    out.err.Error(),
		})
		logger.Error("task failed", "site", string(out.task.Site), "term", out.task.SearchTerm, "error", out.err)
		return
	}

	result.TasksCompleted++
	result.TotalNew += out.result.NewPostings
	result.TotalExisting += out.result.Existing
	stats.NewPostings += out.result.NewPostings
	stats.Existing += out.result.Existing
}

// drain runs the processing pipeline, accumulating stats across calls
// when postings are processed after each task.
func (o *Orchestrator) drain(ctx context.Context, result *domain.RunResult, logger *slog.Logger) error {
	stats, err := o.processor.Process(ctx)
	if err != nil {
		logger.Error("processing drain failed", "error", err)
	}
	if stats == nil {
		return err
	}
	if result.ProcessingStats == nil {
		result.ProcessingStats = &domain.PipelineStats{}
	}
	result.ProcessingStats.Processed += stats.Processed
	result.ProcessingStats.Failed += stats.Failed
	result.ProcessingStats.DuplicatesFound += stats.DuplicatesFound
	result.ProcessingStats.NewCanonicalJobs += stats.NewCanonicalJobs
	return err
}

// sortTasks orders by priority ascending (priority 1 runs first), then
// site and term for a stable, predictable schedule.
func sortTasks(tasks []domain.ScrapingTask) []domain.ScrapingTask {
	sorted := make([]domain.ScrapingTask, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.Site != b.Site {
			return a.Site < b.Site
		}
		return a.SearchTerm < b.SearchTerm
	})
	return sorted
}
