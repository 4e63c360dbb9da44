package domain

import "time"

// ScrapingTask is one unit of orchestration work. Tasks are ephemeral; they
// exist only for the duration of a run.
type ScrapingTask struct {
	Site        Site
	SearchTerm  string
	Location    string
	MaxPostings int
	Priority    int
}

// OrchestrationConfig holds the tunables for one orchestration run.
type OrchestrationConfig struct {
	DelayBetweenTasks  time.Duration
	MaxRetries         int
	RetryDelay         time.Duration
	MaxConcurrentTasks int
	ProcessImmediately bool

	// TimeoutPerTask is advisory; the scheduler does not enforce it.
	TimeoutPerTask time.Duration
}

// TaskError records one task that exhausted its retries. Failures are data,
// never raised to the caller.
type TaskError struct {
	Site       Site
	SearchTerm string
	Message    string
}

// SiteStats accumulates per-site counters across a run.
type SiteStats struct {
	NewPostings int
	Existing    int
	Searches    int
	Failures    int
}

// RunResult summarizes one orchestration run.
type RunResult struct {
	RunID           string
	StartedAt       time.Time
	Duration        time.Duration
	TasksCompleted  int
	TasksFailed     int
	TotalNew        int
	TotalExisting   int
	Errors          []TaskError
	SiteStats       map[Site]*SiteStats
	ProcessingStats *PipelineStats
}
