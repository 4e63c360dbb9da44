package domain

import "time"

// SessionStatus is the lifecycle state of one adapter invocation.
type SessionStatus string

const (
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
	SessionPartial   SessionStatus = "partial"
)

// ScrapingSession records one adapter invocation for one (site, search term)
// pair. Created at the start of the call, mutated during it, and finalized
// with a terminal status and finish time on every exit path.
type ScrapingSession struct {
	ID             int64         `db:"id"`
	SourceSite     Site          `db:"source_site"`
	SearchTerm     string        `db:"search_term"`
	StartedAt      time.Time     `db:"started_at"`
	FinishedAt     *time.Time    `db:"finished_at"`
	JobsAttempted  int           `db:"jobs_attempted"`
	JobsSuccessful int           `db:"jobs_successful"`
	JobsFailed     int           `db:"jobs_failed"`
	Status         SessionStatus `db:"status"`
	ErrorMessage   *string       `db:"error_message"`
}

// Duration reports how long the session took, or zero while still running.
func (s *ScrapingSession) Duration() time.Duration {
	if s.FinishedAt == nil {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// SuccessRate is the percentage of attempted candidates that were persisted.
func (s *ScrapingSession) SuccessRate() float64 {
	if s.JobsAttempted == 0 {
		return 0
	}
	return float64(s.JobsSuccessful) / float64(s.JobsAttempted) * 100
}

// ScrapeResult aggregates one adapter call's outcome for the orchestrator.
type ScrapeResult struct {
	Site        Site
	SearchTerm  string
	NewPostings int
	Existing    int
	Failed      int
}

// SiteHealth is the 24h monitoring aggregate for one site.
type SiteHealth struct {
	Sessions       int
	SuccessRate    float64
	LastSuccessful *ScrapingSession
	TotalScraped   int
}

// HealthReport is the orchestrator's read-only monitoring contract.
type HealthReport struct {
	Timestamp         time.Time
	PendingProcessing int
	FailedProcessing  int
	Sites             map[Site]SiteHealth
}
