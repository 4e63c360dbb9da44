package domain

import "time"

// CanonicalJob is the deduplicated, normalized view of one real job opening.
// Multiple raw postings can map to the same canonical job.
type CanonicalJob struct {
	ID             int64     `db:"id"`
	Title          string    `db:"title"`
	Company        string    `db:"company"`
	Location       string    `db:"location"`
	Description    string    `db:"description"`
	CanonicalURL   string    `db:"canonical_url"`
	IsRemote       bool      `db:"is_remote"`
	SeniorityLevel string    `db:"seniority_level"`
	JobType        string    `db:"job_type"`
	FirstSeen      time.Time `db:"first_seen"`
	LastSeen       time.Time `db:"last_seen"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// JobMapping is the provenance edge from a raw posting to the canonical job
// it was resolved into. One mapping per posting, created once during pipeline
// processing and never updated afterward.
type JobMapping struct {
	ID              int64     `db:"id"`
	RawPostingID    int64     `db:"raw_posting_id"`
	CanonicalJobID  int64     `db:"canonical_job_id"`
	SimilarityScore float64   `db:"similarity_score"`
	IsManual        bool      `db:"is_manual"`
	CreatedAt       time.Time `db:"created_at"`
}

// PipelineStats summarizes one pipeline drain over pending postings.
type PipelineStats struct {
	Processed        int
	Failed           int
	DuplicatesFound  int
	NewCanonicalJobs int
}
