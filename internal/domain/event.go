package domain

import "time"

// JobEventAction says what the pipeline did with a posting.
type JobEventAction string

const (
	JobCreated JobEventAction = "created"
	JobMatched JobEventAction = "matched"
)

// JobEvent is emitted after each posting is reconciled against the
// canonical job catalog.
type JobEvent struct {
	Action          JobEventAction `json:"action"`
	Job             *CanonicalJob  `json:"job"`
	RawPostingID    int64          `json:"raw_posting_id"`
	SimilarityScore float64        `json:"similarity_score"`
	Timestamp       time.Time      `json:"timestamp"`
}
