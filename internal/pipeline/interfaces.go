package pipeline

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"jobradar/internal/domain"
)

// PostingStore reads and advances the processing state of raw postings.
type PostingStore interface {
	ListByStatus(ctx context.Context, status domain.ProcessingStatus, limit int) ([]*domain.RawPosting, error)
	MarkProcessed(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error

	// ResetFailed flips failed postings back to pending and reports how
	// many were reset.
	ResetFailed(ctx context.Context) (int64, error)
}

// JobStore manages canonical jobs.
type JobStore interface {
	// FindCandidates returns canonical jobs whose fields contain the
	// given values, a deliberately coarse prefilter for the scorer.
	FindCandidates(ctx context.Context, title, company, location string) ([]*domain.CanonicalJob, error)
	Create(ctx context.Context, job *domain.CanonicalJob) (int64, error)
	UpdateLastSeen(ctx context.Context, id int64, seenAt time.Time) error
}

// MappingStore links raw postings to their canonical jobs.
type MappingStore interface {
	Create(ctx context.Context, m *domain.JobMapping) error
}

// TransactionManager runs fn atomically; the stores pick the transaction
// up through the context.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher announces reconciliation outcomes to downstream consumers.
type Publisher interface {
	PublishJobEvent(ctx context.Context, event *domain.JobEvent) error
}
