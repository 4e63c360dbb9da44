package pipeline_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobradar/internal/domain"
	"jobradar/internal/pipeline"
)

// In-memory stores with the SQL stores' query semantics, so the whole
// clean -> normalize -> candidate filter -> match path runs for real
// instead of against scripted expectations.

type memPostingStore struct {
	postings []*domain.RawPosting
}

func (s *memPostingStore) ListByStatus(_ context.Context, status domain.ProcessingStatus, limit int) ([]*domain.RawPosting, error) {
	var out []*domain.RawPosting
	for _, p := range s.postings {
		if p.Status == status {
			out = append(out, p)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *memPostingStore) MarkProcessed(_ context.Context, id int64) error {
	for _, p := range s.postings {
		if p.ID == id {
			p.Status = domain.StatusProcessed
			p.ProcessingError = nil
		}
	}
	return nil
}

func (s *memPostingStore) MarkFailed(_ context.Context, id int64, reason string) error {
	for _, p := range s.postings {
		if p.ID == id {
			p.Status = domain.StatusFailed
			p.ProcessingError = &reason
		}
	}
	return nil
}

func (s *memPostingStore) ResetFailed(_ context.Context) (int64, error) {
	var n int64
	for _, p := range s.postings {
		if p.Status == domain.StatusFailed {
			p.Status = domain.StatusPending
			p.ProcessingError = nil
			n++
		}
	}
	return n, nil
}

// memJobStore mirrors the triple ILIKE containment filter of the SQL
// candidate query.
type memJobStore struct {
	jobs   []*domain.CanonicalJob
	nextID int64
}

func contains(stored, query string) bool {
	return strings.Contains(strings.ToLower(stored), strings.ToLower(query))
}

func (s *memJobStore) FindCandidates(_ context.Context, title, company, location string) ([]*domain.CanonicalJob, error) {
	var out []*domain.CanonicalJob
	for _, j := range s.jobs {
		if contains(j.Title, title) && contains(j.Company, company) && contains(j.Location, location) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (s *memJobStore) Create(_ context.Context, job *domain.CanonicalJob) (int64, error) {
	s.nextID++
	job.ID = s.nextID
	s.jobs = append(s.jobs, job)
	return job.ID, nil
}

func (s *memJobStore) UpdateLastSeen(_ context.Context, id int64, seenAt time.Time) error {
	for _, j := range s.jobs {
		if j.ID == id {
			j.LastSeen = seenAt
		}
	}
	return nil
}

type memMappingStore struct {
	mappings []*domain.JobMapping
}

func (s *memMappingStore) Create(_ context.Context, m *domain.JobMapping) error {
	s.mappings = append(s.mappings, m)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newMemProcessor(postings *memPostingStore, jobs *memJobStore, mappings *memMappingStore) *pipeline.Processor {
	return pipeline.NewProcessor(
		postings, jobs, mappings, passthroughTx{}, nil,
		pipeline.NewMatcher(0.7),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func rawPosting(id int64, site domain.Site, title, company, location, url string) *domain.RawPosting {
	return &domain.RawPosting{
		ID:          id,
		SourceSite:  site,
		RawTitle:    title,
		RawCompany:  company,
		RawLocation: location,
		SourceURL:   url,
		ScrapedAt:   time.Now().UTC(),
		Status:      domain.StatusPending,
	}
}

// Spelling variants of one opening, from two sites, must converge on a
// single canonical job with one mapping per posting.
func TestProcessor_ReconcilesSpellingVariants(t *testing.T) {
	postings := &memPostingStore{postings: []*domain.RawPosting{
		rawPosting(1, domain.SiteLinkedIn, "Sr. Python Developer", "Acme Inc.", "NYC", "https://linkedin.example.com/jobs/1"),
		rawPosting(2, domain.SiteIndeed, "Senior Python Developer", "Acme", "New York, NY", "https://indeed.example.com/jobs/2"),
	}}
	jobs := &memJobStore{}
	mappings := &memMappingStore{}

	stats, err := newMemProcessor(postings, jobs, mappings).Process(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &domain.PipelineStats{Processed: 2, NewCanonicalJobs: 1, DuplicatesFound: 1}, stats)

	require.Len(t, jobs.jobs, 1)
	job := jobs.jobs[0]
	assert.Equal(t, "Senior Python Developer", job.Title)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "New York, NY", job.Location)

	require.Len(t, mappings.mappings, 2)
	for _, m := range mappings.mappings {
		assert.Equal(t, job.ID, m.CanonicalJobID)
	}
	assert.InDelta(t, 1.0, mappings.mappings[1].SimilarityScore, 1e-9)

	for _, p := range postings.postings {
		assert.Equal(t, domain.StatusProcessed, p.Status)
	}
}

// Unrelated postings stay separate canonical jobs, each with a 1.0
// mapping of its own.
func TestProcessor_UnrelatedPostingsStayDistinct(t *testing.T) {
	postings := &memPostingStore{postings: []*domain.RawPosting{
		rawPosting(1, domain.SiteLinkedIn, "Marketing Intern", "Globex", "Remote", "https://linkedin.example.com/jobs/5"),
		rawPosting(2, domain.SiteIndeed, "Backend Engineer", "Initech", "Austin, TX", "https://indeed.example.com/jobs/6"),
	}}
	jobs := &memJobStore{}
	mappings := &memMappingStore{}

	stats, err := newMemProcessor(postings, jobs, mappings).Process(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &domain.PipelineStats{Processed: 2, NewCanonicalJobs: 2}, stats)

	require.Len(t, jobs.jobs, 2)
	assert.Equal(t, "Marketing Intern", jobs.jobs[0].Title)
	assert.Equal(t, "Intern", jobs.jobs[0].SeniorityLevel)
	assert.True(t, jobs.jobs[0].IsRemote)
	assert.Equal(t, "Backend Engineer", jobs.jobs[1].Title)

	require.Len(t, mappings.mappings, 2)
	assert.NotEqual(t, mappings.mappings[0].CanonicalJobID, mappings.mappings[1].CanonicalJobID)
	for _, m := range mappings.mappings {
		assert.InDelta(t, 1.0, m.SimilarityScore, 1e-9)
	}
}
