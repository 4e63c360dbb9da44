package scrape

//go:generate mockgen -source=adapter.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"jobradar/internal/domain"
)

// Record is one extracted job posting, not yet persisted.
type Record struct {
	Title       string
	Company     string
	Location    string
	Description string
	URL         string
}

// Candidate is an opaque per-posting handle produced by an adapter's page
// fetch and consumed by its Extract.
type Candidate any

// Adapter is the capability contract one source site implements. Adapters
// hold per-call state (pagination cursors, HTTP clients) and are not safe
// to share across concurrent tasks; the orchestrator constructs a fresh one
// per attempt.
type Adapter interface {
	Site() domain.Site

	// BuildSearchURL returns the search URL for the given page (1-based).
	BuildSearchURL(term, location string, page int) string

	// FetchPage lists the candidate postings on one result page.
	FetchPage(ctx context.Context, term, location string, page, pageSize int) ([]Candidate, error)

	// Extract parses a candidate into a Record. Parse failure yields nil,
	// never an error: the caller skips the candidate and moves on.
	Extract(ctx context.Context, c Candidate) *Record

	// Validate applies the site's field policy to an extracted record.
	Validate(rec *Record) bool
}

// PostingStore persists raw postings. Upsert is keyed on (site, URL):
// re-encountering a URL reports isNew=false instead of creating a row.
type PostingStore interface {
	Upsert(ctx context.Context, p *domain.RawPosting) (id int64, isNew bool, err error)
}

// SessionStore records scraping sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, s *domain.ScrapingSession) (int64, error)
	UpdateSession(ctx context.Context, s *domain.ScrapingSession) error
}
