package orchestrator

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"jobradar/internal/domain"
)

// Scraper runs one search against one site.
type Scraper interface {
	Scrape(ctx context.Context, term, location string, maxPostings int) (*domain.ScrapeResult, error)
}

// ScraperFactory builds a fresh Scraper per attempt. Scrapers carry
// per-call state, so retries never reuse one.
type ScraperFactory interface {
	NewScraper(site domain.Site) (Scraper, error)
}

// Processor drains pending postings into canonical jobs.
type Processor interface {
	Process(ctx context.Context) (*domain.PipelineStats, error)
}

// SessionReader exposes recent scraping sessions for health reporting.
type SessionReader interface {
	ListSince(ctx context.Context, since time.Time) ([]*domain.ScrapingSession, error)
}

// PostingCounter exposes processing backlog sizes for health reporting.
type PostingCounter interface {
	CountByStatus(ctx context.Context, status domain.ProcessingStatus) (int64, error)
}
