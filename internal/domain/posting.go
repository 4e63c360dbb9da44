package domain

import "time"

// Site identifies a supported job board. The set is closed; adapters are
// registered per site at task-construction time.
type Site string

const (
	SiteLinkedIn Site = "linkedin"
	SiteIndeed   Site = "indeed"
)

// AllSites lists every supported site in stable order.
var AllSites = []Site{SiteLinkedIn, SiteIndeed}

// ParseSite validates a site name coming from config or CLI flags.
func ParseSite(s string) (Site, bool) {
	switch Site(s) {
	case SiteLinkedIn, SiteIndeed:
		return Site(s), true
	}
	return "", false
}

// ProcessingStatus tracks where a raw posting is in the pipeline.
type ProcessingStatus string

const (
	StatusPending   ProcessingStatus = "pending"
	StatusProcessed ProcessingStatus = "processed"
	StatusFailed    ProcessingStatus = "failed"
)

// RawPosting stores exactly what was scraped from one source site for one URL.
// Unique on (SourceSite, SourceURL): re-fetching the same URL is a no-op.
type RawPosting struct {
	ID              int64            `db:"id"`
	SourceSite      Site             `db:"source_site"`
	RawTitle        string           `db:"raw_title"`
	RawCompany      string           `db:"raw_company"`
	RawLocation     string           `db:"raw_location"`
	RawDescription  string           `db:"raw_description"`
	SourceURL       string           `db:"source_url"`
	ScrapedAt       time.Time        `db:"scraped_at"`
	Status          ProcessingStatus `db:"processing_status"`
	ProcessingError *string          `db:"processing_error"`
}
