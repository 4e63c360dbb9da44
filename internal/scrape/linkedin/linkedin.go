// Package linkedin fetches postings through LinkedIn's guest jobs API,
// which serves HTML fragments and is more stable than the main site.
package linkedin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobradar/internal/domain"
	"jobradar/internal/scrape"
)

const (
	defaultSearchURL = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"
	defaultDetailURL = "https://www.linkedin.com/jobs-guest/jobs/api/jobPosting"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds LinkedIn adapter configuration. URLs are overridable for
// tests against a local server.
type Config struct {
	SearchURL string
	DetailURL string
	Timeout   time.Duration
}

// Adapter implements scrape.Adapter against LinkedIn. The guest API pages
// by result offset; the search endpoint does not take a location, so the
// task's location is folded into nothing here (callers encode it in the
// search term if they need it).
type Adapter struct {
	client    *http.Client
	searchURL string
	detailURL string
	logger    *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Adapter {
	if cfg.SearchURL == "" {
		cfg.SearchURL = defaultSearchURL
	}
	if cfg.DetailURL == "" {
		cfg.DetailURL = defaultDetailURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Adapter{
		client:    &http.Client{Timeout: cfg.Timeout},
		searchURL: cfg.SearchURL,
		detailURL: cfg.DetailURL,
		logger:    logger.With("site", "linkedin"),
	}
}

func (a *Adapter) Site() domain.Site { return domain.SiteLinkedIn }

func (a *Adapter) BuildSearchURL(term, _ string, page int) string {
	params := url.Values{}
	params.Set("keywords", term)
	params.Set("start", fmt.Sprintf("%d", (page-1)*10))
	return a.searchURL + "?" + params.Encode()
}

type candidate struct {
	sel *goquery.Selection
}

// FetchPage lists the job cards on one result page.
func (a *Adapter) FetchPage(ctx context.Context, term, location string, page, _ int) ([]scrape.Candidate, error) {
	doc, err := a.get(ctx, a.BuildSearchURL(term, location, page))
	if err != nil {
		return nil, err
	}

	var candidates []scrape.Candidate
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		if li.Find("div.base-card").Length() > 0 {
			candidates = append(candidates, candidate{sel: li})
		}
	})

	a.logger.Debug("fetched search page", "page", page, "candidates", len(candidates))
	return candidates, nil
}

// Extract parses one job card and fetches its detail description.
func (a *Adapter) Extract(ctx context.Context, c scrape.Candidate) *scrape.Record {
	cand, ok := c.(candidate)
	if !ok {
		return nil
	}

	card := cand.sel.Find("div.base-card")
	urn, _ := card.Attr("data-entity-urn")
	if urn == "" {
		a.logger.Warn("job card without entity URN")
		return nil
	}
	parts := strings.Split(urn, ":")
	jobID := parts[len(parts)-1]

	title := strings.TrimSpace(cand.sel.Find("h3.base-search-card__title").Text())
	company := strings.TrimSpace(cand.sel.Find("a.hidden-nested-link").Text())
	if company == "" {
		company = strings.TrimSpace(cand.sel.Find("h4.base-search-card__subtitle").Text())
	}
	location := strings.TrimSpace(cand.sel.Find("span.job-search-card__location").Text())

	jobURL := fmt.Sprintf("%s/%s", a.detailURL, jobID)

	description := a.fetchDescription(ctx, jobURL)
	if description == "" {
		description = "Description not available"
	}

	return &scrape.Record{
		Title:       title,
		Company:     company,
		Location:    location,
		Description: description,
		URL:         jobURL,
	}
}

// Validate enforces the strict policy: every field must be present.
func (a *Adapter) Validate(rec *scrape.Record) bool {
	return strings.TrimSpace(rec.Title) != "" &&
		strings.TrimSpace(rec.Company) != "" &&
		strings.TrimSpace(rec.Location) != "" &&
		strings.TrimSpace(rec.Description) != "" &&
		strings.TrimSpace(rec.URL) != ""
}

func (a *Adapter) fetchDescription(ctx context.Context, jobURL string) string {
	doc, err := a.get(ctx, jobURL)
	if err != nil {
		a.logger.Warn("failed to fetch job description", "url", jobURL, "error", err)
		return ""
	}

	markup := doc.Find("div.description__text div.show-more-less-html__markup")
	if markup.Length() == 0 {
		a.logger.Warn("no description markup found", "url", jobURL)
		return ""
	}

	var parts []string
	markup.Find("p, ul, li").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		return strings.TrimSpace(markup.Text())
	}
	return strings.Join(parts, " ")
}

func (a *Adapter) get(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return doc, nil
}
