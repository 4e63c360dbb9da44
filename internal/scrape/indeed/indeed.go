// Package indeed fetches postings from Indeed's search result pages.
package indeed

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
	defaultBaseURL = "https://www.indeed.com"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds Indeed adapter configuration. BaseURL is overridable for
// tests against a local server.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Adapter implements scrape.Adapter against Indeed. Search results carry
// tracking redirect URLs; Extract resolves the job key so duplicates of
// the same posting can still be spotted by the clean detail URL it visits.
type Adapter struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Adapter{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger.With("site", "indeed"),
	}
}

func (a *Adapter) Site() domain.Site { return domain.SiteIndeed }

func (a *Adapter) BuildSearchURL(term, location string, page int) string {
	params := url.Values{}
	params.Set("q", term)
	if location != "" {
		params.Set("l", location)
	}
	params.Set("radius", "50")
	params.Set("start", fmt.Sprintf("%d", (page-1)*10))
	return a.baseURL + "/jobs?" + params.Encode()
}

type candidate struct {
	sel *goquery.Selection
}

func (a *Adapter) FetchPage(ctx context.Context, term, location string, page, _ int) ([]scrape.Candidate, error) {
	doc, err := a.get(ctx, a.BuildSearchURL(term, location, page))
	if err != nil {
		return nil, err
	}

	var candidates []scrape.Candidate
	doc.Find(".job_seen_beacon").Each(func(_ int, s *goquery.Selection) {
		candidates = append(candidates, candidate{sel: s})
	})

	a.logger.Debug("fetched search page", "page", page, "candidates", len(candidates))
	return candidates, nil
}

// Extract parses one job card. The card link is a tracking redirect; when
// it carries a jk job key the description is fetched from the canonical
// viewjob page instead.
func (a *Adapter) Extract(ctx context.Context, c scrape.Candidate) *scrape.Record {
	cand, ok := c.(candidate)
	if !ok {
		return nil
	}

	href, _ := cand.sel.Find("a").First().Attr("href")
	if href == "" {
		a.logger.Warn("job card without link")
		return nil
	}
	sourceURL := a.absoluteURL(href)

	detailURL := sourceURL
	if jk := jobKey(sourceURL); jk != "" {
		detailURL = a.baseURL + "/viewjob?jk=" + jk
	}

	title := strings.TrimSpace(cand.sel.Find(".jobTitle").Text())
	company := strings.TrimSpace(cand.sel.Find(`[data-testid="company-name"]`).Text())
	location := strings.TrimSpace(cand.sel.Find(`[data-testid="text-location"]`).Text())

	description := a.fetchDescription(ctx, detailURL)
	if description == "" {
		description = "Description not available."
	}

	return &scrape.Record{
		Title:       title,
		Company:     company,
		Location:    location,
		Description: description,
		URL:         sourceURL,
	}
}

// Validate enforces the lenient policy: a title and a URL are enough,
// company and location are frequently withheld from search results.
func (a *Adapter) Validate(rec *scrape.Record) bool {
	return strings.TrimSpace(rec.Title) != "" && strings.TrimSpace(rec.URL) != ""
}

func (a *Adapter) fetchDescription(ctx context.Context, jobURL string) string {
	doc, err := a.get(ctx, jobURL)
	if err != nil {
		a.logger.Warn("failed to fetch job description", "url", jobURL, "error", err)
		return ""
	}
	return strings.TrimSpace(doc.Find("#jobDescriptionText").Text())
}

func (a *Adapter) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return a.baseURL + href
}

// jobKey pulls the jk parameter out of a search result URL.
func jobKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("jk")
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
