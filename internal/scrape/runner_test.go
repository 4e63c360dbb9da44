package scrape

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobradar/internal/config"
	"jobradar/internal/domain"
)

// fakeAdapter serves a fixed set of pages of Records and extracts them
// verbatim. A nil Record in a page simulates a parse failure.
type fakeAdapter struct {
	pages     [][]*Record
	strict    bool
	fetchErr  error
	fetchErrs int // fail this many fetches before serving pages
}

func (f *fakeAdapter) Site() domain.Site { return domain.SiteLinkedIn }

func (f *fakeAdapter) BuildSearchURL(term, _ string, page int) string {
	return fmt.Sprintf("https://example.com/search?q=%s&page=%d", term, page)
}

func (f *fakeAdapter) FetchPage(_ context.Context, _, _ string, page, _ int) ([]Candidate, error) {
	if f.fetchErrs > 0 {
		f.fetchErrs--
		return nil, f.fetchErr
	}
	if page > len(f.pages) {
		return nil, nil
	}
	out := make([]Candidate, len(f.pages[page-1]))
	for i, rec := range f.pages[page-1] {
		out[i] = rec
	}
	return out, nil
}

func (f *fakeAdapter) Extract(_ context.Context, c Candidate) *Record {
	rec, _ := c.(*Record)
	return rec
}

func (f *fakeAdapter) Validate(rec *Record) bool {
	if f.strict && rec.Company == "" {
		return false
	}
	return rec.Title != "" && rec.URL != ""
}

type fakePostingStore struct {
	seen       map[string]int64
	upserts    int
	upsertErrs map[string]error // per-URL failures
}

func newFakePostingStore() *fakePostingStore {
	return &fakePostingStore{seen: map[string]int64{}}
}

func (s *fakePostingStore) Upsert(_ context.Context, p *domain.RawPosting) (int64, bool, error) {
	if err := s.upsertErrs[p.SourceURL]; err != nil {
		return 0, false, err
	}
	s.upserts++
	key := string(p.SourceSite) + "|" + p.SourceURL
	if id, ok := s.seen[key]; ok {
		return id, false, nil
	}
	id := int64(len(s.seen) + 1)
	s.seen[key] = id
	return id, true, nil
}

type fakeSessionStore struct {
	created *domain.ScrapingSession
	updates []domain.ScrapingSession
}

func (s *fakeSessionStore) CreateSession(_ context.Context, sess *domain.ScrapingSession) (int64, error) {
	s.created = sess
	return 42, nil
}

func (s *fakeSessionStore) UpdateSession(_ context.Context, sess *domain.ScrapingSession) error {
	s.updates = append(s.updates, *sess)
	return nil
}

func (s *fakeSessionStore) last(t *testing.T) domain.ScrapingSession {
	t.Helper()
	require.NotEmpty(t, s.updates)
	return s.updates[len(s.updates)-1]
}

func testScrapeConfig() config.ScrapeConfig {
	return config.ScrapeConfig{
		PageSize:   10,
		MaxPages:   10,
		MaxRetries: 2,
	}
}

func rec(n int) *Record {
	return &Record{
		Title: fmt.Sprintf("Engineer %d", n),
		URL:   fmt.Sprintf("https://example.com/jobs/%d", n),
	}
}

func TestRunner_Scrape(t *testing.T) {
	adapter := &fakeAdapter{pages: [][]*Record{{rec(1), rec(2)}, {rec(3)}}}
	postings := newFakePostingStore()
	sessions := &fakeSessionStore{}
	runner := NewRunner(adapter, postings, sessions, testScrapeConfig(), discardLogger())

	result, err := runner.Scrape(context.Background(), "go developer", "", 20)
	require.NoError(t, err)

	assert.Equal(t, 3, result.NewPostings)
	assert.Zero(t, result.Existing)
	assert.Zero(t, result.Failed)

	final := sessions.last(t)
	assert.Equal(t, int64(42), final.ID)
	assert.Equal(t, domain.SessionCompleted, final.Status)
	assert.Equal(t, 3, final.JobsAttempted)
	assert.Equal(t, 3, final.JobsSuccessful)
	require.NotNil(t, final.FinishedAt)
}

func TestRunner_Scrape_SearchTermIncludesLocation(t *testing.T) {
	adapter := &fakeAdapter{pages: [][]*Record{{rec(1)}}}
	sessions := &fakeSessionStore{}
	runner := NewRunner(adapter, newFakePostingStore(), sessions, testScrapeConfig(), discardLogger())

	result, err := runner.Scrape(context.Background(), "go developer", "Austin", 20)
	require.NoError(t, err)
	assert.Equal(t, "go developer in Austin", result.SearchTerm)
	assert.Equal(t, "go developer in Austin", sessions.created.SearchTerm)
}

func TestRunner_Scrape_IdempotentReingest(t *testing.T) {
	postings := newFakePostingStore()
	sessions := &fakeSessionStore{}
	cfg := testScrapeConfig()

	first := NewRunner(&fakeAdapter{pages: [][]*Record{{rec(1), rec(2)}}}, postings, sessions, cfg, discardLogger())
	_, err := first.Scrape(context.Background(), "go", "", 20)
	require.NoError(t, err)

	// Same postings plus one new: the repeats count as existing.
	second := NewRunner(&fakeAdapter{pages: [][]*Record{{rec(1), rec(2), rec(3)}}}, postings, sessions, cfg, discardLogger())
	result, err := second.Scrape(context.Background(), "go", "", 20)
	require.NoError(t, err)

	assert.Equal(t, 1, result.NewPostings)
	assert.Equal(t, 2, result.Existing)
	assert.Len(t, postings.seen, 3)
}

func TestRunner_Scrape_InvalidCandidatesCounted(t *testing.T) {
	adapter := &fakeAdapter{
		strict: true,
		pages: [][]*Record{{
			rec(1),
			nil, // parse failure
			{Title: "No Company", URL: "https://example.com/jobs/9"},
		}},
	}
	sessions := &fakeSessionStore{}
	runner := NewRunner(adapter, newFakePostingStore(), sessions, testScrapeConfig(), discardLogger())

	result, err := runner.Scrape(context.Background(), "go", "", 20)
	require.NoError(t, err)

	assert.Equal(t, 1, result.NewPostings)
	assert.Equal(t, 2, result.Failed)

	final := sessions.last(t)
	assert.Equal(t, 3, final.JobsAttempted)
	assert.Equal(t, 2, final.JobsFailed)
	assert.Equal(t, domain.SessionCompleted, final.Status)
}

func TestRunner_Scrape_MaxPostings(t *testing.T) {
	adapter := &fakeAdapter{pages: [][]*Record{{rec(1), rec(2), rec(3), rec(4)}}}
	postings := newFakePostingStore()
	runner := NewRunner(adapter, postings, &fakeSessionStore{}, testScrapeConfig(), discardLogger())

	result, err := runner.Scrape(context.Background(), "go", "", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.NewPostings)
	assert.Equal(t, 2, postings.upserts)
}

func TestRunner_Scrape_PersistErrorCountsCandidateFailed(t *testing.T) {
	adapter := &fakeAdapter{pages: [][]*Record{{rec(1), rec(2)}}}
	postings := newFakePostingStore()
	postings.upsertErrs = map[string]error{rec(1).URL: errors.New("connection refused")}
	sessions := &fakeSessionStore{}
	runner := NewRunner(adapter, postings, sessions, testScrapeConfig(), discardLogger())

	result, err := runner.Scrape(context.Background(), "go", "", 20)
	require.NoError(t, err, "a persistence failure is contained like any other candidate failure")

	assert.Equal(t, 1, result.NewPostings)
	assert.Equal(t, 1, result.Failed)

	final := sessions.last(t)
	assert.Equal(t, domain.SessionCompleted, final.Status)
	assert.Equal(t, 2, final.JobsAttempted)
	assert.Equal(t, 1, final.JobsSuccessful)
	assert.Equal(t, 1, final.JobsFailed)
	require.NotNil(t, final.FinishedAt)
}

func TestRunner_Scrape_RetriesExhaustedCompletesEmpty(t *testing.T) {
	// Every fetch fails: pagination gives up, but the session completes
	// with zero postings rather than failing.
	adapter := &fakeAdapter{fetchErr: errors.New("blocked"), fetchErrs: 100}
	sessions := &fakeSessionStore{}
	runner := NewRunner(adapter, newFakePostingStore(), sessions, testScrapeConfig(), discardLogger())

	result, err := runner.Scrape(context.Background(), "go", "", 20)
	require.NoError(t, err)
	assert.Zero(t, result.NewPostings)
	assert.Equal(t, domain.SessionCompleted, sessions.last(t).Status)
}
