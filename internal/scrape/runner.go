package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"jobradar/internal/config"
	"jobradar/internal/domain"
)

// Runner drives one adapter call end to end: session bookkeeping, the
// paginated candidate loop, extract/validate/persist per candidate, and the
// randomized politeness pacing between candidates and pages. The pacing is a
// load-bearing anti-throttling measure, not cosmetics.
type Runner struct {
	adapter  Adapter
	postings PostingStore
	sessions SessionStore
	cfg      config.ScrapeConfig
	logger   *slog.Logger
}

func NewRunner(
	adapter Adapter,
	postings PostingStore,
	sessions SessionStore,
	cfg config.ScrapeConfig,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		adapter:  adapter,
		postings: postings,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger.With("site", string(adapter.Site())),
	}
}

// Scrape collects up to maxPostings validated raw postings for one search,
// recording a single ScrapingSession for the whole call. A candidate's
// failure, persistence included, never aborts the call; only errors
// escaping the whole loop do, and those finalize the session as failed.
// The session always reaches a terminal state with a finish time.
func (r *Runner) Scrape(ctx context.Context, term, location string, maxPostings int) (*domain.ScrapeResult, error) {
	searchTerm := term
	if location != "" {
		searchTerm = fmt.Sprintf("%s in %s", term, location)
	}

	session := &domain.ScrapingSession{
		SourceSite: r.adapter.Site(),
		SearchTerm: searchTerm,
		StartedAt:  time.Now().UTC(),
		Status:     domain.SessionRunning,
	}

	id, err := r.sessions.CreateSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.ID = id

	result := &domain.ScrapeResult{Site: r.adapter.Site(), SearchTerm: searchTerm}

	defer func() {
		now := time.Now().UTC()
		session.FinishedAt = &now
		// The session must be finalized even when ctx was canceled mid-run.
		if err := r.sessions.UpdateSession(context.WithoutCancel(ctx), session); err != nil {
			r.logger.Error("failed to finalize session", "session_id", session.ID, "error", err)
		}
	}()

	if err := r.run(ctx, term, location, maxPostings, session, result); err != nil {
		msg := err.Error()
		session.Status = domain.SessionFailed
		session.ErrorMessage = &msg
		r.logger.Error("scrape failed", "term", term, "error", err)
		return result, err
	}

	session.Status = domain.SessionCompleted
	r.logger.Info("scrape completed",
		"term", term,
		"new", result.NewPostings,
		"existing", result.Existing,
		"failed", result.Failed,
	)
	return result, nil
}

func (r *Runner) run(
	ctx context.Context,
	term, location string,
	maxPostings int,
	session *domain.ScrapingSession,
	result *domain.ScrapeResult,
) error {
	seq := NewSequence(func(ctx context.Context, page, pageSize int) ([]Candidate, error) {
		return r.adapter.FetchPage(ctx, term, location, page, pageSize)
	}, SequenceOptions{
		PageSize:   r.cfg.PageSize,
		MaxPages:   r.cfg.MaxPages,
		MaxRetries: r.cfg.MaxRetries,
		RetryDelay: r.cfg.RetryDelay,
	}, r.logger)

	collected := 0
	for {
		page, ok := seq.Next(ctx)
		if !ok {
			break
		}

		r.logger.Debug("processing page", "candidates", len(page), "collected", collected)

		for _, cand := range page {
			if collected >= maxPostings {
				return nil
			}

			session.JobsAttempted++

			rec := r.adapter.Extract(ctx, cand)
			if rec == nil {
				session.JobsFailed++
				result.Failed++
				continue
			}
			if !r.adapter.Validate(rec) {
				r.logger.Warn("candidate failed validation", "url", rec.URL)
				session.JobsFailed++
				result.Failed++
				continue
			}

			posting := &domain.RawPosting{
				SourceSite:     r.adapter.Site(),
				RawTitle:       rec.Title,
				RawCompany:     rec.Company,
				RawLocation:    rec.Location,
				RawDescription: rec.Description,
				SourceURL:      rec.URL,
				ScrapedAt:      time.Now().UTC(),
				Status:         domain.StatusPending,
			}

			_, isNew, err := r.postings.Upsert(ctx, posting)
			if err != nil {
				r.logger.Error("failed to persist posting", "url", rec.URL, "error", err)
				session.JobsFailed++
				result.Failed++
				continue
			}

			if isNew {
				result.NewPostings++
			} else {
				result.Existing++
			}
			session.JobsSuccessful++
			collected++

			r.politeSleep(ctx, r.cfg.CandidateDelay)
		}

		// Checkpoint counters so monitoring sees progress mid-run.
		if err := r.sessions.UpdateSession(ctx, session); err != nil {
			r.logger.Warn("session checkpoint failed", "error", err)
		}

		r.politeSleep(ctx, r.cfg.PageDelay)
	}

	return nil
}

// politeSleep waits for a randomized duration in [0.5d, 1.5d).
func (r *Runner) politeSleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	jittered := d/2 + rand.N(d)
	select {
	case <-ctx.Done():
	case <-time.After(jittered):
	}
}
