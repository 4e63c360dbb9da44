package scrape

import (
	"context"
	"log/slog"
	"time"
)

// FetchPageFunc fetches a single page of records. Pages are numbered from 1.
type FetchPageFunc[T any] func(ctx context.Context, page, pageSize int) ([]T, error)

// StopReason explains why a Sequence stopped producing pages.
type StopReason int

const (
	StopNone StopReason = iota
	StopExhausted
	StopEmptyPage
	StopPageLimit
	StopRecordLimit
	StopRetriesExhausted
	StopCanceled
)

func (r StopReason) String() string {
	switch r {
	case StopExhausted:
		return "exhausted"
	case StopEmptyPage:
		return "empty page"
	case StopPageLimit:
		return "page limit"
	case StopRecordLimit:
		return "record limit"
	case StopRetriesExhausted:
		return "retries exhausted"
	case StopCanceled:
		return "canceled"
	}
	return "none"
}

// SequenceOptions bounds a paginated fetch.
type SequenceOptions struct {
	PageSize   int
	MaxPages   int // 0 = unlimited
	MaxRecords int // 0 = unlimited
	MaxRetries int
	RetryDelay time.Duration
}

// Sequence turns a single-page fetch into a lazy, finite, forward-only
// stream of pages. Each page's fetch is retried up to MaxRetries times with
// a fixed delay; exhausting the retries ends the sequence rather than
// surfacing an error, so a short result can mean either "no more data" or
// "could not fetch more". There is no retry across pages.
type Sequence[T any] struct {
	fetch  FetchPageFunc[T]
	opts   SequenceOptions
	logger *slog.Logger

	page    int
	pages   int
	records int
	reason  StopReason
	done    bool
}

func NewSequence[T any](fetch FetchPageFunc[T], opts SequenceOptions, logger *slog.Logger) *Sequence[T] {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	return &Sequence[T]{
		fetch:  fetch,
		opts:   opts,
		logger: logger,
		page:   1,
	}
}

// Next returns the next page, or false when the sequence has ended.
// Check Reason to learn why it ended.
func (s *Sequence[T]) Next(ctx context.Context) ([]T, bool) {
	if s.done {
		return nil, false
	}

	page, ok := s.fetchWithRetry(ctx)
	if !ok {
		s.done = true
		return nil, false
	}

	if page == nil {
		s.stop(StopExhausted)
		return nil, false
	}
	if len(page) == 0 {
		s.stop(StopEmptyPage)
		return nil, false
	}

	s.pages++
	s.records += len(page)

	switch {
	case s.opts.MaxRecords > 0 && s.records >= s.opts.MaxRecords:
		s.stop(StopRecordLimit)
	case s.opts.MaxPages > 0 && s.pages >= s.opts.MaxPages:
		s.stop(StopPageLimit)
	default:
		s.page++
	}

	return page, true
}

func (s *Sequence[T]) fetchWithRetry(ctx context.Context) ([]T, bool) {
	var lastErr error
	for attempt := 1; attempt <= s.opts.MaxRetries; attempt++ {
		page, err := s.fetch(ctx, s.page, s.opts.PageSize)
		if err == nil {
			return page, true
		}
		lastErr = err

		s.logger.Warn("page fetch failed",
			"page", s.page,
			"attempt", attempt,
			"max_retries", s.opts.MaxRetries,
			"error", err,
		)

		if attempt == s.opts.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			s.reason = StopCanceled
			return nil, false
		case <-time.After(s.opts.RetryDelay):
		}
	}

	s.logger.Error("giving up on page after retries",
		"page", s.page,
		"retries", s.opts.MaxRetries,
		"error", lastErr,
	)
	s.reason = StopRetriesExhausted
	return nil, false
}

func (s *Sequence[T]) stop(reason StopReason) {
	s.done = true
	s.reason = reason
	s.logger.Debug("pagination stopped",
		"reason", reason.String(),
		"pages", s.pages,
		"records", s.records,
	)
}

// Reason reports why the sequence ended; StopNone while still producing.
func (s *Sequence[T]) Reason() StopReason { return s.reason }

// Pages reports how many pages were produced so far.
func (s *Sequence[T]) Pages() int { return s.pages }

// Records reports how many records were produced so far.
func (s *Sequence[T]) Records() int { return s.records }
