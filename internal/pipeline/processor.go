package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"jobradar/internal/domain"
)

// batchSize bounds one ListByStatus round-trip; draining loops until the
// store runs dry.
const batchSize = 100

// Processor drains pending raw postings and reconciles each one against
// the canonical job catalog. Each posting is handled in its own
// transaction, so one broken posting never poisons the batch.
type Processor struct {
	postings   PostingStore
	jobs       JobStore
	mappings   MappingStore
	tx         TransactionManager
	publisher  Publisher
	cleaner    *Cleaner
	normalizer *Normalizer
	matcher    *Matcher
	logger     *slog.Logger
}

func NewProcessor(
	postings PostingStore,
	jobs JobStore,
	mappings MappingStore,
	tx TransactionManager,
	publisher Publisher,
	matcher *Matcher,
	logger *slog.Logger,
) *Processor {
	return &Processor{
		postings:   postings,
		jobs:       jobs,
		mappings:   mappings,
		tx:         tx,
		publisher:  publisher,
		cleaner:    NewCleaner(logger),
		normalizer: NewNormalizer(),
		matcher:    matcher,
		logger:     logger,
	}
}

// Process drains every pending posting and reports aggregate counts.
// It returns an error only when listing pending work fails; per-posting
// failures are recorded on the posting and counted in the stats.
func (p *Processor) Process(ctx context.Context) (*domain.PipelineStats, error) {
	stats := &domain.PipelineStats{}

	for {
		batch, err := p.postings.ListByStatus(ctx, domain.StatusPending, batchSize)
		if err != nil {
			return stats, fmt.Errorf("list pending postings: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		for _, raw := range batch {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			p.processOne(ctx, raw, stats)
		}
	}

	p.logger.Info("processing finished",
		"processed", stats.Processed,
		"failed", stats.Failed,
		"duplicates", stats.DuplicatesFound,
		"new_jobs", stats.NewCanonicalJobs,
	)
	return stats, nil
}

// ReprocessFailed resets failed postings back to pending, then drains.
func (p *Processor) ReprocessFailed(ctx context.Context) (*domain.PipelineStats, error) {
	reset, err := p.postings.ResetFailed(ctx)
	if err != nil {
		return nil, fmt.Errorf("reset failed postings: %w", err)
	}
	p.logger.Info("reset failed postings", "count", reset)
	return p.Process(ctx)
}

func (p *Processor) processOne(ctx context.Context, raw *domain.RawPosting, stats *domain.PipelineStats) {
	cleaned, err := p.cleaner.Clean(raw)
	if err != nil {
		p.logger.Warn("posting failed cleaning", "posting_id", raw.ID, "error", err)
		p.fail(ctx, raw.ID, err.Error(), stats)
		return
	}

	norm := p.normalizer.Normalize(cleaned)

	var event *domain.JobEvent
	txErr := p.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		event, err = p.reconcile(ctx, raw, norm)
		return err
	})
	if txErr != nil {
		p.logger.Error("posting reconciliation failed", "posting_id", raw.ID, "error", txErr)
		p.fail(ctx, raw.ID, txErr.Error(), stats)
		return
	}

	if event.Action == domain.JobCreated {
		stats.NewCanonicalJobs++
	} else {
		stats.DuplicatesFound++
	}
	stats.Processed++

	p.publish(ctx, event)
}

// reconcile matches the posting against existing canonical jobs, creating
// a new one when nothing scores above the threshold, and records the
// mapping. Runs inside the posting's transaction.
func (p *Processor) reconcile(ctx context.Context, raw *domain.RawPosting, norm *NormalizedPosting) (*domain.JobEvent, error) {
	candidates, err := p.jobs.FindCandidates(ctx, norm.Title, norm.Company, norm.Location)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	mapping := &domain.JobMapping{RawPostingID: raw.ID}
	event := &domain.JobEvent{RawPostingID: raw.ID, Timestamp: time.Now().UTC()}

	if match, score, ok := p.matcher.BestMatch(norm.Fields(), candidates); ok {
		// last_seen tracks the posting's scrape time, which may predate
		// the stored value when backlog is processed out of order.
		if err := p.jobs.UpdateLastSeen(ctx, match.ID, raw.ScrapedAt); err != nil {
			return nil, fmt.Errorf("update last seen: %w", err)
		}
		mapping.CanonicalJobID = match.ID
		mapping.SimilarityScore = score
		event.Action = domain.JobMatched
		event.Job = match
		event.SimilarityScore = score
	} else {
		now := time.Now().UTC()
		job := &domain.CanonicalJob{
			Title:          norm.Title,
			Company:        norm.Company,
			Location:       norm.Location,
			Description:    norm.Description,
			CanonicalURL:   raw.SourceURL,
			IsRemote:       norm.IsRemote,
			SeniorityLevel: norm.SeniorityLevel,
			JobType:        norm.JobType,
			FirstSeen:      now,
			LastSeen:       now,
		}
		id, err := p.jobs.Create(ctx, job)
		if err != nil {
			return nil, fmt.Errorf("create canonical job: %w", err)
		}
		job.ID = id
		mapping.CanonicalJobID = id
		mapping.SimilarityScore = 1.0
		event.Action = domain.JobCreated
		event.Job = job
		event.SimilarityScore = 1.0
	}

	if err := p.mappings.Create(ctx, mapping); err != nil {
		return nil, fmt.Errorf("create mapping: %w", err)
	}
	if err := p.postings.MarkProcessed(ctx, raw.ID); err != nil {
		return nil, fmt.Errorf("mark processed: %w", err)
	}
	return event, nil
}

func (p *Processor) fail(ctx context.Context, id int64, reason string, stats *domain.PipelineStats) {
	if err := p.postings.MarkFailed(ctx, id, reason); err != nil {
		p.logger.Error("failed to mark posting failed", "posting_id", id, "error", err)
	}
	stats.Failed++
}

// publish is best-effort: a missing or broken broker never fails a
// posting that is already committed.
func (p *Processor) publish(ctx context.Context, event *domain.JobEvent) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishJobEvent(ctx, event); err != nil {
		p.logger.Warn("failed to publish job event",
			"action", event.Action,
			"posting_id", event.RawPostingID,
			"error", err,
		)
	}
}
