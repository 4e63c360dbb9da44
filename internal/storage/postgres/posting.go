package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"jobradar/internal/domain"
)

type RawPostingStore struct {
	db *sqlx.DB
}

func NewRawPostingStore(db *sqlx.DB) *RawPostingStore {
	return &RawPostingStore{db: db}
}

// Upsert inserts a raw posting keyed on (source_site, source_url). An
// already-known URL is left untouched and reported as isNew=false.
func (s *RawPostingStore) Upsert(ctx context.Context, p *domain.RawPosting) (int64, bool, error) {
	exec := GetExecutor(ctx, s.db)

	query := `
		INSERT INTO raw_postings (
			source_site, raw_title, raw_company, raw_location,
			raw_description, source_url, scraped_at, processing_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (source_site, source_url) DO NOTHING
		RETURNING id`

	var id int64
	err := exec.QueryRowxContext(ctx, query,
		p.SourceSite,
		p.RawTitle,
		p.RawCompany,
		p.RawLocation,
		p.RawDescription,
		p.SourceURL,
		p.ScrapedAt,
		p.Status,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		err = exec.QueryRowxContext(ctx,
			"SELECT id FROM raw_postings WHERE source_site = $1 AND source_url = $2",
			p.SourceSite, p.SourceURL,
		).Scan(&id)
		if err != nil {
			return 0, false, err
		}
		return id, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *RawPostingStore) ListByStatus(ctx context.Context, status domain.ProcessingStatus, limit int) ([]*domain.RawPosting, error) {
	query := `
		SELECT id, source_site, raw_title, raw_company, raw_location,
		       raw_description, source_url, scraped_at, processing_status,
		       processing_error
		FROM raw_postings
		WHERE processing_status = $1
		ORDER BY scraped_at, id
		LIMIT $2`

	var postings []*domain.RawPosting
	err := s.db.SelectContext(ctx, &postings, query, status, limit)
	return postings, err
}

func (s *RawPostingStore) MarkProcessed(ctx context.Context, id int64) error {
	exec := GetExecutor(ctx, s.db)
	_, err := exec.ExecContext(ctx, `
		UPDATE raw_postings
		SET processing_status = $1, processing_error = NULL
		WHERE id = $2`,
		domain.StatusProcessed, id,
	)
	return err
}

func (s *RawPostingStore) MarkFailed(ctx context.Context, id int64, reason string) error {
	exec := GetExecutor(ctx, s.db)
	_, err := exec.ExecContext(ctx, `
		UPDATE raw_postings
		SET processing_status = $1, processing_error = $2
		WHERE id = $3`,
		domain.StatusFailed, reason, id,
	)
	return err
}

// ResetFailed flips failed postings back to pending so a reprocess run
// can pick them up.
func (s *RawPostingStore) ResetFailed(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE raw_postings
		SET processing_status = $1, processing_error = NULL
		WHERE processing_status = $2`,
		domain.StatusPending, domain.StatusFailed,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *RawPostingStore) CountByStatus(ctx context.Context, status domain.ProcessingStatus) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM raw_postings WHERE processing_status = $1", status)
	return count, err
}
