package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"jobradar/internal/domain"
)

type ScrapingSessionStore struct {
	db *sqlx.DB
}

func NewScrapingSessionStore(db *sqlx.DB) *ScrapingSessionStore {
	return &ScrapingSessionStore{db: db}
}

func (s *ScrapingSessionStore) CreateSession(ctx context.Context, sess *domain.ScrapingSession) (int64, error) {
	query := `
		INSERT INTO scraping_sessions (source_site, search_term, started_at, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int64
	err := s.db.QueryRowxContext(ctx, query,
		sess.SourceSite,
		sess.SearchTerm,
		sess.StartedAt,
		sess.Status,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *ScrapingSessionStore) UpdateSession(ctx context.Context, sess *domain.ScrapingSession) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE scraping_sessions
		SET finished_at = $1,
		    jobs_attempted = $2,
		    jobs_successful = $3,
		    jobs_failed = $4,
		    status = $5,
		    error_message = $6
		WHERE id = $7`,
		sess.FinishedAt,
		sess.JobsAttempted,
		sess.JobsSuccessful,
		sess.JobsFailed,
		sess.Status,
		sess.ErrorMessage,
		sess.ID,
	)
	return err
}

func (s *ScrapingSessionStore) ListSince(ctx context.Context, since time.Time) ([]*domain.ScrapingSession, error) {
	query := `
		SELECT id, source_site, search_term, started_at, finished_at,
		       jobs_attempted, jobs_successful, jobs_failed, status, error_message
		FROM scraping_sessions
		WHERE started_at >= $1
		ORDER BY started_at DESC`

	var sessions []*domain.ScrapingSession
	err := s.db.SelectContext(ctx, &sessions, query, since)
	return sessions, err
}
