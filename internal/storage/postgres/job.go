package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"jobradar/internal/domain"
)

type CanonicalJobStore struct {
	db *sqlx.DB
}

func NewCanonicalJobStore(db *sqlx.DB) *CanonicalJobStore {
	return &CanonicalJobStore{db: db}
}

// FindCandidates returns jobs whose stored fields contain the given
// values, case-insensitively. Empty values match everything, which keeps
// the filter permissive; the similarity scorer makes the real decision.
func (s *CanonicalJobStore) FindCandidates(ctx context.Context, title, company, location string) ([]*domain.CanonicalJob, error) {
	exec := GetExecutor(ctx, s.db)

	query := `
		SELECT id, title, company, location, description, canonical_url,
		       is_remote, seniority_level, job_type, first_seen, last_seen,
		       created_at, updated_at
		FROM jobs
		WHERE title ILIKE '%' || $1 || '%'
		  AND company ILIKE '%' || $2 || '%'
		  AND location ILIKE '%' || $3 || '%'
		ORDER BY last_seen DESC`

	var jobs []*domain.CanonicalJob
	err := sqlx.SelectContext(ctx, exec, &jobs, query, title, company, location)
	return jobs, err
}

func (s *CanonicalJobStore) Create(ctx context.Context, job *domain.CanonicalJob) (int64, error) {
	exec := GetExecutor(ctx, s.db)

	query := `
		INSERT INTO jobs (
			title, company, location, description, canonical_url,
			is_remote, seniority_level, job_type, first_seen, last_seen
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	var id int64
	err := exec.QueryRowxContext(ctx, query,
		job.Title,
		job.Company,
		job.Location,
		job.Description,
		job.CanonicalURL,
		job.IsRemote,
		job.SeniorityLevel,
		job.JobType,
		job.FirstSeen,
		job.LastSeen,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateLastSeen records when the job was last observed in the wild. The
// value is the posting's scrape time and may move backward when a backlog
// is processed out of order.
func (s *CanonicalJobStore) UpdateLastSeen(ctx context.Context, id int64, seenAt time.Time) error {
	exec := GetExecutor(ctx, s.db)
	_, err := exec.ExecContext(ctx,
		"UPDATE jobs SET last_seen = $1, updated_at = NOW() WHERE id = $2",
		seenAt, id,
	)
	return err
}

func (s *CanonicalJobStore) GetByID(ctx context.Context, id int64) (*domain.CanonicalJob, error) {
	var job domain.CanonicalJob
	query := `
		SELECT id, title, company, location, description, canonical_url,
		       is_remote, seniority_level, job_type, first_seen, last_seen,
		       created_at, updated_at
		FROM jobs
		WHERE id = $1`

	if err := s.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}
