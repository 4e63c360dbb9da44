package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"jobradar/internal/domain"
)

type JobMappingStore struct {
	db *sqlx.DB
}

func NewJobMappingStore(db *sqlx.DB) *JobMappingStore {
	return &JobMappingStore{db: db}
}

func (s *JobMappingStore) Create(ctx context.Context, m *domain.JobMapping) error {
	exec := GetExecutor(ctx, s.db)
	_, err := exec.ExecContext(ctx, `
		INSERT INTO job_mappings (raw_posting_id, canonical_job_id, similarity_score, is_manual)
		VALUES ($1, $2, $3, $4)`,
		m.RawPostingID,
		m.CanonicalJobID,
		m.SimilarityScore,
		m.IsManual,
	)
	return err
}

// ListByJob returns the provenance edges for one canonical job.
func (s *JobMappingStore) ListByJob(ctx context.Context, jobID int64) ([]*domain.JobMapping, error) {
	query := `
		SELECT id, raw_posting_id, canonical_job_id, similarity_score, is_manual, created_at
		FROM job_mappings
		WHERE canonical_job_id = $1
		ORDER BY created_at`

	var mappings []*domain.JobMapping
	err := s.db.SelectContext(ctx, &mappings, query, jobID)
	return mappings, err
}
