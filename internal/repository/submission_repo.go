package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"forms-api/internal/domain"
)

// SubmissionRepository define el contrato de persistencia para envios.
type SubmissionRepository interface {
	Create(ctx context.Context, submission domain.Submission) error
	GetByID(ctx context.Context, id string) (domain.Submission, error)
	ListByFormID(ctx context.Context, formID string) ([]domain.Submission, error)
}

// PgSubmissionRepository implementa SubmissionRepository usando pgxpool.
type PgSubmissionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSubmissionRepository(pool *pgxpool.Pool) *PgSubmissionRepository {
	return &PgSubmissionRepository{pool: pool}
}

func (r *PgSubmissionRepository) Create(ctx context.Context, submission domain.Submission) error {
	const query = `
		INSERT INTO submissions (id, form_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query,
		submission.ID,
		submission.FormID,
		submission.CreatedAt,
	)
	return err
}

func (r *PgSubmissionRepository) GetByID(ctx context.Context, id string) (domain.Submission, error) {
	const query = `
		SELECT id, form_id, created_at
		FROM submissions
		WHERE id = $1
	`
	var s domain.Submission
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.FormID,
		&s.CreatedAt,
	)
	return s, err
}

func (r *PgSubmissionRepository) ListByFormID(ctx context.Context, formID string) ([]domain.Submission, error) {
	const query = `
		SELECT id, form_id, created_at
		FROM submissions
		WHERE form_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []domain.Submission
	for rows.Next() {
		var s domain.Submission
		err = rows.Scan(
			&s.ID,
			&s.FormID,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return submissions, nil
}
