package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"forms-api/internal/domain"
)

// AnswerRepository define el contrato de persistencia para respuestas.
type AnswerRepository interface {
	CreateBatch(ctx context.Context, answers []domain.Answer) error
	ListBySubmissionID(ctx context.Context, submissionID string) ([]domain.Answer, error)
}

// PgAnswerRepository implementa AnswerRepository usando pgxpool.
type PgAnswerRepository struct {
	pool *pgxpool.Pool
}

func NewPgAnswerRepository(pool *pgxpool.Pool) *PgAnswerRepository {
	return &PgAnswerRepository{pool: pool}
}

func (r *PgAnswerRepository) CreateBatch(ctx context.Context, answers []domain.Answer) error {
	if len(answers) == 0 {
		return nil
	}

	const query = `
		INSERT INTO answers (id, submission_id, question_id, text)
		VALUES ($1, $2, $3, $4)
	`

	batch := &pgx.Batch{}
	for _, answer := range answers {
		batch.Queue(query,
			answer.ID,
			answer.SubmissionID,
			answer.QuestionID,
			answer.Text,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range answers {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *PgAnswerRepository) ListBySubmissionID(ctx context.Context, submissionID string) ([]domain.Answer, error) {
	const query = `
		SELECT id, submission_id, question_id, text
		FROM answers
		WHERE submission_id = $1
		ORDER BY id ASC
	`
	rows, err := r.pool.Query(ctx, query, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []domain.Answer
	for rows.Next() {
		var a domain.Answer
		err = rows.Scan(
			&a.ID,
			&a.SubmissionID,
			&a.QuestionID,
			&a.Text,
		)
		if err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return answers, nil
}
