package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"forms-api/internal/domain"
)

// QuestionRepository define el contrato de persistencia para preguntas.
// GetByID devuelve pgx.ErrNoRows cuando la pregunta fue borrada; los
// consumidores deben tratarlo como referencia colgante, no como fallo.
type QuestionRepository interface {
	Create(ctx context.Context, question domain.Question) error
	GetByID(ctx context.Context, id string) (domain.Question, error)
	ListByFormID(ctx context.Context, formID string) ([]domain.Question, error)
	Delete(ctx context.Context, id string) error
}

// PgQuestionRepository implementa QuestionRepository usando pgxpool.
type PgQuestionRepository struct {
	pool *pgxpool.Pool
}

func NewPgQuestionRepository(pool *pgxpool.Pool) *PgQuestionRepository {
	return &PgQuestionRepository{pool: pool}
}

func (r *PgQuestionRepository) Create(ctx context.Context, question domain.Question) error {
	const query = `
		INSERT INTO questions (id, form_id, question_order, type, text, is_required, extra_settings, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	extraSettings, err := marshalExtraSettings(question.ExtraSettings)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		question.ID,
		question.FormID,
		question.Order,
		question.Type,
		question.Text,
		question.IsRequired,
		extraSettings,
		question.CreatedAt,
	)
	return err
}

func (r *PgQuestionRepository) GetByID(ctx context.Context, id string) (domain.Question, error) {
	const query = `
		SELECT id, form_id, question_order, type, text, is_required, extra_settings, created_at
		FROM questions
		WHERE id = $1
	`
	var q domain.Question
	var extraSettings []byte

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID,
		&q.FormID,
		&q.Order,
		&q.Type,
		&q.Text,
		&q.IsRequired,
		&extraSettings,
		&q.CreatedAt,
	)
	if err != nil {
		return domain.Question{}, err
	}

	q.ExtraSettings, err = unmarshalExtraSettings(extraSettings)
	if err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

func (r *PgQuestionRepository) ListByFormID(ctx context.Context, formID string) ([]domain.Question, error) {
	const query = `
		SELECT id, form_id, question_order, type, text, is_required, extra_settings, created_at
		FROM questions
		WHERE form_id = $1
		ORDER BY question_order ASC
	`
	rows, err := r.pool.Query(ctx, query, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		var extraSettings []byte

		err = rows.Scan(
			&q.ID,
			&q.FormID,
			&q.Order,
			&q.Type,
			&q.Text,
			&q.IsRequired,
			&extraSettings,
			&q.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		q.ExtraSettings, err = unmarshalExtraSettings(extraSettings)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *PgQuestionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM questions WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func marshalExtraSettings(settings map[string]any) ([]byte, error) {
	if len(settings) == 0 {
		return nil, nil
	}
	return json.Marshal(settings)
}

func unmarshalExtraSettings(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var settings map[string]any
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}
