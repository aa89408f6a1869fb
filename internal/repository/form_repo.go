package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"forms-api/internal/domain"
)

// FormRepository define el contrato de persistencia para formularios.
type FormRepository interface {
	Create(ctx context.Context, form domain.Form) error
	GetByID(ctx context.Context, id string) (domain.Form, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Form, error)
	Update(ctx context.Context, form domain.Form) error
	Delete(ctx context.Context, id string) error
}

// PgFormRepository implementa FormRepository usando pgxpool.
type PgFormRepository struct {
	pool *pgxpool.Pool
}

func NewPgFormRepository(pool *pgxpool.Pool) *PgFormRepository {
	return &PgFormRepository{pool: pool}
}

func (r *PgFormRepository) Create(ctx context.Context, form domain.Form) error {
	const query = `
		INSERT INTO forms (id, owner_id, title, description, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		form.ID,
		form.OwnerID,
		form.Title,
		form.Description,
		form.State,
		form.CreatedAt,
		form.UpdatedAt,
	)
	return err
}

func (r *PgFormRepository) GetByID(ctx context.Context, id string) (domain.Form, error) {
	const query = `
		SELECT id, owner_id, title, description, state, created_at, updated_at
		FROM forms
		WHERE id = $1
	`
	var f domain.Form
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&f.ID,
		&f.OwnerID,
		&f.Title,
		&f.Description,
		&f.State,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}

func (r *PgFormRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Form, error) {
	const query = `
		SELECT id, owner_id, title, description, state, created_at, updated_at
		FROM forms
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forms []domain.Form
	for rows.Next() {
		var f domain.Form
		err = rows.Scan(
			&f.ID,
			&f.OwnerID,
			&f.Title,
			&f.Description,
			&f.State,
			&f.CreatedAt,
			&f.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return forms, nil
}

func (r *PgFormRepository) Update(ctx context.Context, form domain.Form) error {
	const query = `
		UPDATE forms
		SET title = $2, description = $3, state = $4, updated_at = $5
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		form.ID,
		form.Title,
		form.Description,
		form.State,
		form.UpdatedAt,
	)
	return err
}

func (r *PgFormRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM forms WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
