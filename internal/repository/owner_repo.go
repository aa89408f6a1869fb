package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"forms-api/internal/domain"
)

// OwnerRepository define el contrato de persistencia para autores.
type OwnerRepository interface {
	Create(ctx context.Context, owner domain.Owner) error
	GetByID(ctx context.Context, id string) (domain.Owner, error)
	GetByEmail(ctx context.Context, email string) (domain.Owner, error)
}

// PgOwnerRepository implementa OwnerRepository usando pgxpool.
type PgOwnerRepository struct {
	pool *pgxpool.Pool
}

func NewPgOwnerRepository(pool *pgxpool.Pool) *PgOwnerRepository {
	return &PgOwnerRepository{pool: pool}
}

func (r *PgOwnerRepository) Create(ctx context.Context, owner domain.Owner) error {
	const query = `
		INSERT INTO owners (id, email, display_name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		owner.ID,
		owner.Email,
		owner.DisplayName,
		owner.PasswordHash,
		owner.CreatedAt,
	)
	return err
}

func (r *PgOwnerRepository) GetByID(ctx context.Context, id string) (domain.Owner, error) {
	const query = `
		SELECT id, email, display_name, password_hash, created_at
		FROM owners
		WHERE id = $1
	`
	var o domain.Owner
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.Email,
		&o.DisplayName,
		&o.PasswordHash,
		&o.CreatedAt,
	)
	return o, err
}

func (r *PgOwnerRepository) GetByEmail(ctx context.Context, email string) (domain.Owner, error) {
	const query = `
		SELECT id, email, display_name, password_hash, created_at
		FROM owners
		WHERE email = $1
	`
	var o domain.Owner
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&o.ID,
		&o.Email,
		&o.DisplayName,
		&o.PasswordHash,
		&o.CreatedAt,
	)
	return o, err
}
