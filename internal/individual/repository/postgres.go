package repository

import (
	"context"
	"database/sql"
	"errors"

	"kidsmin-portal/backend/internal/db"
	"kidsmin-portal/backend/internal/individual/domain"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns an individual repository backed by dbtx
// (a *sql.DB or, during bootstrap, a *sql.Tx).
func NewPostgresRepository(dbtx db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: dbtx}
}

// GetByID returns the individual for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Individual, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, grade, special, created_at
		FROM individual
		WHERE id = $1`, id)

	var i domain.Individual
	if err := row.Scan(&i.ID, &i.FirstName, &i.LastName, &i.Grade, &i.Special, &i.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &i, nil
}

// Create persists the individual. The individual must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, i *domain.Individual) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO individual (id, first_name, last_name, grade, special, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		i.ID, i.FirstName, i.LastName, i.Grade, i.Special, i.CreatedAt)
	return err
}
