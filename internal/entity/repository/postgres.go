package repository

import (
	"context"
	"database/sql"
	"errors"

	"kidsmin-portal/backend/internal/db"
	"kidsmin-portal/backend/internal/entity/domain"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns an entity repository backed by dbtx.
func NewPostgresRepository(dbtx db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: dbtx}
}

// GetByLevel returns the first entity at the given level, or nil if none exists.
// Used to locate the NATIONAL singleton.
func (r *PostgresRepository) GetByLevel(ctx context.Context, level domain.Level) (*domain.Entity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, level, created_at
		FROM entity
		WHERE level = $1
		LIMIT 1`, string(level))

	var e domain.Entity
	if err := row.Scan(&e.ID, &e.Name, &e.Level, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Create persists the entity. The entity must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Entity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO entity (id, name, level, created_at)
		VALUES ($1, $2, $3, $4)`,
		e.ID, e.Name, string(e.Level), e.CreatedAt)
	return err
}
