package repository

import (
	"context"

	"github.com/google/uuid"

	"kidsmin-portal/backend/internal/audit/domain"
	"kidsmin-portal/backend/internal/db"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns an audit log repository backed by dbtx.
func NewPostgresRepository(dbtx db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: dbtx}
}

// Create appends an audit entry. The id is generated here when absent.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, actor, action, resource, ip, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`,
		e.ID, e.Actor, e.Action, e.Resource, e.IP, e.Metadata)
	return err
}
