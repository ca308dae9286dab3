package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"kidsmin-portal/backend/internal/db"
	"kidsmin-portal/backend/internal/role/domain"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a role assignment repository backed by dbtx.
func NewPostgresRepository(dbtx db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: dbtx}
}

// ActiveRolesForIndividual returns the individual's assignments whose active
// field equals the open-ended sentinel, joined with entity display fields.
// Returns an empty slice, never nil, so the JSON encoding is always an array.
func (r *PostgresRepository) ActiveRolesForIndividual(ctx context.Context, individualID string) ([]domain.AssignmentView, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ra.target_id, COALESCE(e.name, ''), COALESCE(e.level, ''),
		       ra.role, ra.active, ra.created_at, ra.updated_at
		FROM role_assignment ra
		LEFT JOIN entity e ON e.id = ra.target_id
		WHERE ra.individual_id = $1 AND ra.active = DATE '9999-12-31'`, individualID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]domain.AssignmentView, 0)
	for rows.Next() {
		var v domain.AssignmentView
		var active time.Time
		if err := rows.Scan(&v.TargetID, &v.TargetName, &v.TargetLevel, &v.Role, &active, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		v.Active = active.Format("2006-01-02")
		views = append(views, v)
	}
	return views, rows.Err()
}

// AdminExists reports whether any ADMIN assignment exists.
func (r *PostgresRepository) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM role_assignment WHERE role = 'ADMIN')`).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Create persists the assignment. Inserting a second ADMIN assignment fails
// with ErrAdminRoleTaken via the partial unique index.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Assignment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO role_assignment (id, individual_id, target_type, target_id, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		a.ID, a.IndividualID, string(a.TargetType), a.TargetID, string(a.Role), a.Active, a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAdminRoleTaken
		}
		return err
	}
	return nil
}
