package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"kidsmin-portal/backend/internal/credentials/domain"
	"kidsmin-portal/backend/internal/db"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a credentials repository backed by dbtx
// (a *sql.DB or, during bootstrap, a *sql.Tx).
func NewPostgresRepository(dbtx db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: dbtx}
}

// GetByEmail returns the credentials for the normalized email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Credentials, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, individual_id, email, COALESCE(password_hash, ''), is_active,
		       twofa_enabled, twofa_preferred, created_at, updated_at
		FROM credentials
		WHERE lower(email) = lower($1)
		LIMIT 1`, email)
	return scanCredentials(row)
}

// GetLoginByEmail returns the credentials joined with the individual's display
// fields, or nil if not found.
func (r *PostgresRepository) GetLoginByEmail(ctx context.Context, email string) (*domain.LoginRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT c.id, c.individual_id, c.email, COALESCE(c.password_hash, ''), c.is_active,
		       c.twofa_enabled, c.twofa_preferred, c.created_at, c.updated_at,
		       i.first_name, i.last_name
		FROM credentials c
		JOIN individual i ON i.id = c.individual_id
		WHERE lower(c.email) = lower($1)
		LIMIT 1`, email)

	var rec domain.LoginRecord
	err := row.Scan(&rec.ID, &rec.IndividualID, &rec.Email, &rec.PasswordHash, &rec.IsActive,
		&rec.TwoFAEnabled, &rec.TwoFAPreferred, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.FirstName, &rec.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// GetByIndividual returns the credentials owned by the individual, or nil if none exist.
func (r *PostgresRepository) GetByIndividual(ctx context.Context, individualID string) (*domain.Credentials, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, individual_id, email, COALESCE(password_hash, ''), is_active,
		       twofa_enabled, twofa_preferred, created_at, updated_at
		FROM credentials
		WHERE individual_id = $1
		LIMIT 1`, individualID)
	return scanCredentials(row)
}

// Create inserts an inactive credentials row with no password hash. Returns
// ErrDuplicateEmail if the email is already registered and ErrIndividualNotFound
// if the individual row does not exist.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Credentials) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credentials (id, individual_id, email, is_active, twofa_enabled, twofa_preferred, created_at, updated_at)
		VALUES ($1, $2, $3, false, $4, $5, now(), now())`,
		c.ID, c.IndividualID, c.Email, c.TwoFAEnabled, string(preferredOrDefault(c.TwoFAPreferred)))
	return mapConstraintError(err)
}

// UpdateEmail changes the email on an existing credentials row. Returns
// ErrDuplicateEmail if another row already holds the email.
func (r *PostgresRepository) UpdateEmail(ctx context.Context, id, email string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE credentials SET email = $2, updated_at = now() WHERE id = $1`,
		id, email)
	return mapConstraintError(err)
}

// ActivateWithPassword sets the password hash and flips is_active to true.
// This is the only transition to the active state. Returns sql.ErrNoRows if
// no credentials row matches id.
func (r *PostgresRepository) ActivateWithPassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE credentials
		SET password_hash = $2, is_active = true, updated_at = now()
		WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanCredentials(row *sql.Row) (*domain.Credentials, error) {
	var c domain.Credentials
	err := row.Scan(&c.ID, &c.IndividualID, &c.Email, &c.PasswordHash, &c.IsActive,
		&c.TwoFAEnabled, &c.TwoFAPreferred, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func preferredOrDefault(ch domain.Channel) domain.Channel {
	if ch == "" {
		return domain.ChannelEmail
	}
	return ch
}

// mapConstraintError converts Postgres constraint violations into the
// repository's sentinel errors; other errors pass through unchanged.
func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505": // unique_violation on lower(email) or individual_id
		return ErrDuplicateEmail
	case "23503": // foreign_key_violation on individual_id
		return ErrIndividualNotFound
	default:
		return err
	}
}
