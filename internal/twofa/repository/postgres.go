package repository

import (
	"context"
	"database/sql"
	"errors"

	"kidsmin-portal/backend/internal/db"
	"kidsmin-portal/backend/internal/twofa/domain"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a 2FA challenge repository backed by dbtx.
func NewPostgresRepository(dbtx db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: dbtx}
}

// Upsert creates or replaces the challenge for its credentials id. A replaced
// challenge gets a fresh hash and expiry with attempts reset to zero, so only
// the newest code verifies.
func (r *PostgresRepository) Upsert(ctx context.Context, c *domain.Challenge) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO twofactor_challenge (credentials_id, code_hash, channel, attempts, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, now(), now())
		ON CONFLICT (credentials_id) DO UPDATE SET
			code_hash = EXCLUDED.code_hash,
			channel = EXCLUDED.channel,
			attempts = 0,
			expires_at = EXCLUDED.expires_at,
			updated_at = now()`,
		c.CredentialsID, c.CodeHash, c.Channel, c.ExpiresAt)
	return err
}

// Get returns the challenge for the credentials id, or nil if none exists.
func (r *PostgresRepository) Get(ctx context.Context, credentialsID string) (*domain.Challenge, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT credentials_id, code_hash, channel, attempts, expires_at, created_at, updated_at
		FROM twofactor_challenge
		WHERE credentials_id = $1`, credentialsID)

	var c domain.Challenge
	err := row.Scan(&c.CredentialsID, &c.CodeHash, &c.Channel, &c.Attempts, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// IncrementAttempts bumps the failed-verification counter. Concurrent bumps
// are serialized by the row update; the challenge itself is untouched.
func (r *PostgresRepository) IncrementAttempts(ctx context.Context, credentialsID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE twofactor_challenge
		SET attempts = attempts + 1, updated_at = now()
		WHERE credentials_id = $1`, credentialsID)
	return err
}

// Delete removes the challenge. Called on successful verification (one-time use).
func (r *PostgresRepository) Delete(ctx context.Context, credentialsID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM twofactor_challenge WHERE credentials_id = $1`, credentialsID)
	return err
}
