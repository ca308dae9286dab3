package repository

import (
	"context"

	"kidsmin-portal/backend/internal/twofa/domain"
)

// Repository defines persistence for 2FA challenges. The table holds at most
// one row per credentials id; Upsert replaces any prior challenge.
type Repository interface {
	Upsert(ctx context.Context, c *domain.Challenge) error
	Get(ctx context.Context, credentialsID string) (*domain.Challenge, error)
	IncrementAttempts(ctx context.Context, credentialsID string) error
	Delete(ctx context.Context, credentialsID string) error
}
