package repository

import (
	"context"
	"errors"

	"kidsmin-portal/backend/internal/credentials/domain"
)

// Sentinel errors surfaced from store constraint violations so callers can
// react distinctly from generic failures.
var (
	// ErrDuplicateEmail is returned when the email is already registered to
	// another individual's credentials (unique index on lower(email)).
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrIndividualNotFound is returned when the referenced individual row
	// does not exist (foreign key violation).
	ErrIndividualNotFound = errors.New("individual not found")
)

// Repository defines persistence for credentials. Emails must be normalized
// (domain.NormalizeEmail) before any call.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Credentials, error)
	GetLoginByEmail(ctx context.Context, email string) (*domain.LoginRecord, error)
	GetByIndividual(ctx context.Context, individualID string) (*domain.Credentials, error)
	Create(ctx context.Context, c *domain.Credentials) error
	UpdateEmail(ctx context.Context, id, email string) error
	ActivateWithPassword(ctx context.Context, id, passwordHash string) error
}
