package repository

import (
	"context"

	"kidsmin-portal/backend/internal/audit/domain"
)

// Repository persists audit entries. Inserts only; the log is append-only.
type Repository interface {
	Create(ctx context.Context, e *domain.Entry) error
}
