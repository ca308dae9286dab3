package repository

import (
	"context"

	"kidsmin-portal/backend/internal/entity/domain"
)

// Repository defines persistence for entities.
type Repository interface {
	GetByLevel(ctx context.Context, level domain.Level) (*domain.Entity, error)
	Create(ctx context.Context, e *domain.Entity) error
}
