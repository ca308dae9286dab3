package repository

import (
	"context"

	"kidsmin-portal/backend/internal/individual/domain"
)

// Repository defines persistence for individuals.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Individual, error)
	Create(ctx context.Context, i *domain.Individual) error
}
