package repository

import (
	"context"
	"errors"

	"kidsmin-portal/backend/internal/role/domain"
)

// ErrAdminRoleTaken is returned when inserting an ADMIN assignment while one
// already exists (unique partial index role_assignment_single_admin). It is
// how a losing concurrent bootstrap transaction fails at commit time.
var ErrAdminRoleTaken = errors.New("admin role already assigned")

// Repository defines persistence for role assignments.
type Repository interface {
	ActiveRolesForIndividual(ctx context.Context, individualID string) ([]domain.AssignmentView, error)
	AdminExists(ctx context.Context) (bool, error)
	Create(ctx context.Context, a *domain.Assignment) error
}
