// Package repository implements the composite writes the auth service needs
// beyond single-table repositories, chiefly the first-admin bootstrap
// transaction.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	credsdomain "kidsmin-portal/backend/internal/credentials/domain"
	credsrepo "kidsmin-portal/backend/internal/credentials/repository"
	entitydomain "kidsmin-portal/backend/internal/entity/domain"
	entityrepo "kidsmin-portal/backend/internal/entity/repository"
	inddomain "kidsmin-portal/backend/internal/individual/domain"
	indrepo "kidsmin-portal/backend/internal/individual/repository"
	roledomain "kidsmin-portal/backend/internal/role/domain"
	rolerepo "kidsmin-portal/backend/internal/role/repository"
)

// nationalEntityName is the display name given to the NATIONAL singleton when
// bootstrap has to create it.
const nationalEntityName = "National Office"

// PostgresBootstrapStore runs the first-admin composite write. It needs the
// *sql.DB directly (not DBTX) because it opens its own transaction and hands
// tx-scoped repositories to each step.
type PostgresBootstrapStore struct {
	db *sql.DB
}

// NewPostgresBootstrapStore returns a bootstrap store over db.
func NewPostgresBootstrapStore(db *sql.DB) *PostgresBootstrapStore {
	return &PostgresBootstrapStore{db: db}
}

// CreateFirstAdmin creates, in one transaction: the admin's individual row,
// its inactive credentials, the NATIONAL entity if missing, and the single
// open-ended ADMIN assignment over it. If a concurrent bootstrap commits
// first, the insert hits the unique admin index and the whole transaction
// rolls back with rolerepo.ErrAdminRoleTaken.
func (s *PostgresBootstrapStore) CreateFirstAdmin(ctx context.Context, firstName, lastName, email string) (*credsdomain.Credentials, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin bootstrap tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	individuals := indrepo.NewPostgresRepository(tx)
	ind := &inddomain.Individual{
		ID:        uuid.NewString(),
		FirstName: firstName,
		LastName:  lastName,
		Grade:     "Adult",
		Special:   true,
		CreatedAt: now,
	}
	if err := individuals.Create(ctx, ind); err != nil {
		return nil, fmt.Errorf("create individual: %w", err)
	}

	creds := credsrepo.NewPostgresRepository(tx)
	cred := &credsdomain.Credentials{
		ID:           uuid.NewString(),
		IndividualID: ind.ID,
		Email:        email,
		TwoFAEnabled: true,
	}
	if err := creds.Create(ctx, cred); err != nil {
		return nil, err
	}

	entities := entityrepo.NewPostgresRepository(tx)
	national, err := entities.GetByLevel(ctx, entitydomain.LevelNational)
	if err != nil {
		return nil, fmt.Errorf("lookup national entity: %w", err)
	}
	if national == nil {
		national = &entitydomain.Entity{
			ID:        uuid.NewString(),
			Name:      nationalEntityName,
			Level:     entitydomain.LevelNational,
			CreatedAt: now,
		}
		if err := entities.Create(ctx, national); err != nil {
			return nil, fmt.Errorf("create national entity: %w", err)
		}
	}

	roles := rolerepo.NewPostgresRepository(tx)
	assignment := &roledomain.Assignment{
		ID:           uuid.NewString(),
		IndividualID: ind.ID,
		TargetType:   roledomain.TargetTypeEntity,
		TargetID:     national.ID,
		Role:         roledomain.RoleAdmin,
		Active:       roledomain.OpenEnded(),
		CreatedAt:    now,
	}
	if err := roles.Create(ctx, assignment); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bootstrap tx: %w", err)
	}
	return cred, nil
}
