// Command seed populates a development database with a small entity hierarchy
// and a sample individual. Safe to run repeatedly; existing rows are kept.
package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kidsmin-portal/backend/internal/config"
	credsdomain "kidsmin-portal/backend/internal/credentials/domain"
	credsrepo "kidsmin-portal/backend/internal/credentials/repository"
	"kidsmin-portal/backend/internal/db"
	entitydomain "kidsmin-portal/backend/internal/entity/domain"
	entityrepo "kidsmin-portal/backend/internal/entity/repository"
	inddomain "kidsmin-portal/backend/internal/individual/domain"
	indrepo "kidsmin-portal/backend/internal/individual/repository"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer conn.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	entities := entityrepo.NewPostgresRepository(conn)
	levels := []struct {
		level entitydomain.Level
		name  string
	}{
		{entitydomain.LevelNational, "National Office"},
		{entitydomain.LevelRegional, "North Region"},
		{entitydomain.LevelDistrict, "Central District"},
		{entitydomain.LevelChurch, "First Community Church"},
	}
	for _, l := range levels {
		existing, err := entities.GetByLevel(ctx, l.level)
		if err != nil {
			logger.Fatal("entity lookup failed", zap.Error(err))
		}
		if existing != nil {
			continue
		}
		e := &entitydomain.Entity{
			ID:        uuid.NewString(),
			Name:      l.name,
			Level:     l.level,
			CreatedAt: now,
		}
		if err := entities.Create(ctx, e); err != nil {
			logger.Fatal("entity create failed", zap.String("level", string(l.level)), zap.Error(err))
		}
		logger.Info("seeded entity", zap.String("level", string(l.level)), zap.String("name", l.name))
	}

	creds := credsrepo.NewPostgresRepository(conn)
	const sampleEmail = "sample.leader@example.org"
	existing, err := creds.GetByEmail(ctx, sampleEmail)
	if err != nil {
		logger.Fatal("credentials lookup failed", zap.Error(err))
	}
	if existing != nil {
		logger.Info("seed complete (sample individual already present)")
		return
	}

	individuals := indrepo.NewPostgresRepository(conn)
	ind := &inddomain.Individual{
		ID:        uuid.NewString(),
		FirstName: "Sam",
		LastName:  "Leader",
		Grade:     "Adult",
		Special:   false,
		CreatedAt: now,
	}
	if err := individuals.Create(ctx, ind); err != nil {
		logger.Fatal("individual create failed", zap.Error(err))
	}
	if err := creds.Create(ctx, &credsdomain.Credentials{
		IndividualID: ind.ID,
		Email:        sampleEmail,
		TwoFAEnabled: true,
	}); err != nil {
		logger.Fatal("credentials create failed", zap.Error(err))
	}
	logger.Info("seed complete", zap.String("sample_email", sampleEmail))
}
