// Command server runs the portal auth API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"kidsmin-portal/backend/internal/audit"
	auditrepo "kidsmin-portal/backend/internal/audit/repository"
	authhandler "kidsmin-portal/backend/internal/auth/handler"
	authrepo "kidsmin-portal/backend/internal/auth/repository"
	authservice "kidsmin-portal/backend/internal/auth/service"
	"kidsmin-portal/backend/internal/config"
	credsrepo "kidsmin-portal/backend/internal/credentials/repository"
	"kidsmin-portal/backend/internal/db"
	"kidsmin-portal/backend/internal/devcode"
	healthhandler "kidsmin-portal/backend/internal/health/handler"
	indrepo "kidsmin-portal/backend/internal/individual/repository"
	"kidsmin-portal/backend/internal/mailer"
	rolerepo "kidsmin-portal/backend/internal/role/repository"
	"kidsmin-portal/backend/internal/security"
	"kidsmin-portal/backend/internal/server"
	"kidsmin-portal/backend/internal/telemetry"
	"kidsmin-portal/backend/internal/twofa"
	twofarepo "kidsmin-portal/backend/internal/twofa/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	logger := newLogger(cfg.Env)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.TelemetryEndpoint, cfg.TelemetryInsecure)
	if err != nil {
		logger.Fatal("telemetry setup failed", zap.Error(err))
	}
	defer tracing.Shutdown(context.Background())

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer conn.Close()

	hasher := security.NewHasher(cfg.BcryptCost)
	tokens := security.NewTokenProvider(
		[]byte(cfg.JWTSecret),
		cfg.SessionTTL(),
		cfg.SetPasswordTokenTTL(),
		cfg.FrontendURL,
	)

	var mail mailer.Mailer
	if cfg.MailAPIURL != "" {
		mail = mailer.NewClient(cfg.MailAPIKey, cfg.MailAPIURL, cfg.MailFrom)
	} else {
		logger.Warn("MAIL_API_URL not set; outgoing mail will be logged, not delivered")
		mail = mailer.NewLogMailer(logger)
	}

	var devCodes devcode.Store
	var devHandler *authhandler.DevCodeHandler
	if cfg.TwoFAReturnToClient {
		store := devcode.NewMemoryStore()
		devCodes = store
		devHandler = authhandler.NewDevCodeHandler(store)
		logger.Warn("dev 2fa mode enabled; plaintext codes retrievable via /dev/twofa/code")
	}

	twoFactor := twofa.NewService(
		twofarepo.NewPostgresRepository(conn),
		hasher, mail, devCodes, logger,
		cfg.TwoFACodeLength, cfg.TwoFACodeTTL(), cfg.TwoFAMaxAttempts,
	)

	auditLog := audit.NewLogger(auditrepo.NewPostgresRepository(conn), logger)

	authSvc := authservice.NewService(
		credsrepo.NewPostgresRepository(conn),
		rolerepo.NewPostgresRepository(conn),
		indrepo.NewPostgresRepository(conn),
		twoFactor,
		authrepo.NewPostgresBootstrapStore(conn),
		tokens, hasher, mail, auditLog, logger,
		cfg.TwoFAEnabled,
	)

	router := server.NewRouter(server.RouterDeps{
		Auth:        authhandler.NewAuthHandler(authSvc, logger),
		Health:      healthhandler.NewHealthHandler(conn),
		DevCodes:    devHandler,
		Tokens:      tokens,
		Logger:      logger,
		CORSOrigins: cfg.CORSOriginsList(),
		ServiceName: cfg.ServiceName,
	})

	srv := server.NewHTTPServer(cfg.HTTPAddr, router, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(env string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
