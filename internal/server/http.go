// Package server assembles the gin router and runs the HTTP server with
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	authhandler "kidsmin-portal/backend/internal/auth/handler"
	healthhandler "kidsmin-portal/backend/internal/health/handler"
	"kidsmin-portal/backend/internal/security"
	"kidsmin-portal/backend/internal/server/middleware"
)

// RouterDeps carries everything the router mounts.
type RouterDeps struct {
	Auth        *authhandler.AuthHandler
	Health      *healthhandler.HealthHandler
	DevCodes    *authhandler.DevCodeHandler // nil unless dev 2FA mode is on
	Tokens      *security.TokenProvider
	Logger      *zap.Logger
	CORSOrigins []string
	ServiceName string
}

// NewRouter builds the gin engine with the portal's middleware chain and routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORS(deps.CORSOrigins))
	router.Use(otelgin.Middleware(deps.ServiceName))

	router.GET("/healthz", deps.Health.Healthz)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", deps.Auth.Login)
			auth.POST("/2fa/verify", deps.Auth.VerifyTwoFactor)
			auth.POST("/request-reset", deps.Auth.RequestReset)
			auth.POST("/set-password", deps.Auth.SetPassword)
			auth.POST("/create-admin", deps.Auth.CreateAdmin)
			auth.POST("/invite", middleware.RequireAuth(deps.Tokens), deps.Auth.Invite)
		}
		api.GET("/system/admin-exists", deps.Auth.AdminExists)
	}

	if deps.DevCodes != nil {
		router.GET("/dev/twofa/code", deps.DevCodes.Code)
	}

	return router
}

// HTTPServer wraps http.Server with coordinated shutdown.
type HTTPServer struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewHTTPServer builds the server listening on addr.
func NewHTTPServer(addr string, handler http.Handler, logger *zap.Logger) *HTTPServer {
	return &HTTPServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests with a
// 10 second grace period.
func (s *HTTPServer) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("http server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server shutting down")
		return s.srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
