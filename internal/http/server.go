// Package http provides HTTP server implementation and route registration.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	authzHTTP "github.com/allisson/gatekeeper/internal/authz/http"
	authzUseCase "github.com/allisson/gatekeeper/internal/authz/usecase"
	"github.com/allisson/gatekeeper/internal/config"
	"github.com/allisson/gatekeeper/internal/metrics"
	tokenHTTP "github.com/allisson/gatekeeper/internal/token/http"
)

// Server represents the HTTP server serving the token and authorization API.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server with all routes registered.
//
// Route groups:
//   - decision endpoints (/checkToken, /checkUser): no identity, rate limited
//   - owner endpoints (/createToken, /revokeToken, /listTokens): identity required
//   - admin endpoints (/admin/user/:username/...): identity + access rule required
func NewServer(
	cfg *config.Config,
	tokenHandler *tokenHTTP.TokenHandler,
	adminHandler *tokenHTTP.AdminHandler,
	checkHandler *authzHTTP.CheckHandler,
	aclUseCase authzUseCase.ACLUseCase,
	metricsProvider *metrics.Provider,
	logger *slog.Logger,
) *Server {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	// Health endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Decision endpoints: service-to-service, no identity, rate limited
	check := router.Group("/")
	if cfg.RateLimitEnabled {
		check.Use(authzHTTP.RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}
	check.POST("/checkToken", checkHandler.CheckTokenHandler)
	check.POST("/checkUser", checkHandler.CheckUserHandler)

	// Owner self-service endpoints: identity required
	owner := router.Group("/")
	owner.Use(authzHTTP.IdentityMiddleware(logger))
	owner.POST("/createToken", tokenHandler.CreateTokenHandler)
	owner.POST("/revokeToken", tokenHandler.RevokeTokenHandler)
	owner.GET("/listTokens", tokenHandler.ListTokensHandler)

	// Admin endpoints: identity plus the "/admin" access rule for the verb
	admin := router.Group("/admin")
	admin.Use(authzHTTP.IdentityMiddleware(logger))
	admin.POST(
		"/user/:username/createToken",
		authzHTTP.ACLMiddleware(aclUseCase, "/admin", authzDomain.PostVerb, logger),
		adminHandler.AdminCreateTokenHandler,
	)
	admin.POST(
		"/user/:username/revokeToken",
		authzHTTP.ACLMiddleware(aclUseCase, "/admin", authzDomain.PostVerb, logger),
		adminHandler.AdminRevokeTokenHandler,
	)
	admin.GET(
		"/user/:username/listTokens",
		authzHTTP.ACLMiddleware(aclUseCase, "/admin", authzDomain.ViewVerb, logger),
		adminHandler.AdminListTokensHandler,
	)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
