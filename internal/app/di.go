// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	authzHTTP "github.com/allisson/gatekeeper/internal/authz/http"
	authzUseCase "github.com/allisson/gatekeeper/internal/authz/usecase"
	"github.com/allisson/gatekeeper/internal/config"
	"github.com/allisson/gatekeeper/internal/database"
	"github.com/allisson/gatekeeper/internal/groups"
	"github.com/allisson/gatekeeper/internal/http"
	"github.com/allisson/gatekeeper/internal/metrics"
	tokenHTTP "github.com/allisson/gatekeeper/internal/token/http"
	tokenRepository "github.com/allisson/gatekeeper/internal/token/repository"
	tokenService "github.com/allisson/gatekeeper/internal/token/service"
	tokenUseCase "github.com/allisson/gatekeeper/internal/token/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers
	txManager database.TxManager

	// Repositories and services
	tokenRepo    tokenUseCase.TokenRepository
	valueService tokenService.ValueService

	// Authorization collaborators
	ruleSet        *authzDomain.RuleSet
	groupsResolver groups.Resolver

	// Use Cases
	tokenUC    tokenUseCase.TokenUseCase
	decisionUC authzUseCase.DecisionUseCase
	aclUC      authzUseCase.ACLUseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	txManagerInit       sync.Once
	tokenRepoInit       sync.Once
	valueServiceInit    sync.Once
	ruleSetInit         sync.Once
	groupsResolverInit  sync.Once
	tokenUCInit         sync.Once
	decisionUCInit      sync.Once
	aclUCInit           sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// Falls back to a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		bm, err := c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		c.businessMetrics = bm
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		txManager, err := c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
			return
		}
		c.txManager = txManager
	})
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// TokenRepository returns the token repository instance.
func (c *Container) TokenRepository() (tokenUseCase.TokenRepository, error) {
	c.tokenRepoInit.Do(func() {
		repo, err := c.initTokenRepository()
		if err != nil {
			c.initErrors["tokenRepo"] = err
			return
		}
		c.tokenRepo = repo
	})
	if storedErr, exists := c.initErrors["tokenRepo"]; exists {
		return nil, storedErr
	}
	return c.tokenRepo, nil
}

// ValueService returns the token value generator.
func (c *Container) ValueService() tokenService.ValueService {
	c.valueServiceInit.Do(func() {
		c.valueService = tokenService.NewValueService()
	})
	return c.valueService
}

// RuleSet returns the immutable access-control rule set parsed from configuration.
func (c *Container) RuleSet() (*authzDomain.RuleSet, error) {
	c.ruleSetInit.Do(func() {
		ruleSet, err := authzDomain.ParseRuleSet(c.config.AccessRules)
		if err != nil {
			c.initErrors["ruleSet"] = fmt.Errorf("failed to parse access rules: %w", err)
			return
		}
		c.ruleSet = ruleSet
	})
	if storedErr, exists := c.initErrors["ruleSet"]; exists {
		return nil, storedErr
	}
	return c.ruleSet, nil
}

// GroupsResolver returns the group directory resolver instance.
func (c *Container) GroupsResolver() (groups.Resolver, error) {
	c.groupsResolverInit.Do(func() {
		resolver, err := c.initGroupsResolver()
		if err != nil {
			c.initErrors["groupsResolver"] = err
			return
		}
		c.groupsResolver = resolver
	})
	if storedErr, exists := c.initErrors["groupsResolver"]; exists {
		return nil, storedErr
	}
	return c.groupsResolver, nil
}

// TokenUseCase returns the token lifecycle use case instance.
func (c *Container) TokenUseCase() (tokenUseCase.TokenUseCase, error) {
	c.tokenUCInit.Do(func() {
		uc, err := c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}
		c.tokenUC = uc
	})
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUC, nil
}

// DecisionUseCase returns the authorization decision use case instance.
func (c *Container) DecisionUseCase() (authzUseCase.DecisionUseCase, error) {
	c.decisionUCInit.Do(func() {
		uc, err := c.initDecisionUseCase()
		if err != nil {
			c.initErrors["decisionUseCase"] = err
			return
		}
		c.decisionUC = uc
	})
	if storedErr, exists := c.initErrors["decisionUseCase"]; exists {
		return nil, storedErr
	}
	return c.decisionUC, nil
}

// ACLUseCase returns the access-control rule evaluator instance.
func (c *Container) ACLUseCase() (authzUseCase.ACLUseCase, error) {
	c.aclUCInit.Do(func() {
		uc, err := c.initACLUseCase()
		if err != nil {
			c.initErrors["aclUseCase"] = err
			return
		}
		c.aclUC = uc
	})
	if storedErr, exists := c.initErrors["aclUseCase"]; exists {
		return nil, storedErr
	}
	return c.aclUC, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP server if initialized
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	// Shutdown metrics server if initialized
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Shutdown metrics provider if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initTokenRepository creates the token repository instance.
func (c *Container) initTokenRepository() (tokenUseCase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return tokenRepository.NewMySQLTokenRepository(db), nil
	case "postgres":
		return tokenRepository.NewPostgreSQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initGroupsResolver creates the group directory resolver based on the configured backend.
func (c *Container) initGroupsResolver() (groups.Resolver, error) {
	switch c.config.GroupsBackend {
	case "http":
		return groups.NewHTTPResolver(c.config.GroupsServiceURL, c.config.GroupsServiceTimeout), nil
	case "static":
		resolver, err := groups.NewStaticResolverFromJSON(c.config.GroupsStatic)
		if err != nil {
			return nil, fmt.Errorf("failed to parse static group memberships: %w", err)
		}
		return resolver, nil
	default:
		return nil, fmt.Errorf("unsupported groups backend: %s", c.config.GroupsBackend)
	}
}

// initTokenUseCase creates the token lifecycle use case with all its dependencies.
func (c *Container) initTokenUseCase() (tokenUseCase.TokenUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for token use case: %w", err)
	}

	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
	}

	uc := tokenUseCase.NewTokenUseCase(c.config, txManager, tokenRepo, c.ValueService())
	return tokenUseCase.NewTokenUseCaseWithMetrics(uc, businessMetrics), nil
}

// initDecisionUseCase creates the authorization decision use case with all its dependencies.
func (c *Container) initDecisionUseCase() (authzUseCase.DecisionUseCase, error) {
	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for decision use case: %w", err)
	}

	resolver, err := c.GroupsResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get groups resolver for decision use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for decision use case: %w", err)
	}

	uc := authzUseCase.NewDecisionUseCase(tokenRepo, resolver)
	return authzUseCase.NewDecisionUseCaseWithMetrics(uc, businessMetrics), nil
}

// initACLUseCase creates the access-control rule evaluator with all its dependencies.
func (c *Container) initACLUseCase() (authzUseCase.ACLUseCase, error) {
	ruleSet, err := c.RuleSet()
	if err != nil {
		return nil, fmt.Errorf("failed to get rule set for acl use case: %w", err)
	}

	resolver, err := c.GroupsResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get groups resolver for acl use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for acl use case: %w", err)
	}

	uc := authzUseCase.NewACLUseCase(ruleSet, resolver)
	return authzUseCase.NewACLUseCaseWithMetrics(uc, businessMetrics), nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	tokenUC, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for http server: %w", err)
	}

	decisionUC, err := c.DecisionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get decision use case for http server: %w", err)
	}

	aclUC, err := c.ACLUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get acl use case for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	tokenHandler := tokenHTTP.NewTokenHandler(tokenUC, logger)
	adminHandler := tokenHTTP.NewAdminHandler(tokenUC, logger)
	checkHandler := authzHTTP.NewCheckHandler(decisionUC, logger)

	server := http.NewServer(
		c.config,
		tokenHandler,
		adminHandler,
		checkHandler,
		aclUC,
		metricsProvider,
		logger,
	)

	return server, nil
}
