package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"contrib.go.opencensus.io/integrations/ocsql"

	"github.com/careops/careops/config"
	"github.com/careops/careops/internal/database"
	"github.com/careops/careops/internal/domain"
	httpHandler "github.com/careops/careops/internal/http"
	"github.com/careops/careops/internal/http/middleware"
	"github.com/careops/careops/internal/repository"
	"github.com/careops/careops/internal/service"
	"github.com/careops/careops/pkg/logger"
	"github.com/careops/careops/pkg/ratelimiter"
	"github.com/careops/careops/pkg/tracing"
)

// AppInterface defines the interface for the App
type AppInterface interface {
	Initialize() error
	Start() error
	Shutdown(ctx context.Context) error

	GetConfig() *config.Config
	GetLogger() logger.Logger
	GetMux() *http.ServeMux
	GetDB() *sql.DB

	GetWorkspaceRepository() domain.WorkspaceRepository
	GetProfileRepository() domain.ProfileRepository
	GetSessionProvider() domain.SessionProvider
	GetOnboardingService() domain.OnboardingService

	IsServerCreated() bool
	WaitForServerStart(ctx context.Context) bool

	InitDB() error
	InitTracing() error
	InitRepositories() error
	InitServices() error
	InitHandlers() error

	SetShutdownTimeout(timeout time.Duration)
	GetActiveRequestCount() int64
	GetShutdownContext() context.Context
}

// App encapsulates the application dependencies and configuration
type App struct {
	config      *config.Config
	logger      logger.Logger
	db          *sql.DB
	stopDBStats func()

	// Repositories
	workspaceRepo   domain.WorkspaceRepository
	profileRepo     domain.ProfileRepository
	serviceRepo     domain.ServiceRepository
	inventoryRepo   domain.InventoryRepository
	onboardingStore domain.OnboardingStore

	// Services
	provisioningService *service.ProvisioningService
	sessionRegistry     *service.SessionRegistry
	onboardingService   *service.OnboardingService
	rateLimiter         *ratelimiter.RateLimiter

	mux    *http.ServeMux
	server *http.Server

	serverMu      sync.RWMutex
	serverStarted chan struct{}

	shutdownCtx     context.Context
	shutdownCancel  context.CancelFunc
	activeRequests  int64
	requestWg       sync.WaitGroup
	shutdownTimeout time.Duration
}

// AppOption defines a functional option for configuring the App
type AppOption func(*App)

// WithMockDB configures the app to use a mock database
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) AppInterface {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	app := &App{
		config:          cfg,
		logger:          logger.NewLoggerWithLevel(cfg.LogLevel),
		mux:             http.NewServeMux(),
		serverStarted:   make(chan struct{}),
		shutdownCtx:     shutdownCtx,
		shutdownCancel:  shutdownCancel,
		shutdownTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// InitTracing initializes OpenCensus tracing and the onboarding views
func (a *App) InitTracing() error {
	tracingConfig := &a.config.Tracing

	if err := tracing.InitTracing(tracingConfig, service.OnboardingViews()...); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if tracingConfig.Enabled {
		a.logger.WithField("service_name", tracingConfig.ServiceName).
			WithField("sampling_rate", tracingConfig.SamplingProbability).
			Info("Tracing initialized successfully")
	}

	return nil
}

// InitDB connects to Postgres and makes sure the schema exists. A database
// injected with WithMockDB is used as-is.
func (a *App) InitDB() error {
	if a.db != nil {
		return nil
	}

	a.logger.Info(fmt.Sprintf("Connecting to database %s:%d, user %s, sslmode %s, password: %s, dbname: %s",
		a.config.Database.Host, a.config.Database.Port, a.config.Database.User, a.config.Database.SSLMode,
		database.MaskPassword(a.config.Database.Password), a.config.Database.DBName))

	if err := database.EnsureSystemDatabaseExists(database.GetPostgresDSN(&a.config.Database), a.config.Database.DBName); err != nil {
		a.logger.Error(err.Error())
		return fmt.Errorf("failed to ensure system database exists: %w", err)
	}

	driverName := "postgres"
	if a.config.Tracing.Enabled {
		var err error
		driverName, err = ocsql.Register(driverName, ocsql.WithAllTraceOptions())
		if err != nil {
			return fmt.Errorf("failed to register opencensus sql driver: %w", err)
		}
		a.logger.Info("Database driver wrapped with OpenCensus tracing")
	}

	db, err := sql.Open(driverName, database.GetSystemDSN(&a.config.Database))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := database.InitializeDatabase(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	database.ConfigureConnectionPool(db, a.config.Environment)

	if a.config.Tracing.Enabled {
		a.stopDBStats = ocsql.RecordStats(db, 5*time.Second)
	}

	a.db = db
	return nil
}

// InitRepositories initializes all repositories
func (a *App) InitRepositories() error {
	if a.db == nil {
		return fmt.Errorf("database is not initialized")
	}

	a.workspaceRepo = repository.NewWorkspaceRepository(a.db)
	a.profileRepo = repository.NewProfileRepository(a.db)
	a.serviceRepo = repository.NewServiceRepository(a.db)
	a.inventoryRepo = repository.NewInventoryRepository(a.db)
	a.onboardingStore = repository.NewOnboardingStore(a.workspaceRepo, a.serviceRepo, a.inventoryRepo)

	return nil
}

// InitServices initializes all services
func (a *App) InitServices() error {
	a.provisioningService = service.NewProvisioningService(a.workspaceRepo, a.profileRepo, a.logger)

	a.sessionRegistry = service.NewSessionRegistry(
		a.profileRepo,
		a.provisioningService,
		service.SessionRegistryConfig{
			ResolveTimeout: a.config.Session.ResolveTimeout,
			IdleTTL:        a.config.Session.IdleTTL,
		},
		a.logger,
	)

	a.onboardingService = service.NewOnboardingService(
		a.workspaceRepo,
		a.onboardingStore,
		service.OnboardingConfig{
			WizardTTL:          a.config.Onboarding.WizardTTL,
			SaveTimeout:        a.config.Onboarding.SaveTimeout,
			ActivationRedirect: a.config.Onboarding.ActivationRedirect,
		},
		a.logger,
	)

	// a signed-out user must re-enter the wizard from the persisted row
	a.sessionRegistry.OnSignOut(a.onboardingService.Forget)

	a.rateLimiter = ratelimiter.NewRateLimiter()
	a.rateLimiter.SetPolicy(httpHandler.RateLimitNamespace, a.config.Onboarding.RateLimit, time.Minute)

	return nil
}

// InitHandlers registers every HTTP route on the mux
func (a *App) InitHandlers() error {
	authMiddleware := middleware.NewAuthMiddleware(a.config.Auth.JWTSecret)

	onboardingHandler := httpHandler.NewOnboardingHandler(
		a.onboardingService,
		a.sessionRegistry,
		a.rateLimiter,
		authMiddleware,
		a.logger,
	)
	sessionHandler := httpHandler.NewSessionHandler(a.sessionRegistry, authMiddleware, a.logger)
	authWebhookHandler := httpHandler.NewAuthWebhookHandler(a.sessionRegistry, a.config.Auth.WebhookSecret, a.logger)
	healthHandler := httpHandler.NewHealthHandler(a.db)

	onboardingHandler.RegisterRoutes(a.mux)
	sessionHandler.RegisterRoutes(a.mux)
	authWebhookHandler.RegisterRoutes(a.mux)
	healthHandler.RegisterRoutes(a.mux)

	return nil
}

// Handler returns the mux wrapped in the server middleware chain
func (a *App) Handler() http.Handler {
	var handler http.Handler = a.mux

	handler = a.gracefulShutdownMiddleware(handler)

	if a.config.Tracing.Enabled {
		handler = middleware.TracingMiddleware(handler)
	}

	return handler
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.logger.WithField("address", addr).Info(fmt.Sprintf("Server starting on %s", addr))

	a.serverMu.Lock()
	if a.serverStarted != nil {
		close(a.serverStarted)
	}
	a.serverStarted = make(chan struct{})

	a.server = &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverStarted := a.serverStarted
	a.serverMu.Unlock()

	close(serverStarted)

	return a.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown...")

	a.shutdownCancel()

	a.serverMu.RLock()
	server := a.server
	a.serverMu.RUnlock()

	if server == nil {
		a.logger.Info("No server to shutdown")
		return a.cleanupResources()
	}

	a.logger.WithField("active_requests", a.getActiveRequestCount()).Info("Active requests at shutdown start")

	shutdownTimeout := a.shutdownTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < shutdownTimeout {
			shutdownTimeout = remaining
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := server.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr.Error()).Warn("HTTP server shutdown did not complete cleanly")
	}

	requestsDone := make(chan struct{})
	go func() {
		a.requestWg.Wait()
		close(requestsDone)
	}()

	select {
	case <-requestsDone:
		a.logger.Info("All requests completed")
	case <-shutdownCtx.Done():
		a.logger.WithField("active_requests", a.getActiveRequestCount()).Warn("Shutdown timeout reached, forcing shutdown")
	}

	if err := a.cleanupResources(); err != nil && shutdownErr == nil {
		shutdownErr = err
	}

	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr.Error()).Error("Graceful shutdown completed with errors")
	} else {
		a.logger.Info("Graceful shutdown completed successfully")
	}

	return shutdownErr
}

// cleanupResources tears down sessions, the wizard cache, the limiter and the
// database pool
func (a *App) cleanupResources() error {
	a.logger.Info("Cleaning up resources...")

	if a.sessionRegistry != nil {
		a.sessionRegistry.Close()
	}
	if a.onboardingService != nil {
		a.onboardingService.Close()
	}
	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}
	if a.stopDBStats != nil {
		a.stopDBStats()
	}

	if a.db != nil {
		a.logger.Info("Closing database connection")
		if err := a.db.Close(); err != nil {
			a.logger.WithField("error", err.Error()).Error("Error closing database connection")
			return err
		}
	}

	a.logger.Info("Resource cleanup completed")
	return nil
}

// IsServerCreated safely checks if the server has been created
func (a *App) IsServerCreated() bool {
	a.serverMu.RLock()
	defer a.serverMu.RUnlock()
	return a.server != nil
}

// WaitForServerStart waits for the server to be created. It returns false
// when ctx expires first.
func (a *App) WaitForServerStart(ctx context.Context) bool {
	a.serverMu.RLock()
	started := a.serverStarted
	a.serverMu.RUnlock()

	select {
	case <-started:
		return a.IsServerCreated()
	case <-ctx.Done():
		return false
	}
}

// Initialize sets up all components of the application
func (a *App) Initialize() error {
	a.logger.WithField("version", a.config.Version).Info("Starting CareOps application")

	if err := a.InitTracing(); err != nil {
		return err
	}

	if err := a.InitDB(); err != nil {
		return err
	}

	if err := a.InitRepositories(); err != nil {
		return err
	}

	if err := a.InitServices(); err != nil {
		return err
	}

	if err := a.InitHandlers(); err != nil {
		return err
	}

	a.logger.Info("Application successfully initialized")
	return nil
}

func (a *App) GetConfig() *config.Config {
	return a.config
}

func (a *App) GetLogger() logger.Logger {
	return a.logger
}

func (a *App) GetMux() *http.ServeMux {
	return a.mux
}

func (a *App) GetDB() *sql.DB {
	return a.db
}

func (a *App) GetWorkspaceRepository() domain.WorkspaceRepository {
	return a.workspaceRepo
}

func (a *App) GetProfileRepository() domain.ProfileRepository {
	return a.profileRepo
}

func (a *App) GetSessionProvider() domain.SessionProvider {
	if a.sessionRegistry == nil {
		return nil
	}
	return a.sessionRegistry
}

func (a *App) GetOnboardingService() domain.OnboardingService {
	if a.onboardingService == nil {
		return nil
	}
	return a.onboardingService
}

func (a *App) incrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, 1)
	a.requestWg.Add(1)
}

func (a *App) decrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, -1)
	a.requestWg.Done()
}

func (a *App) getActiveRequestCount() int64 {
	return atomic.LoadInt64(&a.activeRequests)
}

// GetActiveRequestCount returns the current number of active requests
func (a *App) GetActiveRequestCount() int64 {
	return a.getActiveRequestCount()
}

// SetShutdownTimeout sets the timeout for graceful shutdown
func (a *App) SetShutdownTimeout(timeout time.Duration) {
	a.shutdownTimeout = timeout
	a.logger.WithField("shutdown_timeout", timeout).Info("Shutdown timeout configured")
}

// GetShutdownContext is cancelled once Shutdown starts
func (a *App) GetShutdownContext() context.Context {
	return a.shutdownCtx
}

func (a *App) isShuttingDown() bool {
	select {
	case <-a.shutdownCtx.Done():
		return true
	default:
		return false
	}
}

// gracefulShutdownMiddleware tracks in-flight requests and refuses new ones
// once shutdown has started
func (a *App) gracefulShutdownMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.isShuttingDown() {
			httpHandler.WriteJSONError(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}

		a.incrementActiveRequests()
		defer a.decrementActiveRequests()

		next.ServeHTTP(w, r)
	})
}

var _ AppInterface = (*App)(nil)
