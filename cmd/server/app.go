package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/platform/gemini"
	"github.com/tasknest/tasknest/internal/platform/postgres"
	"github.com/tasknest/tasknest/internal/service"
	"github.com/tasknest/tasknest/internal/service/auth"
	"github.com/tasknest/tasknest/internal/service/sharing"
	"github.com/tasknest/tasknest/internal/store"
	"github.com/tasknest/tasknest/internal/ws"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore  store.UserStore
	taskStore  store.TaskStore
	agentStore store.AgentResponseStore

	// Auth
	jwtService     auth.JWTService
	authenticator  *auth.Authenticator
	passwordHasher *auth.BcryptVerifier

	// Real-time subsystem
	registry   *ws.Registry
	dispatcher *ws.Dispatcher
	wsHandler  *ws.Handler

	// Services
	sharingService *sharing.Service
	taskService    *service.TaskService
	agentService   *service.AgentService
}

// newApplication creates a new application instance with all dependencies
// initialized. Configuration, logging, and the database connection must be
// established before calling it.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordHasher = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.agentStore = postgres.NewPostgresAgentResponseStore(db, logger)

	app.authenticator = auth.NewAuthenticator(app.jwtService, app.userStore)

	// The registry and dispatcher back every live task notification; the
	// WebSocket handler feeds connections into them.
	app.registry = ws.NewRegistry()
	app.dispatcher = ws.NewDispatcher(app.registry, logger)
	app.wsHandler = ws.NewHandler(app.authenticator, app.registry, logger)

	app.sharingService = sharing.NewService(app.taskStore)
	app.taskService = service.NewTaskService(
		app.taskStore,
		app.userStore,
		app.sharingService,
		app.dispatcher,
		logger,
	)

	generator, err := setupGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.agentService = service.NewAgentService(
		app.taskStore,
		app.agentStore,
		app.sharingService,
		generator,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupGenerator selects the agent text generator. Without a Gemini API key
// the built-in heuristic generator serves agent requests.
func setupGenerator(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (service.TextGenerator, error) {
	if cfg.Agent.GeminiAPIKey == "" {
		logger.Info("No Gemini API key configured, using heuristic agent generator")
		return service.NewHeuristicGenerator(), nil
	}

	generator, err := gemini.NewGenerator(ctx, cfg.Agent, logger.With("component", "gemini_generator"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini generator: %w", err)
	}
	logger.Info("Gemini generator initialized", "model", cfg.Agent.ModelName)
	return generator, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// accessTokenLifetime returns the configured access token lifetime.
func (app *application) accessTokenLifetime() time.Duration {
	return time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute
}

// cleanup handles graceful shutdown of application resources. Live
// WebSocket connections are closed before the database so late
// notifications cannot race connection teardown.
func (app *application) cleanup() {
	if app.registry != nil {
		app.registry.Close()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
