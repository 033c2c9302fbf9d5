package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskboard-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskboard-api/internal/api/middleware"
	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/dispatch"
	"github.com/phrazzld/taskboard-api/internal/domain/access"
	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/platform/redisstore"
	"github.com/phrazzld/taskboard-api/internal/realtime"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/redis/go-redis/v9"
)

// Redis key prefixes for the token denylist and the auth rate limiter.
const (
	denylistPrefix  = "taskboard:revoked:"
	rateLimitPrefix = "taskboard:ratelimit:"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	jwtService  auth.JWTService
	userService service.UserService
	taskService service.TaskService

	// Optional in tests: a nil denylist skips revocation and a nil limiter
	// disables rate limiting.
	denylist api.TokenRevoker
	limiter  apiMiddleware.Limiter

	emitter    *events.InMemoryEventEmitter
	hub        *realtime.Hub
	notifier   *dispatch.Notifier
	subscriber *redisstore.Subscriber
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, database and Redis
// connections that must be established before application initialization.
//
// Task creation publishes through the notifier to Redis; the subscriber relays
// every message on the channel back into the local emitter, which feeds the
// WebSocket hub. Each server instance therefore broadcasts tasks created on any
// instance.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB, rdb *redis.Client) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		redis:  rdb,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)

	app.notifier = dispatch.NewNotifier(
		redisstore.NewPublisher(rdb, cfg.Redis.Channel),
		dispatch.Config{
			QueueSize: cfg.Notify.QueueSize,
			WorkerPoolConfig: dispatch.WorkerPoolConfig{
				WorkerCount:    cfg.Notify.WorkerCount,
				PublishTimeout: time.Duration(cfg.Notify.PublishTimeoutSeconds) * time.Second,
			},
		},
		logger,
	)

	app.taskService, err = service.NewTaskService(taskStore, userStore, access.NewPolicy(), app.notifier, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}
	app.userService = service.NewUserService(userStore, auth.NewBcryptVerifier(), db, logger)

	app.denylist = redisstore.NewTokenDenylist(rdb, denylistPrefix)
	app.limiter = redisstore.NewSlidingWindowLimiter(rdb,
		cfg.RateLimit.Requests,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		rateLimitPrefix)

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.hub = realtime.NewHub(logger)
	app.emitter.Subscribe(events.ChannelTasks, app.hub)
	app.subscriber = redisstore.NewSubscriber(rdb, cfg.Redis.Channel, app.emitter, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// newUserService builds the user service on its own, for commands that do
// not start the full application.
func newUserService(cfg *config.Config, db *sql.DB, logger *slog.Logger) service.UserService {
	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	return service.NewUserService(userStore, auth.NewBcryptVerifier(), db, logger)
}

// cleanup handles graceful shutdown of application resources. The database
// is owned and closed by the caller.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
