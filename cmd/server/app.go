package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/DavidHJones36/roguetwo-api/internal/config"
	"github.com/DavidHJones36/roguetwo-api/internal/events"
	"github.com/DavidHJones36/roguetwo-api/internal/gate"
	"github.com/DavidHJones36/roguetwo-api/internal/identity"
	"github.com/DavidHJones36/roguetwo-api/internal/platform/postgres"
	"github.com/DavidHJones36/roguetwo-api/internal/service"
	"github.com/DavidHJones36/roguetwo-api/internal/service/signup"
	"github.com/DavidHJones36/roguetwo-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Connections, nil when the optional backend is not configured
	db    *sql.DB
	redis *redis.Client
	nats  *nats.Conn

	profileStore store.ProfileStore
	privateStore store.PrivateProfileStore

	verifier  identity.Verifier
	admin     identity.Admin
	approvals gate.ApprovalReader

	eventEmitter   events.EventEmitter
	signupService  signup.Service
	profileService service.ProfileService
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.profileStore = postgres.NewPostgresProfileStore(db, logger)
	app.privateStore = postgres.NewPostgresPrivateProfileStore(db, logger)

	verifier, admin, err := identity.New(ctx, cfg.Identity, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identity provider: %w", err)
	}
	app.verifier = verifier
	app.admin = admin
	logger.Info("identity provider initialized", "mode", cfg.Identity.Mode)

	app.approvals = app.privateStore
	if cfg.Approval.CacheTTL > 0 {
		app.redis, err = gate.NewRedisClient(ctx, cfg.Approval.RedisAddr, cfg.Approval.RedisPassword)
		if err != nil {
			return nil, err
		}
		app.approvals = gate.NewRedisApprovalCache(app.redis, app.privateStore, cfg.Approval.CacheTTL, logger)
		logger.Info("approval cache enabled", "ttl", cfg.Approval.CacheTTL)
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewLogHandler(logger))
	if cfg.Events.NATSURL != "" {
		app.nats, err = events.Connect(cfg.Events.NATSURL, logger)
		if err != nil {
			app.closeBackends()
			return nil, err
		}
		emitter.RegisterHandler(events.NewNATSPublisher(app.nats, cfg.Events.SubjectPrefix, logger))
		logger.Info("publishing events to nats", "subject_prefix", cfg.Events.SubjectPrefix)
	}
	app.eventEmitter = emitter

	app.signupService, err = signup.NewService(
		app.admin,
		app.verifier,
		app.profileStore,
		app.privateStore,
		logger,
		signup.WithEventEmitter(app.eventEmitter),
	)
	if err != nil {
		app.closeBackends()
		return nil, fmt.Errorf("failed to create signup service: %w", err)
	}

	app.profileService = service.NewProfileService(app.profileStore, app.privateStore, logger)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router, err := app.setupRouter()
	if err != nil {
		app.cleanup()
		return fmt.Errorf("failed to set up router: %w", err)
	}

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	app.closeBackends()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}

// closeBackends releases the optional Redis and NATS connections.
func (app *application) closeBackends() {
	if app.nats != nil {
		if err := app.nats.Drain(); err != nil {
			app.logger.Error("error draining nats connection", "error", err)
		}
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}
}
