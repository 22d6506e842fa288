package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/trust/internal/trust/http"
	"github.com/aussiebroadwan/trust/internal/trust/notify"
	"github.com/aussiebroadwan/trust/internal/trust/service"
	"github.com/aussiebroadwan/trust/internal/trust/store"
	"github.com/aussiebroadwan/trust/internal/trust/store/drivers/postgres"
	"github.com/aussiebroadwan/trust/internal/trust/store/drivers/sqlite"
	"github.com/aussiebroadwan/trust/pkg/cryptox"
	"github.com/aussiebroadwan/trust/pkg/jwtx"
	"github.com/aussiebroadwan/trust/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the trust service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	codec    *cryptox.SecretCodec
	verifier jwtx.Verifier
	keys     *KeyRefresher // nil in shared-secret mode
	redis    *redis.Client // nil without TRUST_REDIS_URL
	sink     service.EventSink

	// Services
	auditLog   *service.AuditLog
	twoFactor  *service.TwoFactorService
	reports    *service.ReportService
	suspicious *service.SuspiciousActivityService
	authorizer *service.AdminAuthorizer
	monitor    *service.SuspiciousActivityMonitor

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "trust-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	ctx := context.Background()

	if err := app.initCodec(); err != nil {
		return nil, err
	}
	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	verifier, keys, err := InitVerifier(ctx, cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize token verification: %w", err)
	}
	app.verifier = verifier
	app.keys = keys

	if err := app.initNotify(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		app.closeBackends()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.monitor.Start()
	if app.keys != nil {
		app.keys.Start()
	}

	app.logger.Info("trust service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down trust service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.monitor.Stop()
	if app.keys != nil {
		app.keys.Stop()
	}

	if err := app.closeBackends(); err != nil {
		return err
	}

	app.logger.Info("trust service stopped")
	return nil
}

func (app *Application) closeBackends() error {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// initCodec builds the at-rest cipher. Dev without a configured key gets a
// random one, so secrets written in that run are unreadable after restart.
func (app *Application) initCodec() error {
	key := []byte(app.cfg.EncryptionKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return fmt.Errorf("failed to generate ephemeral encryption key: %w", err)
		}
		app.logger.Warn("TRUST_ENCRYPTION_KEY not set, using an ephemeral key", "env", app.cfg.Env)
	}

	codec, err := cryptox.NewSecretCodec(key)
	if err != nil {
		return fmt.Errorf("failed to initialize secret codec: %w", err)
	}
	app.codec = codec
	return nil
}

// initDatabase opens the configured driver and applies migrations.
func (app *Application) initDatabase(ctx context.Context) error {
	var db store.Store

	switch app.cfg.DBDriver {
	case "postgres":
		pg, err := postgres.NewStore(ctx, app.cfg.DatabaseURL, postgres.Config{})
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		db = pg
	default:
		dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		lite, err := sqlite.NewStore(dsn)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		db = lite
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DBDriver)
	return nil
}

// initNotify connects the audit fan-out stream when configured.
func (app *Application) initNotify(ctx context.Context) error {
	if app.cfg.RedisURL == "" {
		app.logger.Info("audit fan-out disabled")
		return nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sink, client, err := notify.Dial(dialCtx, app.cfg.RedisURL, app.cfg.RedisStream, app.cfg.RedisMaxLen)
	if err != nil {
		return fmt.Errorf("failed to connect audit stream: %w", err)
	}
	app.sink = sink
	app.redis = client

	app.logger.Info("audit fan-out enabled", "stream", sink.Stream())
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() error {
	app.auditLog = service.NewAuditLog(app.db, app.sink)

	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	app.twoFactor = &service.TwoFactorService{
		Store:       app.db,
		Audit:       app.auditLog,
		Codec:       app.codec,
		Credentials: &service.PasswordVerifier{Store: app.db, Pepper: pepper},
		Issuer:      app.cfg.Issuer,
	}
	app.reports = &service.ReportService{
		Store: app.db,
		Audit: app.auditLog,
		Codec: app.codec,
	}
	app.suspicious = &service.SuspiciousActivityService{Store: app.db}
	app.authorizer = &service.AdminAuthorizer{Store: app.db, Audit: app.auditLog}

	app.monitor = service.NewSuspiciousActivityMonitor(
		app.suspicious,
		app.logger,
		app.cfg.ScanInterval,
		app.cfg.ScanWindow,
		app.cfg.SuspiciousThreshold,
	)
	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.TwoFactorService = app.twoFactor
	router.ReportService = app.reports
	router.AuditLog = app.auditLog
	router.SuspiciousService = app.suspicious
	router.Authorizer = app.authorizer
	if app.keys != nil {
		router.VerifierReady = app.keys.Keys.IsReady
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
