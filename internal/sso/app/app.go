package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/domain"
	httpapi "github.com/aussiebroadwan/bartab-sso/internal/sso/http"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/observability"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/service"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/store"
	"github.com/aussiebroadwan/bartab-sso/pkg/jwtx"
	"github.com/aussiebroadwan/bartab-sso/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X ...BuildVersion=".
var BuildVersion = "v0.1.0"

// Application encapsulates the SSO service with all its dependencies.
type Application struct {
	cfg      Config
	logger   *slog.Logger
	settings *domain.Settings

	// Core dependencies
	db      store.Store
	signer  *jwtx.HS256Signer
	metrics *observability.Metrics

	// Services
	credentialService   *service.CredentialService
	sessionService      *service.SessionService
	loginService        *service.LoginService
	tokenService        *service.TokenService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "sso",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	settings, err := LoadSettings(cfg.SettingsFile)
	if err != nil {
		return nil, err
	}
	for _, w := range SettingsWarnings(settings) {
		app.logger.Warn("settings", slog.String("warning", w))
	}
	app.settings = settings

	signer, err := jwtx.NewSignerHS256([]byte(settings.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer

	if err := app.initStore(); err != nil {
		return nil, err
	}

	app.initServices()

	if err := app.loadState(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until SIGINT or SIGTERM is received
// or the server fails.
func (app *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.serve(ctx)
}

// serve runs the server until ctx is done, then shuts down gracefully.
func (app *Application) serve(ctx context.Context) error {
	app.housekeepingService.Start()

	app.logger.Info("sso service starting",
		slog.Int("port", app.cfg.Port),
		slog.String("version", BuildVersion),
		slog.String("store", app.cfg.StoreDriver),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		app.logger.Info("shutdown requested", slog.Any("cause", context.Cause(ctx)))

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application. It is safe to call
// without a prior Run.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down sso service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slog.Any("error", err))
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slog.Any("error", err))
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", slog.Any("error", err))
		return err
	}

	app.logger.Info("sso service stopped")
	return nil
}

func (app *Application) initStore() error {
	db, err := OpenStore(app.cfg)
	if err != nil {
		return err
	}
	app.db = db
	app.logger.Info("store ready", slog.String("driver", app.cfg.StoreDriver))
	return nil
}

func (app *Application) initServices() {
	app.metrics = observability.NewMetrics()

	policy := &service.PolicyGuard{Settings: app.settings}

	app.credentialService = service.NewCredentialService(app.db, app.cfg.HashWorkers, app.metrics)
	app.sessionService = service.NewSessionService(app.db, app.settings.SessionDuration(), app.metrics)

	app.loginService = &service.LoginService{
		Policy:      policy,
		Credentials: app.credentialService,
		Sessions:    app.sessionService,
		Metrics:     app.metrics,
	}
	app.tokenService = &service.TokenService{
		Settings: app.settings,
		Policy:   policy,
		Sessions: app.sessionService,
		Signer:   app.signer,
		Metrics:  app.metrics,
	}

	app.metrics.RegisterActiveSessions(app.sessionService.ActiveCount)

	app.housekeepingService = service.NewHousekeepingService(
		app.sessionService,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// loadState reads persisted credentials and sessions so malformed files are
// reported at startup rather than on the first login.
func (app *Application) loadState(ctx context.Context) error {
	users, err := app.credentialService.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	if len(users) == 0 {
		app.logger.Warn("no credentials provisioned, every login will fail")
	}

	if err := app.sessionService.Load(ctx); err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	app.logger.Info("state loaded",
		slog.Int("users", len(users)),
		slog.Int("sessions", app.sessionService.ActiveCount()),
	)
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.settings,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.LoginService = app.loginService
	router.TokenService = app.tokenService
	router.Metrics = app.metrics
	router.CookieSecure = app.cfg.CookieSecure
	router.TrustProxy = app.cfg.TrustProxy
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
