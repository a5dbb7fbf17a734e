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

	httpapi "github.com/aussiebroadwan/pomodoro/internal/pomodoro/http"
	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/mail"
	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/service"
	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/store"
	"github.com/aussiebroadwan/pomodoro/pkg/cryptox"
	"github.com/aussiebroadwan/pomodoro/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X ...".
var BuildVersion = "v0.1.0"

// Application holds the wired server and everything it owns.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	mailer mail.Notifier

	tokenService        *service.TokenService
	resetService        *service.ResetService
	accountService      *service.AccountService
	taskService         *service.TaskService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New validates cfg and builds the application. Nothing listens until Run.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "pomodoro",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)

	db, err := OpenStore(cfg.Database, app.logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	if app.mailer, err = NewNotifier(cfg, app.logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed handler, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("pomodoro service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown drains in-flight requests, then stops housekeeping and closes
// the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down pomodoro service")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("pomodoro service stopped")
	return nil
}

func (app *Application) initServices() error {
	tokens, err := service.NewTokenService([]byte(app.cfg.JWT.Secret), app.cfg.JWT.Issuer, app.cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	app.tokenService = tokens

	app.resetService = &service.ResetService{
		Store:     app.db,
		TTL:       app.cfg.ResetTokenTTL,
		TxTimeout: app.cfg.TxTimeout,
	}
	app.accountService = &service.AccountService{
		Store:       app.db,
		Tokens:      app.tokenService,
		Resets:      app.resetService,
		Mailer:      app.mailer,
		FrontendURL: app.cfg.FrontendURL,
		TxTimeout:   app.cfg.TxTimeout,
	}
	app.taskService = &service.TaskService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)
	router.TokenService = app.tokenService
	router.AccountService = app.accountService
	router.ResetService = app.resetService
	router.TaskService = app.taskService
	router.StaticDir = app.cfg.StaticDir
	router.SecureCookies = app.cfg.SecureCookies
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
