package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/campusparty/internal/party/http"
	"github.com/aussiebroadwan/campusparty/internal/party/metrics"
	"github.com/aussiebroadwan/campusparty/internal/party/service"
	"github.com/aussiebroadwan/campusparty/internal/party/store"
	"github.com/aussiebroadwan/campusparty/internal/party/store/drivers/sqlite"
	"github.com/aussiebroadwan/campusparty/pkg/cryptox"
	"github.com/aussiebroadwan/campusparty/pkg/jwtx"
	"github.com/aussiebroadwan/campusparty/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the party service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	keyManager *jwtx.KeyManager
	metrics    *metrics.Metrics

	// Services
	accountService      *service.AccountService
	partyService        *service.PartyService
	membershipService   *service.MembershipService
	paymentService      *service.PaymentService
	safetyService       *service.SafetyService
	expenseService      *service.ExpenseService
	feedbackService     *service.FeedbackService
	playlistService     *service.PlaylistService
	gameService         *service.GameService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates an Application with every dependency initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "partyd",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := InitKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	app.keyManager = keyManager

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("party service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"payment_policy", app.cfg.PaymentPolicy,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			app.housekeepingService.Stop()
			_ = app.db.Close()
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

// Shutdown drains the server, stops housekeeping and closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down party service...")

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

	app.logger.Info("party service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		app.cfg.DatabaseFile,
	)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

func (app *Application) initServices() error {
	app.accountService = &service.AccountService{
		Store:      app.db,
		KeyManager: app.keyManager,
		AccessTTL:  app.cfg.AccessTTL,
	}
	app.partyService = &service.PartyService{
		Store:     app.db,
		Metrics:   app.metrics,
		ScanLimit: app.cfg.ScanLimit,
	}
	app.membershipService = &service.MembershipService{
		Store:   app.db,
		Policy:  app.cfg.PaymentPolicy,
		Metrics: app.metrics,
	}
	app.paymentService = &service.PaymentService{
		Store:  app.db,
		Policy: app.cfg.PaymentPolicy,
	}
	app.safetyService = &service.SafetyService{Store: app.db}
	app.expenseService = &service.ExpenseService{Store: app.db}
	app.feedbackService = &service.FeedbackService{Store: app.db}
	app.playlistService = &service.PlaylistService{Store: app.db}
	app.gameService = &service.GameService{Store: app.db}

	hk, err := service.NewHousekeepingService(
		app.db,
		app.logger,
		app.metrics,
		app.cfg.HousekeepingSchedule,
		app.cfg.RideExpiry,
	)
	if err != nil {
		return err
	}
	app.housekeepingService = hk
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.keyManager.Verifier,
		BuildVersion,
		app.db,
		app.metrics,
		app.logger,
	)

	router.AccountService = app.accountService
	router.PartyService = app.partyService
	router.MembershipService = app.membershipService
	router.PaymentService = app.paymentService
	router.SafetyService = app.safetyService
	router.ExpenseService = app.expenseService
	router.FeedbackService = app.feedbackService
	router.PlaylistService = app.playlistService
	router.GameService = app.gameService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
