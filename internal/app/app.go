// Package app initializes and runs the application server: it connects the
// shared database handle, applies migrations, wires the services and rate
// limiters, and runs the HTTP server with graceful shutdown.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/penguindb/internal/config"
	"github.com/dmitrijs2005/penguindb/internal/httpapi"
	"github.com/dmitrijs2005/penguindb/internal/logging"
	"github.com/dmitrijs2005/penguindb/internal/metrics"
	"github.com/dmitrijs2005/penguindb/internal/ratelimit"
	"github.com/dmitrijs2005/penguindb/internal/repositories/repomanager"
	"github.com/dmitrijs2005/penguindb/internal/services"
)

const (
	shutdownTimeout  = 10 * time.Second
	limiterCleanupIn = 5 * time.Minute
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	server  *httpapi.Server
	tiers   *ratelimit.Tiers
	tracker *metrics.Tracker
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := repomanager.Connect(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	tiers := ratelimit.NewTiers()
	tracker := metrics.NewTracker()

	us := services.NewUserService(db, rm, cfg, logger)
	ps := services.NewPenguinService(db, rm)

	srv := httpapi.NewServer(us, ps, db, cfg, logger, tiers, tracker)

	return &App{
		config:  cfg,
		logger:  logger,
		db:      db,
		server:  srv,
		tiers:   tiers,
		tracker: tracker,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	httpServer := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.server.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "server shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddr)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "server error", "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app...", "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)
	app.tiers.StartCleanup(ctx, limiterCleanupIn)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "server shutdown complete")
}
