// Package server wires the Monyze server together: it opens storage, runs
// migrations, builds the services, and runs the HTTP server until the process
// is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/monyze/internal/logging"
	"github.com/dmitrijs2005/monyze/internal/server/config"
	"github.com/dmitrijs2005/monyze/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/monyze/internal/server/services"

	hs "github.com/dmitrijs2005/monyze/internal/server/http"
)

const dbPingTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	userService *services.UserService
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

func NewApp(c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)

	app := &App{config: c, logger: logger}

	switch c.StorageType {
	case config.StorageMemory:
		app.repomanager = repomanager.NewMemoryRepositoryManager()
	default:
		db, err := sqlOpen("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm, err := repomanager.NewPostgresRepositoryManager(db)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db
		app.repomanager = rm
	}

	us, err := services.NewUserService(app.repomanager, c, logger)
	if err != nil {
		app.close()
		return nil, err
	}
	app.userService = us

	return app, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) prepareStorage(ctx context.Context) error {
	if app.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
		defer cancel()
		if err := app.db.PingContext(pingCtx); err != nil {
			return fmt.Errorf("db ping error: %w", err)
		}
	}
	if err := app.repomanager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {

	s, err := hs.NewHTTPServer(app.config, app.logger, app.userService)
	if err != nil {
		cancelFunc()
		return err
	}

	if err := s.Run(ctx); err != nil {
		cancelFunc()
		return err
	}

	return nil
}

// Run blocks until ctx is cancelled, a termination signal arrives, or the
// HTTP server fails. Storage is released before returning.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageType)

	app.initSignalHandler(ctx, cancelFunc)

	if err := app.prepareStorage(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.startHTTPServer(ctx, cancelFunc); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
		}
	}()

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return runErr
}

func (app *App) close() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(context.Background(), "error closing db", "error", err)
		}
		app.db = nil
	}
}
