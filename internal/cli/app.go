// Package cli provides the terminal-side application context shared by
// benchview subcommands.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/benchview/benchview/internal/application/usecase"
	"github.com/benchview/benchview/internal/domain/build"
	"github.com/benchview/benchview/internal/infrastructure/config"
	"github.com/benchview/benchview/internal/infrastructure/persistence/sqlite"
	"github.com/benchview/benchview/internal/logging"
)

// App holds the dependencies CLI commands share.
type App struct {
	Config    *config.Config
	BuildInfo build.Info

	HistoryUC *usecase.ListHistoryUseCase

	db  *sql.DB
	ctx context.Context
}

// NewApp loads configuration, opens the database, and builds the use cases
// the subcommands need.
func NewApp() (*App, error) {
	cfg := loadConfig()

	// Keep command output clean: CLI runs log at warn unless the
	// environment raises the level.
	logLevel := "warn"
	if envLevel := os.Getenv("BENCHVIEW_LOG_LEVEL"); envLevel != "" {
		logLevel = envLevel
	}
	logger := logging.NewFromConfigValues(logLevel, cfg.Logging.Format)
	ctx := logging.WithContext(context.Background(), logger)

	dbFile := cfg.Database.Path
	if dbFile == "" {
		var err error
		dbFile, err = config.GetDatabaseFile()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}

	db, err := sqlite.NewConnection(ctx, dbFile)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	historyRepo := sqlite.NewNavHistoryRepository(db)

	return &App{
		Config:    cfg,
		HistoryUC: usecase.NewListHistoryUseCase(historyRepo),
		db:        db,
		ctx:       ctx,
	}, nil
}

// Close releases all resources.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// loadConfig loads configuration from standard locations, falling back to
// defaults when no file can be read.
func loadConfig() *config.Config {
	mgr, err := config.NewManager()
	if err != nil {
		return config.DefaultConfig()
	}

	if err := mgr.Load(); err != nil {
		return config.DefaultConfig()
	}

	return mgr.Get()
}
