package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/benchview/benchview/internal/application/usecase"
	"github.com/benchview/benchview/internal/cli/cmd"
	"github.com/benchview/benchview/internal/domain/build"
	"github.com/benchview/benchview/internal/domain/entity"
	"github.com/benchview/benchview/internal/infrastructure/config"
	"github.com/benchview/benchview/internal/infrastructure/persistence/sqlite"
	"github.com/benchview/benchview/internal/logging"
	"github.com/benchview/benchview/internal/ui"
	"github.com/benchview/benchview/internal/ui/mainloop"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	enableCrashForensics()

	// No arguments launches the shell; anything else goes through the
	// CLI.
	if len(os.Args) == 1 {
		os.Exit(runShell())
	}

	cmd.SetBuildInfo(build.Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	})
	cmd.Execute()
}

func runShell() int {
	mainloop.Init()

	cfgManager, cfg := initConfig()

	logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)
	crashDir, err := config.GetCrashDir()
	if err != nil {
		crashDir = ""
	}
	logging.SetupCrashHandler(logger, crashDir)
	logger.Info().
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Msg("starting benchview")
	ctx := logging.WithContext(context.Background(), logger)

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("database unavailable")
		return 1
	}
	defer func() { _ = sqlite.Close(db) }()

	snapshotUC := usecase.NewSnapshotLayoutUseCase(sqlite.NewLayoutSessionRepository(db))
	recordNavUC := usecase.NewRecordNavigationUseCase(sqlite.NewNavHistoryRepository(db))
	defer recordNavUC.Close()

	app, err := ui.New(&ui.Dependencies{
		Ctx:             ctx,
		Config:          cfg,
		ConfigManager:   cfgManager,
		RestoredSession: restoreSession(ctx, cfg, snapshotUC),
		SnapshotUC:      snapshotUC,
		RecordNavUC:     recordNavUC,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to create application")
		return 1
	}

	setupSignalHandler(ctx, app)
	return app.Run()
}

func initConfig() (*config.Manager, *config.Config) {
	mgr, err := config.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize configuration: %v\n", err)
		os.Exit(1)
	}
	if err := mgr.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return mgr, mgr.Get()
}

func openDatabase(ctx context.Context, cfg *config.Config) (db *sql.DB, err error) {
	dbFile := cfg.Database.Path
	if dbFile == "" {
		dbFile, err = config.GetDatabaseFile()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}
	return sqlite.NewConnection(ctx, dbFile)
}

// restoreSession loads the last persisted layout. Best-effort: a fresh
// database or a read failure both start the shell with config defaults.
func restoreSession(ctx context.Context, cfg *config.Config, uc *usecase.SnapshotLayoutUseCase) *entity.LayoutSession {
	if !cfg.Session.Restore {
		return nil
	}

	ctx = logging.WithComponent(ctx, "session-restore")
	session, err := uc.RestoreLatest(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("could not restore previous layout")
		return nil
	}
	return session
}

func setupSignalHandler(ctx context.Context, app *ui.App) {
	log := logging.FromContext(ctx)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		signal.Stop(sigCh)
		log.Info().Str("signal", sig.String()).Msg("received interrupt, quitting")
		app.Quit()
	}()
}
