// Package cmd provides Cobra CLI commands for benchview.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benchview/benchview/internal/cli"
	"github.com/benchview/benchview/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "benchview",
		Short: "Repair bench shell: live camera feed plus an embeddable web panel",
		Long: `BenchView pairs a live camera feed with an embeddable web panel in a
single GTK4 window, driven by an external controller over an SSE event
channel.

Run benchview with no arguments to launch the shell. Subcommands cover
terminal-side operations:

  history     list recent panel navigations
  simulate    run the mock bridge server
  config      configuration helpers
  version     show build information`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Commands that never touch config or the database skip
			// app initialization.
			switch cmd.Name() {
			case "benchview", "help", "completion", "version", "simulate", "path", "schema":
				return nil
			}

			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
