package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/benchview/benchview/internal/cli/model"
	"github.com/benchview/benchview/internal/infrastructure/simulator"
	"github.com/benchview/benchview/internal/logging"
)

var (
	simulateAddr        string
	simulateScript      bool
	simulateInteractive bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the mock bridge server",
	Long: `Serve the event channel locally so the shell can be driven without a
real controller. Point bridge.mock_endpoint (or the settings sheet) at
http://<addr>/stream and enable mock mode.

With --script, the built-in demonstration sequence plays once after
startup. With --interactive, a console opens for publishing commands by
hand. Plain events can also be injected from anywhere:

  curl -X POST http://127.0.0.1:8808/command \
    -d '{"type":"togglePanel"}'`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVar(&simulateAddr, "addr", "127.0.0.1:8808", "listen address")
	simulateCmd.Flags().BoolVar(&simulateScript, "script", false, "play the demonstration scenario once")
	simulateCmd.Flags().BoolVar(&simulateInteractive, "interactive", false, "open the command console")
}

func runSimulate(_ *cobra.Command, _ []string) error {
	logger := logging.NewFromEnv()
	if simulateInteractive {
		// The console owns the terminal; logs would tear its frames.
		logger = logger.Level(logging.ParseLevel("error"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := simulator.NewServer(logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := server.ListenAndServe(ctx, simulateAddr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	if simulateScript {
		g.Go(func() error {
			err := server.RunScenario(ctx, simulator.DemoScenario())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	if simulateInteractive {
		g.Go(func() error {
			defer stop() // closing the console stops the server too
			program := tea.NewProgram(model.NewSimulatorModel(server))
			go func() {
				<-ctx.Done()
				program.Quit()
			}()
			_, err := program.Run()
			return err
		})
	} else {
		fmt.Printf("mock bridge listening on http://%s (stream at /stream)\n", simulateAddr)
	}

	return g.Wait()
}
