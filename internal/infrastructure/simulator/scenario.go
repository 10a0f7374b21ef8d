package simulator

import (
	"context"
	"fmt"
	"time"

	"github.com/benchview/benchview/internal/bridge"
	"github.com/benchview/benchview/internal/domain/entity"
)

// ScenarioStep pairs a command with the pause before it is sent.
type ScenarioStep struct {
	Delay   time.Duration
	Command bridge.Command
}

// DemoScenario returns the built-in demonstration sequence: navigate,
// toggle the panel twice, navigate again, then move the dock across both
// sides. It exercises every visible shell reaction in under half a minute.
func DemoScenario() []ScenarioStep {
	left := entity.DockLeft
	right := entity.DockRight
	half := 50.0
	wide := 70.0

	return []ScenarioStep{
		{Delay: 2 * time.Second, Command: bridge.SetURL{URL: "https://www.wikipedia.org"}},
		{Delay: 5 * time.Second, Command: bridge.TogglePanel{}},
		{Delay: 3 * time.Second, Command: bridge.TogglePanel{}},
		{Delay: 3 * time.Second, Command: bridge.SetURL{URL: "https://github.com"}},
		{Delay: 5 * time.Second, Command: bridge.SetLayout{DockSide: &left, WorkspaceSplit: &half}},
		{Delay: 5 * time.Second, Command: bridge.SetLayout{DockSide: &right, WorkspaceSplit: &wide}},
	}
}

// RunScenario plays the steps in order, honoring each delay, and returns
// once the last command is published. Cancellation stops playback between
// steps; the server keeps running independently.
func (s *Server) RunScenario(ctx context.Context, steps []ScenarioStep) error {
	for _, step := range steps {
		if step.Delay > 0 {
			timer := time.NewTimer(step.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		if _, err := s.Publish(step.Command); err != nil {
			return fmt.Errorf("publish %s: %w", bridge.CommandName(step.Command), err)
		}
	}

	s.logger.Info().Int("steps", len(steps)).Msg("scenario finished")
	return nil
}
