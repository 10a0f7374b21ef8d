package control

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/benchview/benchview/internal/application/port"
	"github.com/benchview/benchview/internal/bridge"
	"github.com/benchview/benchview/internal/domain/entity"
)

// Workspace is the slice of workspace behavior commands are allowed to
// drive. The dispatcher never reaches past it into widgets or state.
type Workspace interface {
	// SetURLAndShow navigates the panel and makes it visible.
	SetURLAndShow(ctx context.Context, url string) error

	// ToggleVisibility flips the panel between shown and hidden. An empty
	// urlOverride shows whatever the panel last displayed.
	ToggleVisibility(ctx context.Context, urlOverride string) error

	// ApplyLayout applies dock side and/or split target. Nil fields leave
	// the current value alone. Returns the split delta actually applied.
	ApplyLayout(ctx context.Context, side *entity.DockSide, split *float64) (float64, error)

	// SetMockMode switches the event channel between the configured
	// controller endpoint and the built-in simulator.
	SetMockMode(ctx context.Context, enabled bool) error

	// SetBridgeEndpoint repoints the event channel.
	SetBridgeEndpoint(ctx context.Context, endpoint string) error
}

// Dispatcher executes decoded controller commands against the workspace.
// It runs on the event channel's read goroutine, one command at a time, in
// stream order.
type Dispatcher struct {
	ws     Workspace
	steps  port.StepRunner
	adjust *Adjuster
	log    zerolog.Logger

	mu  sync.RWMutex
	ctx context.Context
}

// NewDispatcher wires commands to the workspace, step runner and split
// adjuster.
func NewDispatcher(logger zerolog.Logger, ws Workspace, steps port.StepRunner, adjust *Adjuster) *Dispatcher {
	return &Dispatcher{
		ws:     ws,
		steps:  steps,
		adjust: adjust,
		log:    logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Start binds the lifecycle context used for command execution. Commands
// dispatched before Start run against context.Background.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	d.ctx = ctx
	d.mu.Unlock()
}

// Dispatch executes one command. Failures are logged and swallowed: a bad
// command must never take down the channel that delivered it.
func (d *Dispatcher) Dispatch(cmd bridge.Command) {
	ctx := d.context()

	var err error
	switch c := cmd.(type) {
	case bridge.SetURL:
		err = d.ws.SetURLAndShow(ctx, c.URL)

	case bridge.TogglePanel:
		err = d.ws.ToggleVisibility(ctx, "")

	case bridge.TriggerStep:
		err = d.steps.TriggerStep(ctx, c.Step)

	case bridge.SetLayout:
		var delta float64
		delta, err = d.ws.ApplyLayout(ctx, c.DockSide, c.WorkspaceSplit)
		if c.WorkspaceSplit != nil {
			// Remote split nudges echo back to the console once the burst
			// settles, so it can keep its own picture of the bench current.
			d.adjust.Add(delta)
		}

	case bridge.SetMockMode:
		err = d.ws.SetMockMode(ctx, c.Enabled)

	case bridge.SetBridgeEndpoint:
		err = d.ws.SetBridgeEndpoint(ctx, c.Endpoint)

	default:
		d.log.Warn().Str("type", fmt.Sprintf("%T", cmd)).Msg("no handler for command")
		return
	}

	if err != nil {
		d.log.Error().Err(err).Str("type", fmt.Sprintf("%T", cmd)).Msg("command failed")
	}
}

func (d *Dispatcher) context() context.Context {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.ctx != nil {
		return d.ctx
	}
	return context.Background()
}
