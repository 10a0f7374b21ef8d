package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/benchview/benchview/internal/application/port"
	"github.com/benchview/benchview/internal/domain/entity"
	"github.com/benchview/benchview/internal/domain/url"
	"github.com/benchview/benchview/internal/logging"
)

// EndpointSetter repoints the event channel subscription. Satisfied by the
// bridge client.
type EndpointSetter interface {
	SetEndpoint(endpoint string)
}

// WorkspaceConfig seeds the initial layout and endpoint selection.
type WorkspaceConfig struct {
	Initial        entity.LayoutState
	BridgeEndpoint string
	MockEndpoint   string
	MockMode       bool
}

// WorkspaceUseCase owns the layout state: panel visibility, dock side,
// workspace split, navigation target and control bar offset. It is the
// single writer; every reader gets value copies. Surface round-trips run
// outside the lock, so two rapid mutations can complete host-side out of
// order — each call carries the state current at call time and the surface
// recomputes bounds from scratch, so the last completion converges.
type WorkspaceUseCase struct {
	surface port.PanelSurface
	channel EndpointSetter

	mu             sync.Mutex
	state          entity.LayoutState
	bridgeEndpoint string
	mockEndpoint   string
	mockMode       bool
	listeners      []func(entity.LayoutState)
}

// NewWorkspaceUseCase creates the workspace orchestrator. The initial
// state is re-validated, so out-of-range config or stale session values
// cannot leak in.
func NewWorkspaceUseCase(surface port.PanelSurface, channel EndpointSetter, cfg WorkspaceConfig) *WorkspaceUseCase {
	st := cfg.Initial
	st.SetSplit(st.WorkspaceSplit)
	st.SetPanelURL(st.PanelURL)
	st.SetControlBarOffset(st.ControlBarOffset)
	if _, ok := entity.ParseDockSide(string(st.DockSide)); !ok {
		st.DockSide = entity.DockRight
	}

	return &WorkspaceUseCase{
		surface:        surface,
		channel:        channel,
		state:          st,
		bridgeEndpoint: strings.TrimSpace(cfg.BridgeEndpoint),
		mockEndpoint:   strings.TrimSpace(cfg.MockEndpoint),
		mockMode:       cfg.MockMode,
	}
}

// Layout returns a copy of the current layout state.
func (uc *WorkspaceUseCase) Layout() entity.LayoutState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.state
}

// MockMode reports whether the channel is held on the simulator endpoint.
func (uc *WorkspaceUseCase) MockMode() bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.mockMode
}

// OnChange registers a listener invoked with a state snapshot after every
// mutation. Listeners run on the mutating goroutine and must not call back
// into the use case.
func (uc *WorkspaceUseCase) OnChange(fn func(entity.LayoutState)) {
	uc.mu.Lock()
	uc.listeners = append(uc.listeners, fn)
	uc.mu.Unlock()
}

// Connect points the event channel at the effective endpoint: the
// simulator when mock mode is on, the configured controller otherwise.
func (uc *WorkspaceUseCase) Connect() {
	uc.mu.Lock()
	endpoint := uc.effectiveEndpointLocked()
	uc.mu.Unlock()

	uc.channel.SetEndpoint(endpoint)
}

// SetURLAndShow resolves rawURL, navigates the panel and makes it
// visible. Navigation is awaited before visibility flips so the panel is
// never shown mid-navigation with stale content; if navigation fails,
// visibility is still granted with the last successfully loaded content.
// A blank panel is worse than a stale one.
func (uc *WorkspaceUseCase) SetURLAndShow(ctx context.Context, rawURL string) error {
	log := logging.FromContext(ctx)

	// Remote controllers and the settings sheet both land here, so this
	// is the one place navigation input gets normalized.
	uc.mu.Lock()
	resolved := uc.state.SetPanelURL(url.ForPanel(rawURL))
	uc.mu.Unlock()

	visible, err := uc.surface.Show(ctx, resolved)
	if err != nil || !visible {
		log.Warn().Err(err).Str("url", resolved).Msg("navigation failed, showing prior content")
		if _, attachErr := uc.surface.Attach(ctx); attachErr != nil {
			log.Warn().Err(attachErr).Msg("attach after failed navigation")
		}
	}

	uc.mu.Lock()
	uc.state.PanelVisible = true
	snapshot := uc.state
	uc.mu.Unlock()

	// Split changes made while hidden never reached the surface; push the
	// current values now that it is visible again.
	uc.syncBounds(ctx, snapshot)
	uc.notify()

	log.Info().Str("url", resolved).Msg("panel shown")
	return nil
}

// ToggleVisibility hides the panel when visible, otherwise resolves a URL
// and shows it. The authoritative visible/hidden result comes back from
// the surface round-trip; local state mirrors it rather than assuming
// success.
func (uc *WorkspaceUseCase) ToggleVisibility(ctx context.Context, urlOverride string) error {
	log := logging.FromContext(ctx)

	uc.mu.Lock()
	if uc.state.PanelVisible {
		uc.mu.Unlock()

		surfaceState, err := uc.surface.Detach(ctx)

		uc.mu.Lock()
		uc.state.PanelVisible = surfaceState == port.SurfaceAttached
		uc.mu.Unlock()
		uc.notify()

		if err != nil {
			return fmt.Errorf("hiding panel: %w", err)
		}
		log.Info().Msg("panel hidden")
		return nil
	}

	resolved := uc.state.SetPanelURL(url.ForPanel(urlOverride))
	uc.mu.Unlock()

	visible, err := uc.surface.Show(ctx, resolved)

	uc.mu.Lock()
	uc.state.PanelVisible = visible
	snapshot := uc.state
	uc.mu.Unlock()

	uc.syncBounds(ctx, snapshot)
	uc.notify()

	if err != nil {
		return fmt.Errorf("showing panel: %w", err)
	}
	log.Info().Str("url", resolved).Msg("panel shown")
	return nil
}

// ApplyLayout applies a remote layout instruction. A dock side replaces
// directly. A split value is a target, not a jump: the per-event change is
// limited so a stream of remote corrections tracks smoothly instead of
// snapping. Returns the split delta actually applied, which the dispatcher
// accumulates for the debounced console notification.
func (uc *WorkspaceUseCase) ApplyLayout(ctx context.Context, side *entity.DockSide, split *float64) (float64, error) {
	uc.mu.Lock()
	var delta float64
	changed := false
	if side != nil && *side != uc.state.DockSide {
		uc.state.DockSide = *side
		changed = true
	}
	if split != nil {
		delta = uc.state.StepTowardSplit(*split)
		if delta != 0 {
			changed = true
		}
	}
	snapshot := uc.state
	uc.mu.Unlock()

	if changed {
		uc.syncBounds(ctx, snapshot)
		uc.notify()
	}

	logging.FromContext(ctx).Debug().
		Str("dock_side", string(snapshot.DockSide)).
		Float64("split", snapshot.WorkspaceSplit).
		Float64("applied_delta", delta).
		Msg("layout applied")

	return delta, nil
}

// SetSplitFromDrag applies a split computed from an active pointer drag.
// Direct manipulation is bounded by the drag range itself, so it bypasses
// the per-event step limit; the value is still clamped.
func (uc *WorkspaceUseCase) SetSplitFromDrag(ctx context.Context, split float64) {
	uc.mu.Lock()
	before := uc.state.WorkspaceSplit
	uc.state.SetSplit(split)
	snapshot := uc.state
	uc.mu.Unlock()

	if snapshot.WorkspaceSplit == before {
		return
	}
	uc.syncBounds(ctx, snapshot)
	uc.notify()
}

// SetControlBarOffset reserves vertical space for chrome above the
// workspace.
func (uc *WorkspaceUseCase) SetControlBarOffset(ctx context.Context, px int) {
	uc.mu.Lock()
	before := uc.state.ControlBarOffset
	uc.state.SetControlBarOffset(px)
	snapshot := uc.state
	uc.mu.Unlock()

	if snapshot.ControlBarOffset == before {
		return
	}
	uc.syncBounds(ctx, snapshot)
	uc.notify()
}

// SetMockMode switches the event channel between the configured controller
// endpoint and the built-in simulator endpoint.
func (uc *WorkspaceUseCase) SetMockMode(ctx context.Context, enabled bool) error {
	uc.mu.Lock()
	uc.mockMode = enabled
	endpoint := uc.effectiveEndpointLocked()
	uc.mu.Unlock()

	uc.channel.SetEndpoint(endpoint)
	logging.FromContext(ctx).Info().Bool("enabled", enabled).Str("endpoint", endpoint).Msg("mock mode set")
	return nil
}

// SetBridgeEndpoint replaces the controller endpoint. Takes effect
// immediately unless mock mode is holding the channel on the simulator, in
// which case the new endpoint applies once mock mode is disabled.
func (uc *WorkspaceUseCase) SetBridgeEndpoint(ctx context.Context, endpoint string) error {
	uc.mu.Lock()
	uc.bridgeEndpoint = strings.TrimSpace(endpoint)
	mock := uc.mockMode
	effective := uc.effectiveEndpointLocked()
	uc.mu.Unlock()

	if !mock {
		uc.channel.SetEndpoint(effective)
	}
	logging.FromContext(ctx).Info().Str("endpoint", endpoint).Bool("deferred", mock).Msg("bridge endpoint set")
	return nil
}

// syncBounds mirrors snapshot into the surface. Only meaningful while the
// panel is visible. The surface clamps and recomputes bounds from scratch,
// so a stale-ordered apply converges once the latest-state call completes.
func (uc *WorkspaceUseCase) syncBounds(ctx context.Context, snapshot entity.LayoutState) {
	if !snapshot.PanelVisible {
		return
	}
	if _, err := uc.surface.Resize(ctx, snapshot.PanelFraction(), snapshot.ControlBarOffset); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("surface resize failed")
	}
}

func (uc *WorkspaceUseCase) effectiveEndpointLocked() string {
	if uc.mockMode {
		return uc.mockEndpoint
	}
	return uc.bridgeEndpoint
}

func (uc *WorkspaceUseCase) notify() {
	uc.mu.Lock()
	snapshot := uc.state
	listeners := make([]func(entity.LayoutState), len(uc.listeners))
	copy(listeners, uc.listeners)
	uc.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
