package webkit

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/benchview/benchview/internal/application/port"
	"github.com/benchview/benchview/internal/domain/entity"
	"github.com/benchview/benchview/internal/ui/layout"
)

// PanelView is the navigable content a surface manages. *WebView
// satisfies it; tests substitute fakes so the attach machinery runs
// without a display server.
type PanelView interface {
	Load(ctx context.Context, url string) error
	Snapshot(ctx context.Context) (port.Image, error)
	SetVisible(visible bool)
	Alive() bool
}

// PanelDock anchors the panel widget inside the host window. The window
// side captures the concrete widget at construction, so no widget types
// cross this boundary. ApplyLayout receives already-clamped values and
// recomputes pixel bounds from the window's current size.
type PanelDock interface {
	Mount()
	Unmount()
	ApplyLayout(fraction float64, topOffset int)
}

// Surface is the panel's attach state machine: Detached ⇄ Attached. Two
// configurations exist, selected once at startup: the native overlay
// surface layered over the window (snapshot-capable, detached while the
// settings overlay is up) and the in-page embed packed into the workspace
// box (no snapshot source, never detached for overlays).
//
// Navigation state deliberately survives detach: Attach restores the last
// loaded content without reloading it.
type Surface struct {
	log  zerolog.Logger
	view PanelView
	dock PanelDock

	snapshots bool

	mu        sync.Mutex
	attached  bool
	loaded    bool
	lastURL   string
	fraction  float64
	topOffset int
}

// NewOverlaySurface builds the out-of-page surface configuration.
func NewOverlaySurface(logger zerolog.Logger, view PanelView, dock PanelDock) *Surface {
	return newSurface(logger, view, dock, true)
}

// NewInlineSurface builds the in-page embed configuration.
func NewInlineSurface(logger zerolog.Logger, view PanelView, dock PanelDock) *Surface {
	return newSurface(logger, view, dock, false)
}

func newSurface(logger zerolog.Logger, view PanelView, dock PanelDock, snapshots bool) *Surface {
	return &Surface{
		log:       logger.With().Str("component", "panel-surface").Logger(),
		view:      view,
		dock:      dock,
		snapshots: snapshots,
		fraction:  layout.PanelFraction(entity.DefaultWorkspaceSplit),
	}
}

// Show navigates when the surface has no content yet or the URL differs
// from the last load, then attaches and applies current bounds. One
// attempt: a failed navigation skips attachment and reports the failure.
func (s *Surface) Show(ctx context.Context, url string) (bool, error) {
	s.mu.Lock()
	needsLoad := !s.loaded || s.lastURL != url
	s.mu.Unlock()

	if needsLoad {
		if _, err := s.Load(ctx, url); err != nil {
			return false, err
		}
	}

	s.mu.Lock()
	wasAttached := s.attached
	s.attached = true
	fraction, topOffset := s.fraction, s.topOffset
	s.mu.Unlock()

	if !wasAttached {
		s.dock.Mount()
	}
	s.view.SetVisible(true)
	s.dock.ApplyLayout(fraction, topOffset)

	s.log.Debug().Str("url", url).Bool("navigated", needsLoad).Msg("panel shown")
	return true, nil
}

// Load navigates without changing attach state.
func (s *Surface) Load(ctx context.Context, url string) (bool, error) {
	if err := s.view.Load(ctx, url); err != nil {
		return false, fmt.Errorf("navigate panel: %w", err)
	}

	s.mu.Lock()
	s.loaded = true
	s.lastURL = url
	s.mu.Unlock()
	return true, nil
}

// Resize clamps the requested layout host-side and applies it. Attach
// state is untouched; a detached surface picks the values up on the next
// Attach.
func (s *Surface) Resize(ctx context.Context, fraction float64, topOffset int) (port.AppliedLayout, error) {
	applied := port.AppliedLayout{
		Fraction:  layout.ClampFraction(fraction),
		TopOffset: layout.ClampTopOffset(topOffset),
	}

	s.mu.Lock()
	s.fraction = applied.Fraction
	s.topOffset = applied.TopOffset
	attached := s.attached
	s.mu.Unlock()

	if attached {
		s.dock.ApplyLayout(applied.Fraction, applied.TopOffset)
	}
	return applied, nil
}

// Detach removes the panel from the layer stack. Idempotent, including
// when the content process died out-of-band: the widget is unparented
// either way and a second call is a no-op.
func (s *Surface) Detach(ctx context.Context) (port.SurfaceState, error) {
	s.mu.Lock()
	wasAttached := s.attached
	s.attached = false
	s.mu.Unlock()

	if !wasAttached {
		return port.SurfaceDetached, nil
	}

	if !s.view.Alive() {
		s.log.Debug().Msg("detaching panel with dead content process")
	}
	s.view.SetVisible(false)
	s.dock.Unmount()

	s.log.Debug().Msg("panel detached")
	return port.SurfaceDetached, nil
}

// Attach restores the panel with its current content and last applied
// layout. It never navigates; pairing it with Detach preserves the page
// exactly across a settings overlay.
func (s *Surface) Attach(ctx context.Context) (port.SurfaceState, error) {
	s.mu.Lock()
	wasAttached := s.attached
	s.attached = true
	loaded := s.loaded
	fraction, topOffset := s.fraction, s.topOffset
	s.mu.Unlock()

	if wasAttached {
		return port.SurfaceAttached, nil
	}
	if !loaded {
		s.log.Debug().Msg("attaching panel that never navigated")
	}

	s.dock.Mount()
	s.view.SetVisible(true)
	s.dock.ApplyLayout(fraction, topOffset)

	s.log.Debug().Msg("panel attached")
	return port.SurfaceAttached, nil
}

// Snapshot renders the current content into an image handle. Best-effort:
// the in-page configuration has no snapshot source and a dead or empty
// view renders nothing, both reported as a nil image.
func (s *Surface) Snapshot(ctx context.Context) (port.Image, error) {
	if !s.snapshots {
		return nil, nil
	}

	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()

	if !loaded || !s.view.Alive() {
		return nil, nil
	}
	return s.view.Snapshot(ctx)
}
