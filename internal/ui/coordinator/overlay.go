// Package coordinator connects workspace state to widget-level behavior
// that spans more than one component.
package coordinator

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/benchview/benchview/internal/application/port"
	"github.com/benchview/benchview/internal/domain/entity"
)

// OverlayPhase is the lifecycle state of the settings overlay.
type OverlayPhase string

const (
	OverlayClosed  OverlayPhase = "closed"
	OverlayOpening OverlayPhase = "opening"
	OverlayOpen    OverlayPhase = "open"
	OverlayClosing OverlayPhase = "closing"
)

// OverlaySession records what the open sequence actually did, so the close
// sequence undoes exactly that and nothing more.
type OverlaySession struct {
	WasPanelVisible    bool
	DetachedForOverlay bool
	Snapshot           port.Image
}

// LayoutReader provides the current layout snapshot.
type LayoutReader interface {
	Layout() entity.LayoutState
}

// OverlayView is the widget side the controller drives: the modal itself
// and the snapshot placeholder shown where the panel was.
type OverlayView interface {
	ShowOverlay()
	HideOverlay()

	// ShowPlaceholder displays img in the panel's screen region. A nil
	// image selects a neutral placeholder.
	ShowPlaceholder(img port.Image)
	ClearPlaceholder()
}

// OverlayController runs the settings overlay lifecycle. When the panel is
// backed by an out-of-page surface, that surface would punch through any
// in-page modal, so opening detaches it and shows a static snapshot in its
// place; closing reattaches it without re-triggering navigation. The
// workspace's visibility intent is never touched.
type OverlayController struct {
	layout      LayoutReader
	surface     port.PanelSurface
	view        OverlayView
	hostSurface bool
	log         zerolog.Logger

	mu      sync.Mutex
	phase   OverlayPhase
	session *OverlaySession
}

// NewOverlayController creates the controller. hostSurface reports whether
// the panel is backed by an out-of-page surface; the in-page embed needs
// no detach because the modal stacks above it.
func NewOverlayController(logger zerolog.Logger, layout LayoutReader, surface port.PanelSurface, view OverlayView, hostSurface bool) *OverlayController {
	return &OverlayController{
		layout:      layout,
		surface:     surface,
		view:        view,
		hostSurface: hostSurface,
		log:         logger.With().Str("component", "overlay").Logger(),
		phase:       OverlayClosed,
	}
}

// Phase returns the current lifecycle state.
func (c *OverlayController) Phase() OverlayPhase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Session returns the active session, or nil while closed.
func (c *OverlayController) Session() *OverlaySession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Open runs the open sequence. Requests arriving while the overlay is not
// fully closed are ignored.
func (c *OverlayController) Open(ctx context.Context) {
	c.mu.Lock()
	if c.phase != OverlayClosed {
		c.mu.Unlock()
		return
	}
	c.phase = OverlayOpening
	state := c.layout.Layout()
	session := &OverlaySession{WasPanelVisible: state.PanelVisible}
	c.session = session
	c.mu.Unlock()

	if c.hostSurface && state.PanelVisible {
		if _, err := c.surface.Detach(ctx); err != nil {
			c.log.Warn().Err(err).Msg("detach for overlay failed")
		}
		session.DetachedForOverlay = true

		img, err := c.surface.Snapshot(ctx)
		if err != nil {
			c.log.Debug().Err(err).Msg("snapshot unavailable, using placeholder")
			img = nil
		}
		session.Snapshot = img
		c.view.ShowPlaceholder(img)
	}

	c.view.ShowOverlay()

	c.mu.Lock()
	c.phase = OverlayOpen
	c.mu.Unlock()

	c.log.Debug().
		Bool("was_panel_visible", session.WasPanelVisible).
		Bool("detached", session.DetachedForOverlay).
		Msg("overlay opened")
}

// Close runs the close sequence: reattach only if this session performed a
// detach, then discard the snapshot.
func (c *OverlayController) Close(ctx context.Context) {
	c.mu.Lock()
	if c.phase != OverlayOpen {
		c.mu.Unlock()
		return
	}
	c.phase = OverlayClosing
	session := c.session
	c.session = nil
	c.mu.Unlock()

	c.view.HideOverlay()

	if session != nil && session.DetachedForOverlay {
		if _, err := c.surface.Attach(ctx); err != nil {
			c.log.Warn().Err(err).Msg("reattach after overlay failed")
		}
		c.view.ClearPlaceholder()
	}

	c.mu.Lock()
	c.phase = OverlayClosed
	c.mu.Unlock()

	c.log.Debug().Msg("overlay closed")
}
