// Package window provides the GTK shell window.
package window

import (
	"context"

	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/rs/zerolog"

	"github.com/benchview/benchview/internal/application/port"
	"github.com/benchview/benchview/internal/domain/entity"
	"github.com/benchview/benchview/internal/logging"
	"github.com/benchview/benchview/internal/ui/component"
	"github.com/benchview/benchview/internal/ui/layout"
	"github.com/benchview/benchview/internal/ui/mainloop"
)

const windowTitle = "BenchView"

// Config carries the initial window geometry and workspace layout.
type Config struct {
	Width     int
	Height    int
	DockSide  entity.DockSide
	Fraction  float64
	TopOffset int
}

// MainWindow is the shell window: a control bar above a camera|panel
// workspace, with layers (floating panel, snapshot placeholder, settings
// sheet) stacked over the full window.
//
// Geometry state is confined to the GTK main loop. Exported mutators
// marshal onto the loop, so they are safe to call from any goroutine.
type MainWindow struct {
	window     *gtk.ApplicationWindow
	root       *gtk.Overlay // layer stack spanning the full window
	rootBox    *gtk.Box     // vertical: control bar + workspace
	workspace  *gtk.Paned   // camera | panel slot
	cameraSlot *gtk.Box
	panelSlot  *gtk.Box

	placeholder *component.Placeholder
	settings    gtk.Widgetter
	panelLayer  gtk.Widgetter // floating panel widget while mounted

	side      entity.DockSide
	fraction  float64
	topOffset int
	applying  bool // suppresses the divider handler during programmatic moves

	onDividerDragged func(split float64)

	coalescer *mainloop.Coalescer
	logger    zerolog.Logger
}

// New builds the shell window inside app. The control bar sits above the
// workspace; camera is packed into the workspace slot matching cfg.DockSide.
// Must run on the GTK main loop.
func New(ctx context.Context, app *gtk.Application, cfg Config, bar *component.ControlBar, camera gtk.Widgetter) (*MainWindow, error) {
	log := logging.FromContext(ctx)

	mw := &MainWindow{
		side:      cfg.DockSide,
		fraction:  layout.ClampFraction(cfg.Fraction),
		topOffset: layout.ClampTopOffset(cfg.TopOffset),
		coalescer: mainloop.NewCoalescer(mainloop.Post),
		logger:    log.With().Str("component", "main-window").Logger(),
	}

	mw.window = gtk.NewApplicationWindow(app)
	if mw.window == nil {
		return nil, ErrWindowCreationFailed
	}
	mw.window.SetTitle(windowTitle)
	mw.window.SetDefaultSize(cfg.Width, cfg.Height)

	mw.root = gtk.NewOverlay()
	if mw.root == nil {
		return nil, ErrWidgetCreationFailed("root overlay")
	}
	mw.root.SetHexpand(true)
	mw.root.SetVexpand(true)

	mw.rootBox = gtk.NewBox(gtk.OrientationVertical, 0)
	mw.rootBox.SetHexpand(true)
	mw.rootBox.SetVexpand(true)
	mw.rootBox.Append(bar.Widget())

	mw.cameraSlot = gtk.NewBox(gtk.OrientationVertical, 0)
	mw.cameraSlot.AddCSSClass("camera-slot")
	mw.cameraSlot.SetHexpand(true)
	mw.cameraSlot.SetVexpand(true)
	if camera != nil {
		mw.cameraSlot.Append(camera)
	}

	mw.panelSlot = gtk.NewBox(gtk.OrientationVertical, 0)
	mw.panelSlot.AddCSSClass("panel-slot")
	mw.panelSlot.SetHexpand(true)
	mw.panelSlot.SetVexpand(true)
	mw.panelSlot.SetVisible(false)

	mw.workspace = gtk.NewPaned(gtk.OrientationHorizontal)
	if mw.workspace == nil {
		return nil, ErrWidgetCreationFailed("workspace paned")
	}
	mw.workspace.SetHexpand(true)
	mw.workspace.SetVexpand(true)
	mw.workspace.SetResizeStartChild(true)
	mw.workspace.SetResizeEndChild(true)
	mw.workspace.SetShrinkStartChild(false)
	mw.workspace.SetShrinkEndChild(false)
	mw.assembleWorkspace()
	mw.rootBox.Append(mw.workspace)

	mw.placeholder = component.NewPlaceholder()
	gtk.BaseWidget(mw.placeholder.Widget()).SetVisible(false)

	mw.root.SetChild(mw.rootBox)
	mw.root.AddOverlay(mw.placeholder.Widget())
	mw.window.SetChild(mw.root)

	mw.connectGeometrySignals()
	mw.projectLayout()

	return mw, nil
}

// assembleWorkspace parents the slots according to the dock side. The paned
// handle is the fixed gutter between camera and panel.
func (mw *MainWindow) assembleWorkspace() {
	mw.workspace.SetStartChild(nil)
	mw.workspace.SetEndChild(nil)
	if mw.side == entity.DockLeft {
		mw.workspace.SetStartChild(mw.panelSlot)
		mw.workspace.SetEndChild(mw.cameraSlot)
	} else {
		mw.workspace.SetStartChild(mw.cameraSlot)
		mw.workspace.SetEndChild(mw.panelSlot)
	}
	mw.logger.Debug().Str("dock_side", string(mw.side)).Msg("workspace assembled")
}

func (mw *MainWindow) connectGeometrySignals() {
	mw.workspace.Connect("notify::position", func() {
		if mw.applying {
			return
		}
		width := mw.workspace.Width()
		if width <= 0 {
			return
		}
		split := layout.SplitFromPointer(float64(mw.workspace.Position()), float64(width), mw.side)
		if mw.onDividerDragged != nil {
			mw.onDividerDragged(split)
		}
	})

	// GTK4 keeps default-width/height tracking the live window size, so
	// these fire on interactive resizes too.
	reapply := func() {
		mw.coalescer.Schedule(mainloop.TaskApplyBounds, mw.projectLayout)
	}
	mw.window.Connect("notify::default-width", reapply)
	mw.window.Connect("notify::default-height", reapply)
	mw.window.Connect("map", reapply)
}

// projectLayout recomputes pixel geometry from the cached layout and the
// current window size, moves the divider and repositions the floating
// layers. Main loop only.
func (mw *MainWindow) projectLayout() {
	width, height := mw.contentSize()
	if width <= 0 || height <= 0 {
		return
	}

	panel := layout.PanelBounds(width, height, mw.side, mw.fraction, mw.topOffset)
	camera := layout.CameraBounds(width, height, mw.side, mw.fraction, mw.topOffset)

	mw.applying = true
	if mw.side == entity.DockLeft {
		mw.workspace.SetPosition(panel.Width)
	} else {
		mw.workspace.SetPosition(camera.Width)
	}
	mw.applying = false

	if mw.panelLayer != nil {
		placeLayer(mw.panelLayer, panel)
	}
	placeLayer(mw.placeholder.Widget(), panel)
}

// contentSize is the window's content size, falling back to the configured
// default before the first allocation.
func (mw *MainWindow) contentSize() (int, int) {
	width, height := mw.root.Width(), mw.root.Height()
	if width > 0 && height > 0 {
		return width, height
	}
	return mw.window.DefaultSize()
}

// placeLayer pins an overlay child to pixel bounds via start alignment and
// margins.
func placeLayer(widget gtk.Widgetter, b layout.Bounds) {
	base := gtk.BaseWidget(widget)
	base.SetHalign(gtk.AlignStart)
	base.SetValign(gtk.AlignStart)
	base.SetMarginStart(b.X)
	base.SetMarginTop(b.Y)
	base.SetSizeRequest(b.Width, b.Height)
}

// applyPanelLayout caches the clamped layout and reprojects. Safe from any
// goroutine; surfaces call it with already-clamped values.
func (mw *MainWindow) applyPanelLayout(fraction float64, topOffset int) {
	mainloop.Post(func() {
		mw.fraction = fraction
		mw.topOffset = topOffset
		mw.projectLayout()
	})
}

// SetDockSide reparents the workspace slots and reprojects. Safe from any
// goroutine.
func (mw *MainWindow) SetDockSide(side entity.DockSide) {
	mainloop.Post(func() {
		if side == mw.side {
			return
		}
		mw.side = side
		mw.applying = true
		mw.assembleWorkspace()
		mw.applying = false
		mw.projectLayout()
	})
}

// OnDividerDragged registers fn for pointer moves of the workspace divider.
// fn receives the resulting split percentage, already clamped to the
// workspace range, and runs on the GTK main loop. Register during wiring,
// before the window is presented.
func (mw *MainWindow) OnDividerDragged(fn func(split float64)) {
	mw.onDividerDragged = fn
}

// OnCloseRequest registers fn to run when the user closes the window. The
// window still closes after fn returns.
func (mw *MainWindow) OnCloseRequest(fn func()) {
	mw.window.ConnectCloseRequest(func() bool {
		fn()
		return false
	})
}

// SetSettingsLayer installs the settings sheet as a hidden window layer.
// Call once during wiring.
func (mw *MainWindow) SetSettingsLayer(widget gtk.Widgetter) {
	mainloop.Post(func() {
		mw.settings = widget
		gtk.BaseWidget(widget).SetVisible(false)
		mw.root.AddOverlay(widget)
	})
}

// ShowOverlay raises the settings layer over the whole window. Part of the
// overlay session contract used by the coordinator.
func (mw *MainWindow) ShowOverlay() {
	mainloop.Post(func() {
		if mw.settings != nil {
			gtk.BaseWidget(mw.settings).SetVisible(true)
		}
	})
}

// HideOverlay hides the settings layer.
func (mw *MainWindow) HideOverlay() {
	mainloop.Post(func() {
		if mw.settings != nil {
			gtk.BaseWidget(mw.settings).SetVisible(false)
		}
	})
}

// ShowPlaceholder paints the snapshot, or the neutral pane when img is nil,
// over the panel region while the live surface is detached.
func (mw *MainWindow) ShowPlaceholder(img port.Image) {
	mainloop.Post(func() {
		mw.placeholder.SetImage(img)
		width, height := mw.contentSize()
		if width > 0 && height > 0 {
			placeLayer(mw.placeholder.Widget(), layout.PanelBounds(width, height, mw.side, mw.fraction, mw.topOffset))
		}
		gtk.BaseWidget(mw.placeholder.Widget()).SetVisible(true)
	})
}

// ClearPlaceholder removes the snapshot layer.
func (mw *MainWindow) ClearPlaceholder() {
	mainloop.Post(func() {
		gtk.BaseWidget(mw.placeholder.Widget()).SetVisible(false)
		mw.placeholder.Clear()
	})
}

// Present shows the window.
func (mw *MainWindow) Present() {
	mw.window.Present()
}

// Close closes the window.
func (mw *MainWindow) Close() {
	mw.window.Close()
}
