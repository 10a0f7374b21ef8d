package window

import (
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/benchview/benchview/internal/ui/mainloop"
)

// OverlayDock floats the panel widget over the workspace as a window layer
// pinned to pixel bounds. The workspace slot stays reserved underneath so
// the camera keeps its computed share.
type OverlayDock struct {
	mw     *MainWindow
	widget gtk.Widgetter
}

// NewOverlayDock binds widget as the window's floating panel layer.
func (mw *MainWindow) NewOverlayDock(widget gtk.Widgetter) *OverlayDock {
	return &OverlayDock{mw: mw, widget: widget}
}

// Mount adds the panel layer and reserves the workspace slot.
func (d *OverlayDock) Mount() {
	mainloop.Post(func() {
		if d.mw.panelLayer != nil {
			return
		}
		d.mw.panelLayer = d.widget
		d.mw.root.AddOverlay(d.widget)
		d.mw.panelSlot.SetVisible(true)
		d.mw.projectLayout()
	})
}

// Unmount removes the panel layer and collapses the workspace slot, giving
// the camera the full width.
func (d *OverlayDock) Unmount() {
	mainloop.Post(func() {
		if d.mw.panelLayer == nil {
			return
		}
		d.mw.root.RemoveOverlay(d.widget)
		d.mw.panelLayer = nil
		d.mw.panelSlot.SetVisible(false)
	})
}

// ApplyLayout repositions the layer and the divider.
func (d *OverlayDock) ApplyLayout(fraction float64, topOffset int) {
	d.mw.applyPanelLayout(fraction, topOffset)
}

// InlineDock packs the panel widget into the workspace slot, side by side
// with the camera inside the paned.
type InlineDock struct {
	mw      *MainWindow
	widget  gtk.Widgetter
	mounted bool // main loop confined
}

// NewInlineDock binds widget as the workspace slot's content.
func (mw *MainWindow) NewInlineDock(widget gtk.Widgetter) *InlineDock {
	return &InlineDock{mw: mw, widget: widget}
}

// Mount packs the panel into the slot.
func (d *InlineDock) Mount() {
	mainloop.Post(func() {
		if d.mounted {
			return
		}
		d.mounted = true
		d.mw.panelSlot.Append(d.widget)
		d.mw.panelSlot.SetVisible(true)
		d.mw.projectLayout()
	})
}

// Unmount removes the panel from the slot and collapses it.
func (d *InlineDock) Unmount() {
	mainloop.Post(func() {
		if !d.mounted {
			return
		}
		d.mounted = false
		d.mw.panelSlot.Remove(d.widget)
		d.mw.panelSlot.SetVisible(false)
	})
}

// ApplyLayout moves the divider. The slot's vertical placement comes from
// the box layout, so only the width share applies here.
func (d *InlineDock) ApplyLayout(fraction float64, topOffset int) {
	d.mw.applyPanelLayout(fraction, topOffset)
}
