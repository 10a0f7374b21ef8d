package component

import (
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/benchview/benchview/internal/application/port"
)

// Placeholder fills the panel's region while the live surface is detached
// behind the settings overlay. It renders the last snapshot when the surface
// produced one and a neutral pane otherwise. All methods must run on the GTK
// main loop.
type Placeholder struct {
	box     *gtk.Box
	picture *gtk.Picture
	label   *gtk.Label
}

// NewPlaceholder builds the placeholder in its neutral form.
func NewPlaceholder() *Placeholder {
	p := &Placeholder{}

	p.box = gtk.NewBox(gtk.OrientationVertical, 0)
	p.box.AddCSSClass("panel-placeholder")

	p.picture = gtk.NewPicture()
	p.picture.SetHexpand(true)
	p.picture.SetVexpand(true)
	p.picture.SetVisible(false)
	p.box.Append(p.picture)

	p.label = gtk.NewLabel("Panel paused")
	p.label.SetHexpand(true)
	p.label.SetVexpand(true)
	p.box.Append(p.label)

	return p
}

// SetImage shows the snapshot when the handle carries a paintable and falls
// back to the neutral pane otherwise. Surfaces that cannot snapshot hand
// over nil.
func (p *Placeholder) SetImage(img port.Image) {
	paintable, ok := img.(gdk.Paintabler)
	if img == nil || !ok {
		p.picture.SetVisible(false)
		p.label.SetVisible(true)
		return
	}
	p.picture.SetPaintable(paintable)
	p.picture.SetVisible(true)
	p.label.SetVisible(false)
}

// Clear drops the snapshot so a stale frame never leaks into the next
// overlay session.
func (p *Placeholder) Clear() {
	p.picture.SetPaintable(nil)
	p.picture.SetVisible(false)
	p.label.SetVisible(true)
}

// Widget exposes the root widget for layering.
func (p *Placeholder) Widget() gtk.Widgetter {
	return p.box
}
