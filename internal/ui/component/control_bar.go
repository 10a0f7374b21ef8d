// Package component provides the GTK widgets that make up the shell chrome.
package component

import (
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/diamondburned/gotk4/pkg/pango"

	"github.com/benchview/benchview/internal/bridge"
)

const (
	// controlBarSpacing separates the bar's children and pads its edges.
	controlBarSpacing = 12
	// statusMaxChars caps the connection status before ellipsizing.
	statusMaxChars = 40
	// stepMaxChars caps the repair step label before ellipsizing.
	stepMaxChars = 64
)

// ControlBar is the strip above the workspace: bridge connection status on
// the left, the current repair step in the middle and the settings trigger
// on the right. All methods must run on the GTK main loop.
type ControlBar struct {
	box    *gtk.Box
	status *gtk.Label
	step   *gtk.Label
	height int

	onSettings func()
}

// NewControlBar builds the bar sized to the configured height.
func NewControlBar(height int) *ControlBar {
	bar := &ControlBar{height: height}

	bar.box = gtk.NewBox(gtk.OrientationHorizontal, controlBarSpacing)
	bar.box.AddCSSClass("control-bar")
	bar.box.SetSizeRequest(-1, height)
	bar.box.SetMarginStart(controlBarSpacing)
	bar.box.SetMarginEnd(controlBarSpacing)

	bar.status = gtk.NewLabel(string(bridge.StatusDisconnected))
	bar.status.AddCSSClass("connection-status")
	bar.status.SetEllipsize(pango.EllipsizeEnd)
	bar.status.SetMaxWidthChars(statusMaxChars)
	bar.box.Append(bar.status)

	bar.step = gtk.NewLabel("")
	bar.step.AddCSSClass("repair-step")
	bar.step.SetEllipsize(pango.EllipsizeEnd)
	bar.step.SetMaxWidthChars(stepMaxChars)
	bar.step.SetHexpand(true)
	bar.box.Append(bar.step)

	settings := gtk.NewButtonWithLabel("Settings")
	settings.ConnectClicked(func() {
		if bar.onSettings != nil {
			bar.onSettings()
		}
	})
	bar.box.Append(settings)

	return bar
}

// SetConnection renders the channel state as passive text.
func (b *ControlBar) SetConnection(state bridge.ConnectionState) {
	text := string(state.Status)
	if state.LastError != "" {
		text += ": " + state.LastError
	}
	b.status.SetText(text)
}

// SetStep shows the most recent repair step.
func (b *ControlBar) SetStep(step string) {
	b.step.SetText(step)
}

// OnSettings registers the settings trigger callback. The callback runs on
// the GTK main loop; anything that blocks belongs in a goroutine.
func (b *ControlBar) OnSettings(fn func()) {
	b.onSettings = fn
}

// Height is the configured bar height. It doubles as the panel's top offset
// so the panel never renders under the bar.
func (b *ControlBar) Height() int {
	return b.height
}

// Widget exposes the root widget for packing.
func (b *ControlBar) Widget() gtk.Widgetter {
	return b.box
}
