package component

import (
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// sheetSpacing separates the rows inside the settings sheet.
const sheetSpacing = 12

// SettingsView is the sheet layered over the whole window while the settings
// overlay is open. The scrim spans the window so nothing behind it stays
// clickable; the sheet itself floats centered. It edits the panel URL, the
// bridge endpoint and the mock-mode toggle. All methods must run on the GTK
// main loop.
type SettingsView struct {
	root     *gtk.Box
	urlEntry *gtk.Entry
	endpoint *gtk.Entry
	mock     *gtk.Switch

	// syncing suppresses callbacks while SetValues writes the widgets.
	syncing bool

	onOpenURL  func(url string)
	onEndpoint func(endpoint string)
	onMock     func(enabled bool)
	onClose    func()
}

// NewSettingsView builds the sheet with empty fields. Call SetValues before
// showing it.
func NewSettingsView() *SettingsView {
	v := &SettingsView{}

	v.root = gtk.NewBox(gtk.OrientationVertical, 0)
	v.root.AddCSSClass("settings-scrim")

	sheet := gtk.NewBox(gtk.OrientationVertical, sheetSpacing)
	sheet.AddCSSClass("settings-sheet")
	sheet.SetHalign(gtk.AlignCenter)
	sheet.SetValign(gtk.AlignCenter)
	sheet.SetVexpand(true)
	sheet.SetMarginStart(2 * sheetSpacing)
	sheet.SetMarginEnd(2 * sheetSpacing)
	v.root.Append(sheet)

	title := gtk.NewLabel("Session settings")
	title.AddCSSClass("settings-title")
	sheet.Append(title)

	sheet.Append(gtk.NewLabel("Panel URL"))
	v.urlEntry = gtk.NewEntry()
	v.urlEntry.SetPlaceholderText("https://…")
	v.urlEntry.ConnectActivate(func() { v.openURL() })
	sheet.Append(v.urlEntry)

	open := gtk.NewButtonWithLabel("Open panel")
	open.ConnectClicked(func() { v.openURL() })
	sheet.Append(open)

	sheet.Append(gtk.NewLabel("Bridge endpoint"))
	v.endpoint = gtk.NewEntry()
	v.endpoint.SetPlaceholderText("http://127.0.0.1:8808/stream")
	v.endpoint.ConnectActivate(func() { v.applyEndpoint() })
	sheet.Append(v.endpoint)

	apply := gtk.NewButtonWithLabel("Apply endpoint")
	apply.ConnectClicked(func() { v.applyEndpoint() })
	sheet.Append(apply)

	mockRow := gtk.NewBox(gtk.OrientationHorizontal, sheetSpacing)
	mockLabel := gtk.NewLabel("Mock bridge")
	mockLabel.SetHexpand(true)
	mockRow.Append(mockLabel)
	v.mock = gtk.NewSwitch()
	v.mock.ConnectStateSet(func(state bool) bool {
		if !v.syncing && v.onMock != nil {
			v.onMock(state)
		}
		return false
	})
	mockRow.Append(v.mock)
	sheet.Append(mockRow)

	closeBtn := gtk.NewButtonWithLabel("Close")
	closeBtn.ConnectClicked(func() {
		if v.onClose != nil {
			v.onClose()
		}
	})
	sheet.Append(closeBtn)

	return v
}

func (v *SettingsView) openURL() {
	if v.onOpenURL != nil {
		v.onOpenURL(v.urlEntry.Text())
	}
}

func (v *SettingsView) applyEndpoint() {
	if v.onEndpoint != nil {
		v.onEndpoint(v.endpoint.Text())
	}
}

// SetValues seeds the fields from the current session state. It does not
// fire the change callbacks.
func (v *SettingsView) SetValues(panelURL, endpoint string, mock bool) {
	v.syncing = true
	v.urlEntry.SetText(panelURL)
	v.endpoint.SetText(endpoint)
	v.mock.SetActive(mock)
	v.syncing = false
}

// OnOpenURL is called with the entry text when the user submits a panel URL.
func (v *SettingsView) OnOpenURL(fn func(url string)) {
	v.onOpenURL = fn
}

// OnEndpoint is called with the entry text when the user applies an endpoint.
func (v *SettingsView) OnEndpoint(fn func(endpoint string)) {
	v.onEndpoint = fn
}

// OnMock is called when the user flips the mock-mode switch.
func (v *SettingsView) OnMock(fn func(enabled bool)) {
	v.onMock = fn
}

// OnClose is called when the user dismisses the sheet.
func (v *SettingsView) OnClose(fn func()) {
	v.onClose = fn
}

// Widget exposes the scrim root for layering over the window.
func (v *SettingsView) Widget() gtk.Widgetter {
	return v.root
}
