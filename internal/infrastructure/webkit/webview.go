// Package webkit owns the native WebKitGTK rendering domain: the web
// views backing the panel and the camera feed, and the surface machinery
// that mounts them into the host window. Everything here runs against the
// GTK main loop; blocking calls must come from worker goroutines.
package webkit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	webkit "github.com/diamondburned/gotk4-webkitgtk/pkg/webkit/v6"
	"github.com/diamondburned/gotk4/pkg/core/gerror"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/rs/zerolog"

	"github.com/benchview/benchview/internal/application/port"
	"github.com/benchview/benchview/internal/ui/mainloop"
)

var (
	ErrViewNotInitialized = errors.New("webkit: view not initialized")
	ErrViewDestroyed      = errors.New("webkit: view destroyed")
	ErrViewGone           = errors.New("webkit: content process gone")
	ErrInvalidURL         = errors.New("webkit: invalid URL")
	ErrLoadSuperseded     = errors.New("webkit: load superseded by a newer navigation")
)

// Config holds the WebKit settings applied at view construction.
type Config struct {
	UserAgent            string
	EnableJavaScript     bool
	EnableWebGL          bool
	EnableMediaStream    bool
	HardwareAcceleration bool
	DefaultFontSize      int
	MinimumFontSize      int
}

// PanelConfig returns the settings for the embeddable panel view.
func PanelConfig() *Config {
	return &Config{
		EnableJavaScript:     true,
		EnableWebGL:          true,
		HardwareAcceleration: true,
		DefaultFontSize:      16,
		MinimumFontSize:      8,
	}
}

// CameraConfig returns the settings for the camera feed view. Media
// stream support is what lets the embedded page call getUserMedia.
func CameraConfig() *Config {
	cfg := PanelConfig()
	cfg.EnableMediaStream = true
	return cfg
}

// WebView wraps a WebKitGTK web view. Navigation is exposed as a blocking
// call completed by load signals, so callers on worker goroutines can
// sequence "navigate, then act" without polling.
type WebView struct {
	view *webkit.WebView
	log  zerolog.Logger

	mu           sync.Mutex
	destroyed    bool
	dead         bool
	pending      *pendingLoad
	onURIChanged func(string)
}

type pendingLoad struct {
	url     string
	started bool
	done    chan error
}

func (p *pendingLoad) finish(err error) {
	select {
	case p.done <- err:
	default:
	}
}

// NewWebView creates a web view with the given configuration. Must be
// called on the main loop.
func NewWebView(logger zerolog.Logger, cfg *Config) (*WebView, error) {
	if cfg == nil {
		cfg = PanelConfig()
	}

	view := webkit.NewWebView()
	if view == nil {
		return nil, ErrViewNotInitialized
	}

	w := &WebView{
		view: view,
		log:  logger.With().Str("component", "webview").Logger(),
	}

	if err := w.applySettings(cfg); err != nil {
		return nil, err
	}
	w.connectSignals()

	return w, nil
}

func (w *WebView) applySettings(cfg *Config) error {
	settings := w.view.Settings()
	if settings == nil {
		return fmt.Errorf("webkit: failed to get settings")
	}

	settings.SetEnableJavascript(cfg.EnableJavaScript)
	settings.SetEnableWebgl(cfg.EnableWebGL)
	settings.SetEnableMediaStream(cfg.EnableMediaStream)
	settings.SetDefaultFontSize(uint32(cfg.DefaultFontSize))
	settings.SetMinimumFontSize(uint32(cfg.MinimumFontSize))

	if cfg.UserAgent != "" {
		settings.SetUserAgent(cfg.UserAgent)
	}
	if cfg.HardwareAcceleration {
		settings.SetHardwareAccelerationPolicy(webkit.HardwareAccelerationPolicyAlways)
	}

	return nil
}

func (w *WebView) connectSignals() {
	w.view.Connect("notify::uri", func() {
		w.mu.Lock()
		cb := w.onURIChanged
		w.mu.Unlock()
		if cb != nil {
			cb(w.view.URI())
		}
	})

	w.view.ConnectLoadChanged(func(event webkit.LoadEvent) {
		switch event {
		case webkit.LoadStarted:
			w.markStarted()
		case webkit.LoadFinished:
			w.completeLoad(nil)
		}
	})

	w.view.ConnectLoadFailed(func(event webkit.LoadEvent, failingURI string, loadErr error) bool {
		w.failLoad(failingURI, loadErr)
		return false
	})

	w.view.ConnectClose(func() {
		w.markDead("page requested close")
	})

	// The renderer lives in a separate process and can die on its own;
	// record that instead of treating the next calls as programmer error.
	w.view.Connect("web-process-terminated", func() {
		w.markDead("web process terminated")
	})
}

func (w *WebView) markStarted() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.pending.started = true
	}
}

// completeLoad resolves the pending navigation on load-finished. WebKit
// also emits a trailing load-finished for a navigation that was cancelled
// by a newer one; the started flag keeps that tail from resolving the
// newer navigation early.
func (w *WebView) completeLoad(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil || !w.pending.started {
		return
	}
	w.pending.finish(err)
	w.pending = nil
}

func (w *WebView) failLoad(failingURI string, loadErr error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return
	}
	if isCancelled(loadErr) && failingURI != w.pending.url {
		// Stale cancellation from a superseded navigation.
		return
	}
	w.pending.finish(loadErr)
	w.pending = nil
}

func (w *WebView) markDead(reason string) {
	w.mu.Lock()
	w.dead = true
	p := w.pending
	w.pending = nil
	w.mu.Unlock()

	if p != nil {
		p.finish(ErrViewGone)
	}
	w.log.Warn().Str("reason", reason).Msg("web view content gone")
}

// isCancelled reports whether a load failure is WebKit cancelling an
// in-flight navigation, which happens whenever a newer load replaces it.
func isCancelled(err error) bool {
	if err == nil {
		return false
	}
	var gErr *gerror.GError
	if errors.As(err, &gErr) {
		return gErr.ErrorCode() == int(webkit.NetworkErrorCancelled)
	}
	return err.Error() == "Load request cancelled"
}

// Load navigates to url and blocks until the load finishes or fails. It
// must be called off the main loop; the result arrives through load
// signals that need the loop free. A second Load while one is in flight
// supersedes it and fails the first caller with ErrLoadSuperseded.
func (w *WebView) Load(ctx context.Context, url string) error {
	if url == "" {
		return ErrInvalidURL
	}

	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return ErrViewDestroyed
	}
	if w.pending != nil {
		w.pending.finish(ErrLoadSuperseded)
	}
	p := &pendingLoad{url: url, done: make(chan error, 1)}
	w.pending = p
	// A fresh navigation relaunches a dead content process.
	w.dead = false
	w.mu.Unlock()

	mainloop.Post(func() {
		w.view.LoadURI(url)
	})

	select {
	case err := <-p.done:
		return err
	case <-ctx.Done():
		w.mu.Lock()
		if w.pending == p {
			w.pending = nil
		}
		w.mu.Unlock()
		return ctx.Err()
	}
}

// Snapshot renders the visible page region into a GPU texture. Best
// called off the main loop for the same reason as Load. The returned
// handle's concrete type is a GDK texture.
func (w *WebView) Snapshot(ctx context.Context) (port.Image, error) {
	w.mu.Lock()
	if w.destroyed || w.dead {
		w.mu.Unlock()
		return nil, ErrViewGone
	}
	w.mu.Unlock()

	tex, err := w.view.Snapshot(ctx, webkit.SnapshotRegionVisible, webkit.SnapshotOptionsNone)
	if err != nil {
		return nil, fmt.Errorf("render snapshot: %w", err)
	}
	return tex, nil
}

// URI returns the view's current location. Blocks on a main-loop round
// trip; callers on the main loop read the uri-changed signal instead.
func (w *WebView) URI() string {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return ""
	}
	w.mu.Unlock()

	var uri string
	mainloop.Call(func() {
		uri = w.view.URI()
	})
	return uri
}

// SetVisible toggles the widget's visibility. Safe from any goroutine.
func (w *WebView) SetVisible(visible bool) {
	mainloop.Post(func() {
		w.view.SetVisible(visible)
	})
}

// Alive reports whether the view still has a usable content process.
func (w *WebView) Alive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.destroyed && !w.dead
}

// OnURIChanged registers a callback fired on the main loop whenever the
// view's location changes, including in-page pushState navigations.
func (w *WebView) OnURIChanged(fn func(url string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onURIChanged = fn
}

// GrantUserMediaRequests auto-allows getUserMedia permission prompts.
// Only the camera view opts in; the panel keeps WebKit's default answer.
func (w *WebView) GrantUserMediaRequests() {
	w.view.ConnectPermissionRequest(func(request webkit.PermissionRequester) bool {
		if req, ok := request.(*webkit.UserMediaPermissionRequest); ok {
			req.Allow()
			return true
		}
		return false
	})
}

// AsWidget returns the view for packing into GTK containers.
func (w *WebView) AsWidget() gtk.Widgetter {
	if w == nil || w.view == nil {
		return nil
	}
	return w.view
}

// Destroy releases the view. Pending loads fail with ErrViewDestroyed.
func (w *WebView) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return
	}
	w.destroyed = true
	if w.pending != nil {
		w.pending.finish(ErrViewDestroyed)
		w.pending = nil
	}
}
