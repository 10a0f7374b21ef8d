package webkit

import (
	"context"
	"io/fs"
	"net/url"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/rs/zerolog"

	"github.com/benchview/benchview/internal/ui/mainloop"
)

const (
	cameraPageURL = AssetScheme + "://camera/index.html"
	blankPageURL  = "about:blank"
)

// CameraFeed renders the live camera region: a web view loading the
// embedded getUserMedia page. Registering the asset scheme here also
// covers the panel view, which WebKit creates against the same context.
type CameraFeed struct {
	log  zerolog.Logger
	view *WebView

	mu        sync.Mutex
	streaming bool
}

// NewCameraFeed builds the feed view and registers the embedded asset
// scheme. Must be called on the main loop, before other views navigate.
func NewCameraFeed(logger zerolog.Logger, assets fs.FS) (*CameraFeed, error) {
	view, err := NewWebView(logger, CameraConfig())
	if err != nil {
		return nil, err
	}
	view.GrantUserMediaRequests()

	if err := RegisterAssetScheme(logger, view, assets); err != nil {
		return nil, err
	}

	return &CameraFeed{
		log:  logger.With().Str("component", "camera-feed").Logger(),
		view: view,
	}, nil
}

// Start loads the camera page. It returns once the navigation is posted;
// stream startup happens in-page and failures surface on the page itself,
// so nothing here is worth blocking the caller on.
func (c *CameraFeed) Start(ctx context.Context, deviceHint string) error {
	target := cameraPageURL
	if deviceHint != "" {
		target += "?device=" + url.QueryEscape(deviceHint)
	}

	c.mu.Lock()
	c.streaming = true
	c.mu.Unlock()

	mainloop.Post(func() {
		c.view.view.LoadURI(target)
	})

	c.log.Debug().Str("device_hint", deviceHint).Msg("camera feed starting")
	return nil
}

// Stop releases the capture device by navigating the feed view away.
func (c *CameraFeed) Stop(ctx context.Context) error {
	c.mu.Lock()
	wasStreaming := c.streaming
	c.streaming = false
	c.mu.Unlock()

	if !wasStreaming {
		return nil
	}

	mainloop.Post(func() {
		c.view.view.LoadURI(blankPageURL)
	})

	c.log.Debug().Msg("camera feed stopped")
	return nil
}

// AsWidget returns the feed view for packing into the workspace.
func (c *CameraFeed) AsWidget() gtk.Widgetter {
	return c.view.AsWidget()
}
