package webkit

import (
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/rs/zerolog"

	webkit "github.com/diamondburned/gotk4-webkitgtk/pkg/webkit/v6"
)

// AssetScheme is the custom URI scheme serving embedded application
// pages, e.g. benchview://camera/index.html.
const AssetScheme = "benchview"

// RegisterAssetScheme hangs the asset scheme handler off the web context
// of the given view. WebKitGTK 6 shares one context across views created
// afterwards, so registering against the first view covers all of them.
// The scheme is also marked secure: getUserMedia refuses to run in
// contexts WebKit does not consider trustworthy.
func RegisterAssetScheme(logger zerolog.Logger, view *WebView, assets fs.FS) error {
	if view == nil || view.view == nil {
		return ErrViewNotInitialized
	}
	wkctx := view.view.Context()
	if wkctx == nil {
		return fmt.Errorf("webkit: no web context")
	}

	log := logger.With().Str("component", "asset-scheme").Logger()

	wkctx.RegisterURIScheme(AssetScheme, func(req *webkit.URISchemeRequest) {
		name, err := assetPath(req.URI())
		if err != nil {
			log.Warn().Str("uri", req.URI()).Err(err).Msg("bad asset request")
			req.FinishError(err)
			return
		}

		data, err := fs.ReadFile(assets, name)
		if err != nil {
			log.Warn().Str("asset", name).Err(err).Msg("asset not found")
			req.FinishError(fmt.Errorf("asset %s: %w", name, err))
			return
		}

		stream := gio.NewMemoryInputStreamFromBytes(glib.NewBytes(data))
		req.Finish(stream, int64(len(data)), mimeType(name))
	})

	wkctx.SecurityManager().RegisterURISchemeAsSecure(AssetScheme)
	log.Debug().Str("scheme", AssetScheme).Msg("asset scheme registered")
	return nil
}

// assetPath maps benchview://host/some/file to "host/some/file" inside
// the embedded filesystem.
func assetPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("parse asset uri: %w", err)
	}
	name := path.Join(u.Host, strings.TrimPrefix(u.Path, "/"))
	if name == "" || name == "." || strings.Contains(name, "..") {
		return "", fmt.Errorf("empty asset path in %q", rawURI)
	}
	return name, nil
}

func mimeType(name string) string {
	switch path.Ext(name) {
	case ".html":
		return "text/html"
	case ".js":
		return "text/javascript"
	case ".css":
		return "text/css"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
