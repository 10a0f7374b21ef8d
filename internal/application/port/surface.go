// Package port defines interfaces for infrastructure adapters.
package port

import "context"

// SurfaceState is the attach state reported by a panel surface.
type SurfaceState string

const (
	SurfaceAttached SurfaceState = "attached"
	SurfaceDetached SurfaceState = "detached"
)

// AppliedLayout reports the values a surface actually applied after its
// own clamping, independent of what the caller passed.
type AppliedLayout struct {
	Fraction  float64
	TopOffset int
}

// Image is an opaque snapshot handle. The rendering backend owns the
// concrete type (a GDK paintable for the WebKit surface); page-side code
// only passes it through to the placeholder widget.
type Image any

// PanelSurface is the boundary to the embedded panel target. Two
// implementations exist: the native out-of-page surface layered over the
// window, and the in-page embed packed into the workspace box. Callers
// hold exactly one, selected at startup, and never reach past it.
//
// Every call is treated as a request into a separate rendering domain: it
// may be slow, and it may fail independently of page-side state. Callers
// needing ordering await completion; callers pass current layout values at
// call time, never cached ones.
type PanelSurface interface {
	// Show navigates first when the surface has no content yet or the URL
	// differs from the last load, then attaches and applies current
	// bounds. One attempt; a failed navigation skips attachment and
	// reports visible=false.
	Show(ctx context.Context, url string) (visible bool, err error)

	// Load navigates without changing attach state.
	Load(ctx context.Context, url string) (ok bool, err error)

	// Resize recomputes bounds from the given panel fraction and top
	// offset, clamped surface-side, and applies them without changing
	// attach state.
	Resize(ctx context.Context, fraction float64, topOffset int) (AppliedLayout, error)

	// Detach removes the surface from the visible layer stack. Idempotent
	// when already detached, including when the underlying content
	// process died out-of-band.
	Detach(ctx context.Context) (SurfaceState, error)

	// Attach restores the surface to the layer stack with current bounds,
	// without re-triggering navigation.
	Attach(ctx context.Context) (SurfaceState, error)

	// Snapshot renders the current content into an image handle.
	// Best-effort: a nil Image with nil error means no snapshot is
	// available and the caller shows a placeholder.
	Snapshot(ctx context.Context) (Image, error)
}
