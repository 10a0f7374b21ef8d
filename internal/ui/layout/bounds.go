// Package layout computes workspace geometry for the camera and panel
// regions. Everything here is pure arithmetic so it can be exercised
// without a GTK runtime.
package layout

import (
	"math"

	"github.com/benchview/benchview/internal/domain/entity"
)

// HandleWidth is the fixed divider width in pixels between the camera and
// panel regions.
const HandleWidth = 8

// Host-side clamps applied to every resize request regardless of what the
// caller passed. The page layer computes fractions from derived UI state
// and is not trusted to keep them sane.
const (
	MinPanelFraction = 0.2
	MaxPanelFraction = 0.8
	MinTopOffset     = 0
	MaxTopOffset     = 2000
)

// Bounds is a pixel rectangle in window content coordinates.
type Bounds struct {
	X      int
	Y      int
	Width  int
	Height int
}

// ClampFraction clamps a panel width fraction to the host-side range.
func ClampFraction(f float64) float64 {
	if f < MinPanelFraction {
		return MinPanelFraction
	}
	if f > MaxPanelFraction {
		return MaxPanelFraction
	}
	return f
}

// ClampTopOffset clamps a vertical chrome offset to the host-side range.
func ClampTopOffset(t int) int {
	if t < MinTopOffset {
		return MinTopOffset
	}
	if t > MaxTopOffset {
		return MaxTopOffset
	}
	return t
}

// PanelBounds computes the panel surface rectangle for the given window
// content size, dock side, panel width fraction and top offset. The result
// is derived from scratch on every call; incremental adjustment of a
// previous rectangle drifts.
//
// The caller is expected to pass a fraction and offset already clamped via
// ClampFraction/ClampTopOffset; PanelBounds itself is a plain projection.
func PanelBounds(winWidth, winHeight int, side entity.DockSide, fraction float64, topOffset int) Bounds {
	cameraWidth := int(math.Round(float64(winWidth) * (1 - fraction)))
	panelWidth := winWidth - cameraWidth - HandleWidth

	x := 0
	if side == entity.DockRight {
		x = cameraWidth + HandleWidth
	}

	return Bounds{
		X:      x,
		Y:      topOffset,
		Width:  panelWidth,
		Height: winHeight - topOffset,
	}
}

// CameraBounds computes the camera region rectangle complementary to
// PanelBounds for the same inputs.
func CameraBounds(winWidth, winHeight int, side entity.DockSide, fraction float64, topOffset int) Bounds {
	cameraWidth := int(math.Round(float64(winWidth) * (1 - fraction)))
	panelWidth := winWidth - cameraWidth - HandleWidth

	x := 0
	if side == entity.DockLeft {
		x = panelWidth + HandleWidth
	}

	return Bounds{
		X:      x,
		Y:      topOffset,
		Width:  cameraWidth,
		Height: winHeight - topOffset,
	}
}
