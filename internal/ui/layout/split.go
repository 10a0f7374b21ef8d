package layout

import "github.com/benchview/benchview/internal/domain/entity"

// PanelFraction converts a camera split percentage into the panel's width
// fraction. Split 60 means the camera keeps 60% of the width, so the panel
// surface is sized from the remaining 0.4.
func PanelFraction(split float64) float64 {
	return (100 - entity.ClampSplit(split)) / 100
}

// SplitFromPointer converts a pointer x position within the workspace box
// into a camera split percentage. The divider follows the pointer: with
// the panel docked right the camera occupies [0, x); docked left it
// occupies (x, width]. The result is clamped, which keeps a drag past the
// edge pinned instead of inverting.
func SplitFromPointer(pointerX, workspaceWidth float64, side entity.DockSide) float64 {
	if workspaceWidth <= 0 {
		return entity.MinWorkspaceSplit
	}

	cameraShare := pointerX / workspaceWidth
	if side == entity.DockLeft {
		cameraShare = (workspaceWidth - pointerX) / workspaceWidth
	}

	return entity.ClampSplit(cameraShare * 100)
}
