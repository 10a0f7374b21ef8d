// Package entity defines domain entities for the shell.
package entity

// DockSide selects which horizontal edge the panel region is anchored to.
type DockSide string

const (
	DockLeft  DockSide = "left"
	DockRight DockSide = "right"
)

// ParseDockSide maps a wire/config string to a DockSide.
func ParseDockSide(s string) (DockSide, bool) {
	switch DockSide(s) {
	case DockLeft:
		return DockLeft, true
	case DockRight:
		return DockRight, true
	}
	return "", false
}

// Workspace split limits, in percent of width assigned to the camera region.
const (
	MinWorkspaceSplit = 20.0
	MaxWorkspaceSplit = 80.0

	// MaxSplitStep bounds how far a single remote layout command may move
	// the split. Remote nudges arrive as streams of small corrections;
	// jumping to each target verbatim causes visible snapping.
	MaxSplitStep = 5.0
)

// DefaultPanelURL is the compile-time fallback navigation target. PanelURL
// is never left empty, even when every caller passes blank input.
const DefaultPanelURL = "https://start.duckduckgo.com"

// DefaultWorkspaceSplit is the initial camera share of the workspace width.
const DefaultWorkspaceSplit = 60.0

// LayoutState is the authoritative model of the shell's workspace layout.
// It has a single writer (the workspace use case, confined to the UI main
// loop); every other component receives value copies at call time.
type LayoutState struct {
	PanelVisible     bool
	DockSide         DockSide
	WorkspaceSplit   float64 // percent of width for the camera region
	PanelURL         string
	ControlBarOffset int // pixels reserved for chrome above the workspace
}

// NewLayoutState returns the initial layout: panel hidden, docked right,
// default split, default navigation target.
func NewLayoutState() LayoutState {
	return LayoutState{
		PanelVisible:     false,
		DockSide:         DockRight,
		WorkspaceSplit:   DefaultWorkspaceSplit,
		PanelURL:         DefaultPanelURL,
		ControlBarOffset: 0,
	}
}

// ClampSplit clamps v to the allowed workspace split range.
func ClampSplit(v float64) float64 {
	if v < MinWorkspaceSplit {
		return MinWorkspaceSplit
	}
	if v > MaxWorkspaceSplit {
		return MaxWorkspaceSplit
	}
	return v
}

// SetSplit replaces the split with v, clamped. Used by the pointer-drag
// path, which is bounded by the drag range itself and therefore skips the
// per-event step limit.
func (s *LayoutState) SetSplit(v float64) {
	s.WorkspaceSplit = ClampSplit(v)
}

// StepTowardSplit moves the split toward target by at most MaxSplitStep
// and returns the delta actually applied. The result is clamped to the
// allowed range, so the returned delta can be smaller than the step limit
// near the edges.
func (s *LayoutState) StepTowardSplit(target float64) float64 {
	delta := target - s.WorkspaceSplit
	if delta > MaxSplitStep {
		delta = MaxSplitStep
	} else if delta < -MaxSplitStep {
		delta = -MaxSplitStep
	}
	next := ClampSplit(s.WorkspaceSplit + delta)
	applied := next - s.WorkspaceSplit
	s.WorkspaceSplit = next
	return applied
}

// ResolvePanelURL picks the first non-blank of candidate, current and the
// compile-time default.
func ResolvePanelURL(candidate, current string) string {
	if !isBlank(candidate) {
		return candidate
	}
	if !isBlank(current) {
		return current
	}
	return DefaultPanelURL
}

// SetPanelURL resolves candidate against the current value and stores the
// result. Returns the resolved URL.
func (s *LayoutState) SetPanelURL(candidate string) string {
	s.PanelURL = ResolvePanelURL(candidate, s.PanelURL)
	return s.PanelURL
}

// SetControlBarOffset stores the chrome offset, floored at zero.
func (s *LayoutState) SetControlBarOffset(px int) {
	if px < 0 {
		px = 0
	}
	s.ControlBarOffset = px
}

// PanelFraction is the width fraction reserved for the panel region: the
// complement of the camera split.
func (s LayoutState) PanelFraction() float64 {
	return (100 - ClampSplit(s.WorkspaceSplit)) / 100
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
