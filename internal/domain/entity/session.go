package entity

import "time"

// LayoutSessionVersion is the current schema version for persisted layout
// sessions. Increment on breaking serialization changes.
const LayoutSessionVersion = 1

// LayoutSession is a point-in-time snapshot of the workspace layout,
// serialized to JSON and stored in the database so the shell can restore
// the previous arrangement on startup.
type LayoutSession struct {
	Version        int       `json:"version"`
	PanelVisible   bool      `json:"panel_visible"`
	DockSide       DockSide  `json:"dock_side"`
	WorkspaceSplit float64   `json:"workspace_split"`
	PanelURL       string    `json:"panel_url"`
	SavedAt        time.Time `json:"saved_at"`
}

// SnapshotLayout captures the persistable parts of a LayoutState. The
// control bar offset is derived from live chrome at runtime and is not
// persisted.
func SnapshotLayout(s LayoutState) *LayoutSession {
	return &LayoutSession{
		Version:        LayoutSessionVersion,
		PanelVisible:   s.PanelVisible,
		DockSide:       s.DockSide,
		WorkspaceSplit: s.WorkspaceSplit,
		PanelURL:       s.PanelURL,
		SavedAt:        time.Now(),
	}
}

// ApplyTo writes the snapshot into a live LayoutState, re-validating every
// field. Stored values may predate a clamp change or have been edited by
// hand.
func (ls *LayoutSession) ApplyTo(s *LayoutState) {
	if side, ok := ParseDockSide(string(ls.DockSide)); ok {
		s.DockSide = side
	}
	s.SetSplit(ls.WorkspaceSplit)
	s.SetPanelURL(ls.PanelURL)
	s.PanelVisible = ls.PanelVisible
}

// NavEntry is one recorded panel navigation.
type NavEntry struct {
	ID    int64     `json:"id"`
	URL   string    `json:"url"`
	At    time.Time `json:"at"`
}
