// Package config loads, validates and watches the shell configuration.
package config

import (
	"github.com/benchview/benchview/internal/domain/entity"
)

const (
	dirPerm  = 0755 // Standard directory permissions (rwxr-xr-x)
	filePerm = 0644 // Standard file permissions (rw-r--r--)
)

// Config represents the complete configuration for benchview.
type Config struct {
	// Bridge configures the diagnostic event channel.
	Bridge BridgeConfig `mapstructure:"bridge" yaml:"bridge" toml:"bridge"`
	// Panel configures the embedded web panel.
	Panel PanelConfig `mapstructure:"panel" yaml:"panel" toml:"panel"`
	// Window configures the shell window geometry.
	Window WindowConfig `mapstructure:"window" yaml:"window" toml:"window"`
	// Camera configures the live feed.
	Camera CameraConfig `mapstructure:"camera" yaml:"camera" toml:"camera"`
	// Session controls layout persistence and restoration.
	Session SessionConfig `mapstructure:"session" yaml:"session" toml:"session"`
	// Database configures local storage.
	Database DatabaseConfig `mapstructure:"database" yaml:"database" toml:"database"`
	// Logging configures log output.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" toml:"logging"`
}

// BridgeConfig configures the event channel endpoints.
type BridgeConfig struct {
	// Endpoint is the SSE stream of the diagnostic bridge. Empty means the
	// shell starts idle until an endpoint arrives.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint" toml:"endpoint"`
	// MockEndpoint replaces Endpoint while mock mode is on.
	MockEndpoint string `mapstructure:"mock_endpoint" yaml:"mock_endpoint" toml:"mock_endpoint"`
	// MockMode starts the shell against the mock endpoint.
	MockMode bool `mapstructure:"mock_mode" yaml:"mock_mode" toml:"mock_mode"`
	// ConsoleEndpoint receives resize notifications from divider steps.
	ConsoleEndpoint string `mapstructure:"console_endpoint" yaml:"console_endpoint" toml:"console_endpoint"`
}

// PanelMode selects how the web panel is hosted.
type PanelMode string

const (
	// PanelModeOverlay floats the panel over the workspace as a native layer.
	PanelModeOverlay PanelMode = "overlay"
	// PanelModeInline packs the panel into the workspace next to the camera.
	PanelModeInline PanelMode = "inline"
)

// PanelConfig configures the embedded web panel.
type PanelConfig struct {
	// DefaultURL loads when no session or command supplies one.
	DefaultURL string `mapstructure:"default_url" yaml:"default_url" toml:"default_url"`
	// DockSide is "left" or "right".
	DockSide string `mapstructure:"dock_side" yaml:"dock_side" toml:"dock_side"`
	// WorkspaceSplit is the camera share of the workspace in percent.
	WorkspaceSplit float64 `mapstructure:"workspace_split" yaml:"workspace_split" toml:"workspace_split"`
	// Mode is "overlay" or "inline".
	Mode PanelMode `mapstructure:"mode" yaml:"mode" toml:"mode"`
}

// WindowConfig configures the shell window.
type WindowConfig struct {
	Width  int `mapstructure:"width" yaml:"width" toml:"width"`
	Height int `mapstructure:"height" yaml:"height" toml:"height"`
	// ControlBarHeight is also the panel's top offset so the panel never
	// renders under the bar.
	ControlBarHeight int `mapstructure:"control_bar_height" yaml:"control_bar_height" toml:"control_bar_height"`
}

// CameraConfig configures the live feed.
type CameraConfig struct {
	// Page overrides the embedded camera page URL. Empty uses the built-in
	// page served from the asset scheme.
	Page string `mapstructure:"page" yaml:"page" toml:"page"`
	// DeviceHint is matched against camera device labels by the feed page.
	DeviceHint string `mapstructure:"device_hint" yaml:"device_hint" toml:"device_hint"`
}

// SessionConfig controls layout persistence.
type SessionConfig struct {
	// Restore reapplies the last saved layout at startup.
	Restore bool `mapstructure:"restore" yaml:"restore" toml:"restore"`
	// SnapshotIntervalMs debounces layout snapshots.
	SnapshotIntervalMs int `mapstructure:"snapshot_interval_ms" yaml:"snapshot_interval_ms" toml:"snapshot_interval_ms"`
}

// DatabaseConfig configures local storage.
type DatabaseConfig struct {
	// Path to the SQLite file. Empty resolves to the XDG data directory.
	Path string `mapstructure:"path" yaml:"path" toml:"path"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `mapstructure:"level" yaml:"level" toml:"level"`
	// Format is "console" or "json".
	Format string `mapstructure:"format" yaml:"format" toml:"format"`
}

// DefaultConfig returns the configuration used when no file exists yet.
func DefaultConfig() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Endpoint:        "",
			MockEndpoint:    "http://127.0.0.1:8808/stream",
			MockMode:        false,
			ConsoleEndpoint: "http://127.0.0.1:8809/console",
		},
		Panel: PanelConfig{
			DefaultURL:     entity.DefaultPanelURL,
			DockSide:       string(entity.DockRight),
			WorkspaceSplit: entity.DefaultWorkspaceSplit,
			Mode:           PanelModeOverlay,
		},
		Window: WindowConfig{
			Width:            1280,
			Height:           800,
			ControlBarHeight: 48,
		},
		Camera: CameraConfig{
			Page:       "",
			DeviceHint: "",
		},
		Session: SessionConfig{
			Restore:            true,
			SnapshotIntervalMs: 2000,
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
