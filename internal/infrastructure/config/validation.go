package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/benchview/benchview/internal/domain/entity"
)

// validateConfig performs validation of configuration values.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateBridge(config)...)
	validationErrors = append(validationErrors, validatePanel(config)...)
	validationErrors = append(validationErrors, validateWindow(config)...)
	validationErrors = append(validationErrors, validateSession(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateBridge(config *Config) []string {
	var validationErrors []string
	for key, endpoint := range map[string]string{
		"bridge.endpoint":         config.Bridge.Endpoint,
		"bridge.mock_endpoint":    config.Bridge.MockEndpoint,
		"bridge.console_endpoint": config.Bridge.ConsoleEndpoint,
	} {
		if endpoint == "" {
			continue
		}
		parsed, err := url.Parse(endpoint)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			validationErrors = append(validationErrors, key+" must be an absolute http(s) URL")
		}
	}
	return validationErrors
}

func validatePanel(config *Config) []string {
	var validationErrors []string
	if split := config.Panel.WorkspaceSplit; split != 0 &&
		(split < entity.MinWorkspaceSplit || split > entity.MaxWorkspaceSplit) {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"panel.workspace_split must be between %g and %g",
			entity.MinWorkspaceSplit, entity.MaxWorkspaceSplit,
		))
	}
	return validationErrors
}

func validateWindow(config *Config) []string {
	var validationErrors []string
	if config.Window.Width < 0 {
		validationErrors = append(validationErrors, "window.width must be non-negative")
	}
	if config.Window.Height < 0 {
		validationErrors = append(validationErrors, "window.height must be non-negative")
	}
	if config.Window.ControlBarHeight < 0 {
		validationErrors = append(validationErrors, "window.control_bar_height must be non-negative")
	}
	return validationErrors
}

func validateSession(config *Config) []string {
	if config.Session.SnapshotIntervalMs < 0 {
		return []string{"session.snapshot_interval_ms must be non-negative"}
	}
	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch strings.ToLower(config.Logging.Level) {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		validationErrors = append(validationErrors, "logging.level must be one of: trace, debug, info, warn, error")
	}
	switch strings.ToLower(config.Logging.Format) {
	case "", "console", "json":
	default:
		validationErrors = append(validationErrors, "logging.format must be one of: console, json")
	}
	return validationErrors
}
