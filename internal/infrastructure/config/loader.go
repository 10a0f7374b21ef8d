package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
	// skipNextReload suppresses the watcher reload triggered by our own Save.
	skipNextReload bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	// Environment overrides use the BENCHVIEW_ prefix with dots replaced
	// by underscores (e.g. BENCHVIEW_BRIDGE_ENDPOINT, BENCHVIEW_DATABASE_PATH).
	v.SetEnvPrefix("BENCHVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit bindings for variables the logger reads before config loads,
	// so both spellings stay in sync.
	if err := v.BindEnv("logging.level", "BENCHVIEW_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind BENCHVIEW_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "BENCHVIEW_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind BENCHVIEW_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	if err := ensureDatabasePath(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	if err := m.viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			if createErr := m.createDefaultConfig(); createErr != nil {
				configDir, _ := GetConfigDir()
				return fmt.Errorf(
					"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
					configDir,
					createErr,
				)
			}
			if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
				return fmt.Errorf(
					"failed to read newly created config file: %w\nThe config file was created but couldn't be read. Please check the file format",
					rereadErr,
				)
			}
		} else {
			configFile := m.viper.ConfigFileUsed()
			if configFile == "" {
				configDir, _ := GetConfigDir()
				configFile = filepath.Join(configDir, "config.toml")
			}
			return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
		}
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		configFile := m.viper.ConfigFileUsed()
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			configFile,
			err,
		)
	}
	return config, nil
}

func ensureDatabasePath(config *Config) error {
	if config.Database.Path != "" {
		return nil
	}
	dbPath, err := GetDatabaseFile()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	config.Database.Path = dbPath
	return nil
}

func normalizeConfig(config *Config) {
	switch strings.ToLower(config.Panel.DockSide) {
	case "", "right":
		config.Panel.DockSide = "right"
	case "left":
		config.Panel.DockSide = "left"
	default:
		config.Panel.DockSide = "right"
	}

	switch strings.ToLower(string(config.Panel.Mode)) {
	case "", string(PanelModeOverlay):
		config.Panel.Mode = PanelModeOverlay
	case string(PanelModeInline):
		config.Panel.Mode = PanelModeInline
	default:
		config.Panel.Mode = PanelModeOverlay
	}

	config.Bridge.Endpoint = strings.TrimSpace(config.Bridge.Endpoint)
	config.Bridge.MockEndpoint = strings.TrimSpace(config.Bridge.MockEndpoint)
	config.Bridge.ConsoleEndpoint = strings.TrimSpace(config.Bridge.ConsoleEndpoint)
	config.Panel.DefaultURL = strings.TrimSpace(config.Panel.DefaultURL)
	config.Camera.Page = strings.TrimSpace(config.Camera.Page)
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent external modification
	configCopy := *m.config
	return &configCopy
}

// Save persists the runtime-adjustable keys to disk and updates Viper.
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// Validate before writing so the UI gets immediate errors.
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.viper.Set("bridge.endpoint", cfg.Bridge.Endpoint)
	m.viper.Set("bridge.mock_mode", cfg.Bridge.MockMode)
	m.viper.Set("panel.default_url", cfg.Panel.DefaultURL)
	m.viper.Set("panel.dock_side", cfg.Panel.DockSide)
	m.viper.Set("panel.workspace_split", cfg.Panel.WorkspaceSplit)

	if m.watching {
		m.skipNextReload = true
	}
	if err := m.viper.WriteConfig(); err != nil {
		m.skipNextReload = false
		return fmt.Errorf("failed to write config: %w", err)
	}

	cfgCopy := *cfg
	m.config = &cfgCopy
	if !m.watching {
		if err := m.reload(); err != nil {
			return err
		}
	}

	return nil
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// createDefaultConfig creates a default configuration file alongside its
// JSON schema.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	m.viper.SetConfigType("toml")
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created default configuration file: %s (TOML format)\n", configFile)

	if err := GenerateSchemaFile(); err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	// Note: Database.Path is set dynamically in Load(), no defaults needed

	m.setBridgeDefaults(defaults)
	m.setPanelDefaults(defaults)
	m.setWindowDefaults(defaults)
	m.setCameraDefaults(defaults)
	m.setSessionDefaults(defaults)
	m.setLoggingDefaults(defaults)
}

func (m *Manager) setBridgeDefaults(defaults *Config) {
	m.viper.SetDefault("bridge.endpoint", defaults.Bridge.Endpoint)
	m.viper.SetDefault("bridge.mock_endpoint", defaults.Bridge.MockEndpoint)
	m.viper.SetDefault("bridge.mock_mode", defaults.Bridge.MockMode)
	m.viper.SetDefault("bridge.console_endpoint", defaults.Bridge.ConsoleEndpoint)
}

func (m *Manager) setPanelDefaults(defaults *Config) {
	m.viper.SetDefault("panel.default_url", defaults.Panel.DefaultURL)
	m.viper.SetDefault("panel.dock_side", defaults.Panel.DockSide)
	m.viper.SetDefault("panel.workspace_split", defaults.Panel.WorkspaceSplit)
	m.viper.SetDefault("panel.mode", string(defaults.Panel.Mode))
}

func (m *Manager) setWindowDefaults(defaults *Config) {
	m.viper.SetDefault("window.width", defaults.Window.Width)
	m.viper.SetDefault("window.height", defaults.Window.Height)
	m.viper.SetDefault("window.control_bar_height", defaults.Window.ControlBarHeight)
}

func (m *Manager) setCameraDefaults(defaults *Config) {
	m.viper.SetDefault("camera.page", defaults.Camera.Page)
	m.viper.SetDefault("camera.device_hint", defaults.Camera.DeviceHint)
}

func (m *Manager) setSessionDefaults(defaults *Config) {
	m.viper.SetDefault("session.restore", defaults.Session.Restore)
	m.viper.SetDefault("session.snapshot_interval_ms", defaults.Session.SnapshotIntervalMs)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
}
