package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.Equal(t, "right", mgr.viper.GetString("panel.dock_side"))
	assert.Equal(t, "overlay", mgr.viper.GetString("panel.mode"))
	assert.InDelta(t, 60.0, mgr.viper.GetFloat64("panel.workspace_split"), 0.001)
	assert.Equal(t, 1280, mgr.viper.GetInt("window.width"))
	assert.Equal(t, 48, mgr.viper.GetInt("window.control_bar_height"))
	assert.Equal(t, "http://127.0.0.1:8808/stream", mgr.viper.GetString("bridge.mock_endpoint"))
	assert.False(t, mgr.viper.GetBool("bridge.mock_mode"))
	assert.True(t, mgr.viper.GetBool("session.restore"))
}

func TestNormalizeConfig_DockSide(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Panel.DockSide = "UPSIDE_DOWN"

	normalizeConfig(cfg)

	assert.Equal(t, "right", cfg.Panel.DockSide)
}

func TestNormalizeConfig_PanelMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Panel.Mode = PanelMode("floating")

	normalizeConfig(cfg)

	assert.Equal(t, PanelModeOverlay, cfg.Panel.Mode)

	cfg.Panel.Mode = PanelMode("INLINE")
	normalizeConfig(cfg)

	assert.Equal(t, PanelModeInline, cfg.Panel.Mode)
}

func newFileBackedManager(t *testing.T) *Manager {
	t.Helper()

	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte(""), 0o644))

	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("toml")

	mgr := &Manager{viper: v}
	mgr.setDefaults()
	require.NoError(t, v.ReadInConfig())
	return mgr
}

func TestSave_PersistsRuntimeKeys(t *testing.T) {
	mgr := newFileBackedManager(t)

	cfg := DefaultConfig()
	cfg.Bridge.Endpoint = "http://10.0.0.9:8808/stream"
	cfg.Bridge.MockMode = true
	cfg.Panel.DefaultURL = "https://wiki.internal/repair"
	cfg.Panel.WorkspaceSplit = 55

	mgr.watching = true
	require.NoError(t, mgr.Save(cfg))

	assert.Equal(t, "http://10.0.0.9:8808/stream", mgr.viper.GetString("bridge.endpoint"))
	assert.True(t, mgr.viper.GetBool("bridge.mock_mode"))
	assert.InDelta(t, 55.0, mgr.viper.GetFloat64("panel.workspace_split"), 0.001)

	written, err := os.ReadFile(mgr.viper.ConfigFileUsed())
	require.NoError(t, err)
	assert.Contains(t, string(written), "10.0.0.9")
	assert.Contains(t, string(written), "wiki.internal")

	got := mgr.Get()
	assert.True(t, got.Bridge.MockMode)
	assert.Equal(t, "https://wiki.internal/repair", got.Panel.DefaultURL)
}

func TestSave_SuppressesOwnWatcherReload(t *testing.T) {
	mgr := newFileBackedManager(t)

	mgr.watching = true
	require.NoError(t, mgr.Save(DefaultConfig()))
	assert.True(t, mgr.skipNextReload)

	// Without an active watcher there is no reload to suppress.
	mgr2 := newFileBackedManager(t)
	require.NoError(t, mgr2.Save(DefaultConfig()))
	assert.False(t, mgr2.skipNextReload)
}

func TestSave_RejectsInvalidConfig(t *testing.T) {
	mgr := newFileBackedManager(t)

	cfg := DefaultConfig()
	cfg.Bridge.Endpoint = "not a url"

	require.Error(t, mgr.Save(cfg))
}

func TestNormalizeConfig_TrimsEndpoints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bridge.Endpoint = "  http://10.0.0.4:8808/stream \n"

	normalizeConfig(cfg)

	assert.Equal(t, "http://10.0.0.4:8808/stream", cfg.Bridge.Endpoint)
}
