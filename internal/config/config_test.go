package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[overlay]
show_ms = 1500

[gamepad]
enabled = false

[keybinds]
quit = "Backspace"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Overlay.ShowDelay())
	assert.Equal(t, 3*time.Second, cfg.Overlay.PauseDelay())
	assert.False(t, cfg.Gamepad.Enabled)
	assert.Equal(t, "Backspace", cfg.Keybinds.Quit)
	assert.Equal(t, "Space", cfg.Keybinds.PlayPause)
}

func TestLoadFile_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[playback]\nvolume = 140\n"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "playback.volume")
}

func TestLoadFile_RejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[overlay\nshow_ms = "), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Overlay.ShowMillis = 0
	cfg.Gamepad.PollInterval = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlay.show_ms")
	assert.Contains(t, err.Error(), "gamepad.poll_interval_ms")
}

func TestSaveFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Library.Root = "/srv/series"
	cfg.Jellyfin = JellyfinConfig{URL: "https://jf.example", Token: "tok", UserID: "u1"}

	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.True(t, loaded.Jellyfin.Enabled())
}

func TestDatabasePath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	cfg := DefaultConfig()
	path, err := cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "mediahand", "library.db"), path)

	cfg.Library.Database = "/var/lib/mediahand.db"
	path, err = cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/mediahand.db", path)
}
