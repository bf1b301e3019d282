package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/renameio/v2"
)

type Config struct {
	Library  LibraryConfig  `toml:"library"`
	Jellyfin JellyfinConfig `toml:"jellyfin"`
	Playback PlaybackConfig `toml:"playback"`
	Overlay  OverlayConfig  `toml:"overlay"`
	Gamepad  GamepadConfig  `toml:"gamepad"`
	UI       UIConfig       `toml:"ui"`
	Keybinds KeybindConfig  `toml:"keybinds"`
	Log      LogConfig      `toml:"log"`
}

type LibraryConfig struct {
	Root     string `toml:"root"`     // directory whose subdirectories are series
	Database string `toml:"database"` // sqlite file; empty means <config dir>/library.db
}

type JellyfinConfig struct {
	URL    string `toml:"url"`
	Token  string `toml:"token"`
	UserID string `toml:"user_id"`
}

// Enabled reports whether enough is configured to talk to a server.
func (j JellyfinConfig) Enabled() bool {
	return j.URL != "" && j.Token != "" && j.UserID != ""
}

type PlaybackConfig struct {
	HWAccel string `toml:"hwdec"`
	Volume  int    `toml:"volume"` // volume for entries that never had one
}

// OverlayConfig tunes the control overlay. Durations are in milliseconds,
// steps in seconds or volume percent.
type OverlayConfig struct {
	ShowMillis      int     `toml:"show_ms"`
	PauseShowMillis int     `toml:"pause_show_ms"`
	SkipIntro       float64 `toml:"skip_intro"`
	KeySeek         float64 `toml:"key_seek"`
	PadSeek         float64 `toml:"pad_seek"`
	PadSeekFast     float64 `toml:"pad_seek_fast"`
	VolumeStep      int     `toml:"volume_step"`
}

// ShowDelay is how long the overlay stays up after ordinary input.
func (o OverlayConfig) ShowDelay() time.Duration {
	return time.Duration(o.ShowMillis) * time.Millisecond
}

// PauseDelay is how long the overlay stays up after pause/resume.
func (o OverlayConfig) PauseDelay() time.Duration {
	return time.Duration(o.PauseShowMillis) * time.Millisecond
}

type GamepadConfig struct {
	Enabled      bool `toml:"enabled"`
	PollInterval int  `toml:"poll_interval_ms"`
}

// Interval returns the poll cadence.
func (g GamepadConfig) Interval() time.Duration {
	return time.Duration(g.PollInterval) * time.Millisecond
}

type UIConfig struct {
	Fullscreen bool `toml:"fullscreen"`
	Width      int  `toml:"width"`
	Height     int  `toml:"height"`
}

// KeybindConfig maps actions to key names. A binding may list alternatives
// separated by commas, e.g. "Equal,KPAdd".
type KeybindConfig struct {
	Quit            string `toml:"quit"`
	PlayPause       string `toml:"play_pause"`
	SkipIntro       string `toml:"skip_intro"`
	Fullscreen      string `toml:"fullscreen"`
	NextEpisode     string `toml:"next_episode"`
	PreviousEpisode string `toml:"previous_episode"`
	VolumeUp        string `toml:"volume_up"`
	VolumeDown      string `toml:"volume_down"`
	SeekForward     string `toml:"seek_forward"`
	SeekBackward    string `toml:"seek_backward"`
	ShowOverlay     string `toml:"show_overlay"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Playback: PlaybackConfig{
			HWAccel: "auto-safe",
			Volume:  50,
		},
		Overlay: OverlayConfig{
			ShowMillis:      1000,
			PauseShowMillis: 3000,
			SkipIntro:       80,
			KeySeek:         2,
			PadSeek:         1,
			PadSeekFast:     3,
			VolumeStep:      5,
		},
		Gamepad: GamepadConfig{
			Enabled:      true,
			PollInterval: 50,
		},
		UI: UIConfig{
			Fullscreen: false,
			Width:      1920,
			Height:     1080,
		},
		Keybinds: KeybindConfig{
			Quit:            "Escape",
			PlayPause:       "Space",
			SkipIntro:       "Enter",
			Fullscreen:      "F",
			NextEpisode:     "Up",
			PreviousEpisode: "Down",
			VolumeUp:        "Equal,KPAdd",
			VolumeDown:      "Minus,KPSubtract",
			SeekForward:     "KP6",
			SeekBackward:    "KP4",
			ShowOverlay:     "I",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate rejects values the overlay and poll loop cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Playback.Volume < 0 || c.Playback.Volume > 100 {
		errs = append(errs, fmt.Errorf("playback.volume %d out of range 0-100", c.Playback.Volume))
	}
	if c.Overlay.ShowMillis <= 0 {
		errs = append(errs, fmt.Errorf("overlay.show_ms must be positive, got %d", c.Overlay.ShowMillis))
	}
	if c.Overlay.PauseShowMillis <= 0 {
		errs = append(errs, fmt.Errorf("overlay.pause_show_ms must be positive, got %d", c.Overlay.PauseShowMillis))
	}
	if c.Overlay.VolumeStep <= 0 || c.Overlay.VolumeStep > 100 {
		errs = append(errs, fmt.Errorf("overlay.volume_step %d out of range 1-100", c.Overlay.VolumeStep))
	}
	if c.Gamepad.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("gamepad.poll_interval_ms must be positive, got %d", c.Gamepad.PollInterval))
	}
	if c.UI.Width <= 0 || c.UI.Height <= 0 {
		errs = append(errs, fmt.Errorf("ui size %dx%d is invalid", c.UI.Width, c.UI.Height))
	}
	return errors.Join(errs...)
}

func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "mediahand"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DatabasePath resolves the library database location.
func (c *Config) DatabasePath() (string, error) {
	if c.Library.Database != "" {
		return c.Library.Database, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "library.db"), nil
}

func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config atomically.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
