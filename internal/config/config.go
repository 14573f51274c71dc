package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "melodia"

type Config struct {
	DBPath string `koanf:"db_path"` // empty means the XDG data dir

	// Playback engine
	PollInterval time.Duration `koanf:"poll_interval"` // e.g. "500ms"
	SeekStep     time.Duration `koanf:"seek_step"`     // arrow-key seek distance
	Volume       *float64      `koanf:"volume"`        // initial level 0.0-1.0 when nothing is saved

	// Desktop integration (both default to enabled)
	Notifications *bool `koanf:"notifications"`
	MPRIS         *bool `koanf:"mpris"`

	Log    LogConfig    `koanf:"log"`
	Lastfm LastfmConfig `koanf:"lastfm"`
}

// LastfmConfig holds the Last.fm API application credentials.
type LastfmConfig struct {
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `koanf:"level"` // "debug", "info", "warn", "error" (default: "info")
	File  string `koanf:"file"`  // empty means the XDG state dir
}

// PlaybackConfig is the playback part of the configuration with defaults
// applied.
type PlaybackConfig struct {
	PollInterval time.Duration
	SeekStep     time.Duration
	Volume       float64
}

// Load reads ~/.config/melodia/config.toml then ./config.toml.
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given files in order (last wins). Missing files are
// skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.DBPath != "" {
		cfg.DBPath = expandPath(cfg.DBPath)
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/melodia/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// NotificationsEnabled reports whether now-playing notifications are on.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications == nil || *c.Notifications
}

// MPRISEnabled reports whether the MPRIS D-Bus service is on.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS == nil || *c.MPRIS
}

// HasLastfmConfig reports whether scrobbling can be set up.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != ""
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := PlaybackConfig{
		PollInterval: c.PollInterval,
		SeekStep:     c.SeekStep,
		Volume:       1,
	}

	// Apply defaults
	if cfg.PollInterval < 50*time.Millisecond {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.SeekStep <= 0 {
		cfg.SeekStep = 5 * time.Second
	}
	if c.Volume != nil && *c.Volume >= 0 && *c.Volume <= 1 {
		cfg.Volume = *c.Volume
	}

	return cfg
}

// GetLogConfig returns the logging configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		cfg.Level = "info"
	}
	return cfg
}
