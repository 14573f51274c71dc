//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}
	return path
}

func ptr[T any](v T) *T { return &v }

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "tilde with nested path",
			input:    "~/.local/share/melodia/melodia.db",
			expected: filepath.Join(home, ".local", "share", "melodia", "melodia.db"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/var/lib/melodia.db",
			expected: "/var/lib/melodia.db",
		},
		{
			name:     "relative path unchanged",
			input:    "data/melodia.db",
			expected: "data/melodia.db",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) == 0 {
		t.Fatal("getConfigPaths() returned empty slice")
	}

	// Last path should be local config.toml
	lastPath := paths[len(paths)-1]
	if lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		expectedFirst := filepath.Join(home, ".config", "melodia", "config.toml")
		if paths[0] != expectedFirst {
			t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
		}
	}
}

func TestGetPlaybackConfig_Defaults(t *testing.T) {
	cfg := Config{}
	got := cfg.GetPlaybackConfig()

	if got.PollInterval != 500*time.Millisecond {
		t.Errorf("PollInterval = %v, want 500ms", got.PollInterval)
	}
	if got.SeekStep != 5*time.Second {
		t.Errorf("SeekStep = %v, want 5s", got.SeekStep)
	}
	if got.Volume != 1 {
		t.Errorf("Volume = %v, want 1", got.Volume)
	}
}

func TestGetPlaybackConfig_Values(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   PlaybackConfig
	}{
		{
			name: "custom values kept",
			config: Config{
				PollInterval: 250 * time.Millisecond,
				SeekStep:     10 * time.Second,
				Volume:       ptr(0.4),
			},
			want: PlaybackConfig{PollInterval: 250 * time.Millisecond, SeekStep: 10 * time.Second, Volume: 0.4},
		},
		{
			name:   "too fast polling falls back",
			config: Config{PollInterval: time.Millisecond},
			want:   PlaybackConfig{PollInterval: 500 * time.Millisecond, SeekStep: 5 * time.Second, Volume: 1},
		},
		{
			name:   "volume out of range falls back",
			config: Config{Volume: ptr(1.5)},
			want:   PlaybackConfig{PollInterval: 500 * time.Millisecond, SeekStep: 5 * time.Second, Volume: 1},
		},
		{
			name:   "zero volume kept",
			config: Config{Volume: ptr(0.0)},
			want:   PlaybackConfig{PollInterval: 500 * time.Millisecond, SeekStep: 5 * time.Second, Volume: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.GetPlaybackConfig(); got != tt.want {
				t.Errorf("GetPlaybackConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGetLogConfig(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"", "info"},
		{"debug", "debug"},
		{"warn", "warn"},
		{"verbose", "info"},
	}
	for _, tt := range tests {
		cfg := Config{Log: LogConfig{Level: tt.level}}
		if got := cfg.GetLogConfig().Level; got != tt.want {
			t.Errorf("GetLogConfig().Level for %q = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestToggles_DefaultEnabled(t *testing.T) {
	cfg := Config{}
	if !cfg.NotificationsEnabled() {
		t.Error("NotificationsEnabled() = false, want true by default")
	}
	if !cfg.MPRISEnabled() {
		t.Error("MPRISEnabled() = false, want true by default")
	}

	cfg = Config{Notifications: ptr(false), MPRIS: ptr(false)}
	if cfg.NotificationsEnabled() {
		t.Error("NotificationsEnabled() = true, want false")
	}
	if cfg.MPRISEnabled() {
		t.Error("MPRISEnabled() = true, want false")
	}
}

func TestLoadFrom_BasicConfig(t *testing.T) {
	path := writeConfig(t, `
db_path = "~/melodia/library.db"
poll_interval = "250ms"
seek_step = "10s"
volume = 0.6
notifications = false

[log]
level = "DEBUG"
file = "/tmp/melodia.log"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "melodia", "library.db"); cfg.DBPath != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, want)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v, want 250ms", cfg.PollInterval)
	}
	if cfg.SeekStep != 10*time.Second {
		t.Errorf("SeekStep = %v, want 10s", cfg.SeekStep)
	}
	if cfg.Volume == nil || *cfg.Volume != 0.6 {
		t.Errorf("Volume = %v, want 0.6", cfg.Volume)
	}
	if cfg.NotificationsEnabled() {
		t.Error("NotificationsEnabled() = true, want false")
	}
	if !cfg.MPRISEnabled() {
		t.Error("MPRISEnabled() = false, want true")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.File != "/tmp/melodia.log" {
		t.Errorf("Log.File = %q, want /tmp/melodia.log", cfg.Log.File)
	}
}

func TestLoadFrom_LastFileWins(t *testing.T) {
	user := writeConfig(t, `
seek_step = "10s"
volume = 0.3
`)
	local := writeConfig(t, `seek_step = "2s"`)

	cfg, err := LoadFrom(user, local)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.SeekStep != 2*time.Second {
		t.Errorf("SeekStep = %v, want 2s", cfg.SeekStep)
	}
	if cfg.Volume == nil || *cfg.Volume != 0.3 {
		t.Errorf("Volume = %v, want 0.3 from the first file", cfg.Volume)
	}
}

func TestLoadFrom_MissingFilesSkipped(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.DBPath != "" {
		t.Errorf("DBPath = %q, want empty", cfg.DBPath)
	}
}

func TestLoadFrom_InvalidToml(t *testing.T) {
	path := writeConfig(t, "invalid = [[[")

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() expected error for invalid TOML, got nil")
	}
}

func TestLoad_ReadsWorkingDirectory(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile("config.toml", []byte(`seek_step = "7s"`), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SeekStep != 7*time.Second {
		t.Errorf("SeekStep = %v, want 7s", cfg.SeekStep)
	}
}

func TestLoadFrom_Lastfm(t *testing.T) {
	path := writeConfig(t, `
[lastfm]
api_key = "k"
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Lastfm.APIKey != "k" {
		t.Errorf("APIKey = %q, want k", cfg.Lastfm.APIKey)
	}
	if cfg.HasLastfmConfig() {
		t.Error("HasLastfmConfig() = true without a secret")
	}

	cfg.Lastfm.APISecret = "s"
	if !cfg.HasLastfmConfig() {
		t.Error("HasLastfmConfig() = false with key and secret")
	}
}
