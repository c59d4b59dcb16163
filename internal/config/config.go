package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/marcus/notepad/internal/kv"
	"github.com/marcus/notepad/internal/styles"
)

// List width bounds in cells.
const (
	DefaultListWidth = 28
	MinListWidth     = 16
	MaxListWidth     = 80
)

// Config is the root configuration structure.
type Config struct {
	Storage StorageConfig `json:"storage" toml:"storage" yaml:"storage"`
	UI      UIConfig      `json:"ui" toml:"ui" yaml:"ui"`
	Keymap  KeymapConfig  `json:"keymap" toml:"keymap" yaml:"keymap"`
	Log     LogConfig     `json:"log" toml:"log" yaml:"log"`

	// LoadedAt is when Watch started reading the file. Zero otherwise.
	LoadedAt time.Time `json:"-" toml:"-" yaml:"-"`
}

// StorageConfig selects the key-value backend holding notes and preferences.
type StorageConfig struct {
	Backend string `json:"backend" toml:"backend" yaml:"backend"` // file, sqlite, sqlite-pure, bolt, memory
	Path    string `json:"path" toml:"path" yaml:"path"`          // empty = <dataDir>/<backend default>
	DataDir string `json:"dataDir" toml:"dataDir" yaml:"dataDir"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowClock  bool        `json:"showClock" toml:"showClock" yaml:"showClock"`
	ShowFooter bool        `json:"showFooter" toml:"showFooter" yaml:"showFooter"`
	ListWidth  int         `json:"listWidth" toml:"listWidth" yaml:"listWidth"`
	Animations bool        `json:"animations" toml:"animations" yaml:"animations"`
	Theme      ThemeConfig `json:"theme" toml:"theme" yaml:"theme"`
}

// ThemeConfig configures the color theme.
type ThemeConfig struct {
	Name      string            `json:"name" toml:"name" yaml:"name"`
	Overrides map[string]string `json:"overrides,omitempty" toml:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides" toml:"overrides" yaml:"overrides"`
}

// LogConfig configures the diagnostics log.
type LogConfig struct {
	Level string `json:"level" toml:"level" yaml:"level"` // debug, info, warn, error
	File  string `json:"file" toml:"file" yaml:"file"`    // empty = <dataDir>/notepad.log, "-" = stderr
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: string(kv.BackendFile),
			DataDir: DefaultDataDir(),
		},
		UI: UIConfig{
			ShowClock:  true,
			ShowFooter: true,
			ListWidth:  DefaultListWidth,
			Animations: true,
			Theme: ThemeConfig{
				Name:      "default",
				Overrides: make(map[string]string),
			},
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for errors. Out-of-range numbers are
// clamped; unknown names are errors.
func (c *Config) Validate() error {
	backend, err := kv.ParseBackend(c.Storage.Backend)
	if err != nil {
		return fmt.Errorf("storage.backend: %w", err)
	}
	c.Storage.Backend = string(backend)

	if c.UI.ListWidth == 0 {
		c.UI.ListWidth = DefaultListWidth
	}
	c.UI.ListWidth = max(MinListWidth, min(MaxListWidth, c.UI.ListWidth))

	if c.UI.Theme.Name == "" {
		c.UI.Theme.Name = "default"
	}
	if !styles.IsValidTheme(c.UI.Theme.Name) {
		return fmt.Errorf("ui.theme.name: unknown theme %q (have %s)",
			c.UI.Theme.Name, strings.Join(styles.ListThemes(), ", "))
	}
	for key, value := range c.UI.Theme.Overrides {
		if !styles.IsValidHexColor(value) {
			return fmt.Errorf("ui.theme.overrides.%s: %q is not a hex color", key, value)
		}
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// StoragePath returns the backend file path, falling back to the
// backend's default file inside DataDir.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return ExpandPath(c.Storage.Path)
	}
	backend, err := kv.ParseBackend(c.Storage.Backend)
	if err != nil {
		return ""
	}
	return kv.DefaultPath(ExpandPath(c.Storage.DataDir), backend)
}

// LogPath returns the log destination. "-" means stderr.
func (c *Config) LogPath() string {
	switch c.Log.File {
	case "-":
		return "-"
	case "":
		return joinDataDir(c.Storage.DataDir, "notepad.log")
	default:
		return ExpandPath(c.Log.File)
	}
}

// ParseLevel maps a level name to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown level %q", s)
}
