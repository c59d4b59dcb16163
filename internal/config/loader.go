package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".config/notepad"
	configFile = "config.json"
	dataDir    = ".local/share/notepad"
)

// Format is a config file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from the file extension. Unknown
// extensions read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// rawConfig is the unmarshaling intermediary. Pointers distinguish
// "absent" from zero values so defaults survive partial files.
type rawConfig struct {
	Storage rawStorageConfig `json:"storage" toml:"storage" yaml:"storage"`
	UI      rawUIConfig      `json:"ui" toml:"ui" yaml:"ui"`
	Keymap  KeymapConfig     `json:"keymap" toml:"keymap" yaml:"keymap"`
	Log     rawLogConfig     `json:"log" toml:"log" yaml:"log"`
}

type rawStorageConfig struct {
	Backend *string `json:"backend" toml:"backend" yaml:"backend"`
	Path    *string `json:"path" toml:"path" yaml:"path"`
	DataDir *string `json:"dataDir" toml:"dataDir" yaml:"dataDir"`
}

type rawUIConfig struct {
	ShowClock  *bool       `json:"showClock" toml:"showClock" yaml:"showClock"`
	ShowFooter *bool       `json:"showFooter" toml:"showFooter" yaml:"showFooter"`
	ListWidth  *int        `json:"listWidth" toml:"listWidth" yaml:"listWidth"`
	Animations *bool       `json:"animations" toml:"animations" yaml:"animations"`
	Theme      ThemeConfig `json:"theme" toml:"theme" yaml:"theme"`
}

type rawLogConfig struct {
	Level *string `json:"level" toml:"level" yaml:"level"`
	File  *string `json:"file" toml:"file" yaml:"file"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/notepad/config.json
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
		if path == "" {
			return cfg, nil
		}
	}
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	var raw rawConfig
	if err := decode(FormatFor(path), data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	mergeConfig(cfg, &raw)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(format Format, data []byte, v any) error {
	switch format {
	case FormatTOML:
		return toml.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	// Storage
	if raw.Storage.Backend != nil {
		cfg.Storage.Backend = *raw.Storage.Backend
	}
	if raw.Storage.Path != nil {
		cfg.Storage.Path = *raw.Storage.Path
	}
	if raw.Storage.DataDir != nil && *raw.Storage.DataDir != "" {
		cfg.Storage.DataDir = *raw.Storage.DataDir
	}

	// UI
	if raw.UI.ShowClock != nil {
		cfg.UI.ShowClock = *raw.UI.ShowClock
	}
	if raw.UI.ShowFooter != nil {
		cfg.UI.ShowFooter = *raw.UI.ShowFooter
	}
	if raw.UI.ListWidth != nil {
		cfg.UI.ListWidth = *raw.UI.ListWidth
	}
	if raw.UI.Animations != nil {
		cfg.UI.Animations = *raw.UI.Animations
	}
	if raw.UI.Theme.Name != "" {
		cfg.UI.Theme.Name = raw.UI.Theme.Name
	}
	for k, v := range raw.UI.Theme.Overrides {
		cfg.UI.Theme.Overrides[k] = v
	}

	// Keymap
	for k, v := range raw.Keymap.Overrides {
		cfg.Keymap.Overrides[k] = v
	}

	// Log
	if raw.Log.Level != nil {
		cfg.Log.Level = *raw.Log.Level
	}
	if raw.Log.File != nil {
		cfg.Log.File = *raw.Log.File
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	if testConfigPath != "" {
		return testConfigPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}

// DefaultDataDir returns the directory holding notes and logs.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, dataDir)
}

func joinDataDir(dir, name string) string {
	if dir == "" {
		dir = DefaultDataDir()
	}
	return filepath.Join(ExpandPath(dir), name)
}
