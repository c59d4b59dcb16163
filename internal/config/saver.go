package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// testConfigPath redirects Save and Load in tests.
var testConfigPath string

// SetTestConfigPath points the default config path at path.
func SetTestConfigPath(path string) { testConfigPath = path }

// ResetTestConfigPath restores the default config path.
func ResetTestConfigPath() { testConfigPath = "" }

// Save writes the config to the default config path.
func Save(cfg *Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes cfg to path in the format implied by its extension.
// Top-level keys in an existing file that Config does not manage are
// preserved. The write is atomic: a temp file is renamed over path.
func SaveTo(path string, cfg *Config) error {
	if path == "" {
		return fmt.Errorf("config: no path to save to")
	}
	path = ExpandPath(path)
	format := FormatFor(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	merged := map[string]any{}
	if existing, err := os.ReadFile(path); err == nil && len(existing) > 0 {
		if err := decode(format, existing, &merged); err != nil {
			return fmt.Errorf("parse existing %s: %w", path, err)
		}
	}

	managed, err := toMap(format, cfg)
	if err != nil {
		return err
	}
	for k, v := range managed {
		merged[k] = v
	}

	data, err := encode(format, merged)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// SaveUI loads the file at path, replaces its UI section and saves it.
func SaveUI(path string, ui UIConfig) error {
	cfg, err := LoadFrom(path)
	if err != nil {
		return err
	}
	cfg.UI = ui
	return SaveTo(path, cfg)
}

// toMap round-trips cfg through format so the managed keys carry the
// same shape as the file they merge into.
func toMap(format Format, cfg *Config) (map[string]any, error) {
	data, err := encode(format, cfg)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := decode(format, data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func encode(format Format, v any) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(v)
	case FormatYAML:
		return yaml.Marshal(v)
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
