package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// decodeOrCreate decodes the TOML file at path into v. A missing file is
// written from template and v keeps its defaults.
func decodeOrCreate(path, template string, v any) (toml.MetaData, error) {
	if !FileExists(path) {
		if err := EnsureDir(filepath.Dir(path)); err != nil {
			return toml.MetaData{}, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(template), 0600); err != nil {
			return toml.MetaData{}, fmt.Errorf("failed to write %s: %w", path, err)
		}
		return toml.MetaData{}, nil
	}

	md, err := toml.DecodeFile(path, v)
	if err != nil {
		return md, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 && DebugLog != nil {
		DebugLog.Printf("[Config] Ignoring unknown keys in %s: %v", path, undecoded)
	}
	return md, nil
}

// LoadSystemConfig reads ~/.config/paperhub/settings.toml.
func LoadSystemConfig() (*SystemConfig, error) {
	cfg := DefaultSystemConfig()
	if _, err := decodeOrCreate(GetSettingsFilePath(), GenerateSystemConfigTemplate(), cfg); err != nil {
		return nil, fmt.Errorf("system config: %w", err)
	}
	return cfg, nil
}

// LoadUserConfig decodes <dataDir>/config.toml over the defaults, creating
// the commented template when the file is missing.
func LoadUserConfig(dataDir string) (*UserConfig, error) {
	cfg := DefaultUserConfig()
	if _, err := decodeOrCreate(UserConfigPath(dataDir), GenerateUserConfigTemplate(), cfg); err != nil {
		return nil, fmt.Errorf("user config: %w", err)
	}
	return cfg, nil
}
