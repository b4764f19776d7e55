package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	appDirName       = "paperhub"
	settingsFileName = "settings.toml"
	userConfigName   = "config.toml"
)

// GetConfigDir is ~/.config/paperhub on every platform, so the settings file
// is easy to find when the data directory is synced elsewhere.
func GetConfigDir() string {
	return filepath.Join(GetHomeDir(), ".config", appDirName)
}

func GetSettingsFilePath() string {
	return filepath.Join(GetConfigDir(), settingsFileName)
}

// UserConfigPath is the per-data-directory config file.
func UserConfigPath(dataDir string) string {
	return filepath.Join(dataDir, userConfigName)
}

// GetHomeDir returns $HOME (%USERPROFILE% on Windows), or the filesystem
// root when neither is set.
func GetHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	return string(filepath.Separator)
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	switch {
	case path == "~":
		path = GetHomeDir()
	case strings.HasPrefix(path, "~/"):
		path = filepath.Join(GetHomeDir(), path[2:])
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// EnsureDir creates path with user-only access.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDataDirPermissions creates dataDir or tightens it to 0700. The data
// dir holds prefs, the local database and debug logs.
func EnsureDataDirPermissions(dataDir string) error {
	info, err := os.Stat(dataDir)
	if errors.Is(err, fs.ErrNotExist) {
		return EnsureDir(dataDir)
	}
	if err != nil {
		return err
	}
	if info.Mode().Perm() != 0700 {
		return os.Chmod(dataDir, 0700)
	}
	return nil
}
