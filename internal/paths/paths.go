// Package paths resolves the configuration, data, and backup directories.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user directories.
const appName = "speakboard"

// CWD-relative directory names used when nothing else is configured.
const (
	DefaultDataDirName   = ".speakboard-db"
	DefaultBackupDirName = "backups"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SPEAKBOARD_CONFIG_DIR"
	EnvDataDir   = "SPEAKBOARD_DATA_DIR"
	EnvBackupDir = "SPEAKBOARD_BACKUP_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/speakboard (fallback ~/.config/speakboard)
// macOS:   ~/Library/Application Support/speakboard
// Windows: %APPDATA%/speakboard
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	return userDir()
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/speakboard (fallback ~/.local/share/speakboard)
// macOS and Windows: same as DefaultConfigDir.
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	}
	return userDir()
}

func xdgDir(env, fallback string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

func userDir() (string, error) {
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > SPEAKBOARD_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config value > SPEAKBOARD_DATA_DIR env > $(CWD)/.speakboard-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	return resolve(flag, configValue, EnvDataDir, DefaultDataDirName)
}

// ResolveBackupDir returns where exported backups are written:
// flag > config value > SPEAKBOARD_BACKUP_DIR env > $(CWD)/backups.
func ResolveBackupDir(flag, configValue string) (string, error) {
	return resolve(flag, configValue, EnvBackupDir, DefaultBackupDirName)
}

func resolve(flag, configValue, env, cwdName string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(env)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, cwdName), nil
}
