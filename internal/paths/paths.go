package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"

	"dcm/internal/constants"
	"dcm/internal/version"
)

var (
	// ConfigHomeOverride allows overriding the config home for tests.
	ConfigHomeOverride string
	// StateHomeOverride allows overriding the state home for tests.
	StateHomeOverride string
)

// GetConfigDir returns the absolute path to the dcm configuration directory.
func GetConfigDir() string {
	if ConfigHomeOverride != "" {
		return ConfigHomeOverride
	}
	appName := strings.ToLower(version.ApplicationName)
	if runtime.GOOS == "darwin" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
	return filepath.Join(xdg.ConfigHome, appName)
}

// GetConfigFilePath returns the absolute path to the config.json file.
func GetConfigFilePath() string {
	return filepath.Join(GetConfigDir(), constants.ConfigFileName)
}

// GetRegistryFilePath returns the absolute path to the apps.json registry.
func GetRegistryFilePath() string {
	return filepath.Join(GetConfigDir(), constants.RegistryFileName)
}

// GetStateDir returns the absolute path to the dcm state directory.
func GetStateDir() string {
	if StateHomeOverride != "" {
		return StateHomeOverride
	}
	appName := strings.ToLower(version.ApplicationName)
	return filepath.Join(xdg.StateHome, appName)
}

// GetLogsDir returns the absolute path to the log file directory.
func GetLogsDir() string {
	return filepath.Join(GetStateDir(), constants.LogsDirName)
}

// GetLocksDir returns the absolute path to the per-app lock file directory.
func GetLocksDir() string {
	return filepath.Join(GetStateDir(), constants.LocksDirName)
}

