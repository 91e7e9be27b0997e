package config

import (
	"encoding/json"
	"os"
	"os/user"
	"path/filepath"

	"github.com/adrg/xdg"

	"dcm/internal/constants"
	"dcm/internal/errdefs"
	"dcm/internal/paths"
	"dcm/internal/system"
)

// AppConfig holds the application configuration settings backed by
// config.json. It is created once with defaults on first run and is
// read-only to every command afterwards.
type AppConfig struct {
	AppsDirectory    string         `json:"apps_directory"`
	Backup           BackupConfig   `json:"backup"`
	LogLevel         string         `json:"log_level"`
	LogRetentionDays int            `json:"log_retention_days"`
	Templates        TemplateConfig `json:"templates"`

	// Runtime-only fields, never saved
	BackupsDir string `json:"-"`
}

// BackupConfig holds backup behavior settings.
type BackupConfig struct {
	// IncludeVolumes governs whether named volumes are snapshotted into
	// backup archives.
	IncludeVolumes bool `json:"include_volumes"`
	// RetentionDays prunes an app's archives older than the window after
	// each successful backup. 0 keeps archives forever.
	RetentionDays int `json:"retention_days"`
}

// TemplateConfig holds template provisioning settings.
type TemplateConfig struct {
	// RegistryURL is the remote document listing available scaffolds.
	RegistryURL string `json:"registry_url"`
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		AppsDirectory: "${HOME}/dcm/apps",
		Backup: BackupConfig{
			IncludeVolumes: false,
			RetentionDays:  0,
		},
		LogLevel:         "notice",
		LogRetentionDays: 14,
		Templates: TemplateConfig{
			RegistryURL: "https://raw.githubusercontent.com/dcm-apps/templates/main/templates.json",
		},
	}
}

// ExpandVariables expands a limited set of environment-style variables
// in config values:
// - ${XDG_CONFIG_HOME}, ${XDG_DATA_HOME}, ${XDG_STATE_HOME}, ${XDG_CACHE_HOME}
// - ${HOME}
// - ${USER}
func ExpandVariables(val string) string {
	mapper := func(varName string) string {
		switch varName {
		case "XDG_CONFIG_HOME":
			return xdg.ConfigHome
		case "XDG_DATA_HOME":
			return xdg.DataHome
		case "XDG_STATE_HOME":
			return xdg.StateHome
		case "XDG_CACHE_HOME":
			return xdg.CacheHome
		case "HOME":
			home, err := os.UserHomeDir()
			if err != nil {
				return ""
			}
			return home
		case "USER":
			u, err := user.Current()
			if err != nil {
				return os.Getenv("USERNAME")
			}
			return u.Username
		}
		return ""
	}
	return os.Expand(val, mapper)
}

// LoadAppConfig reads config.json and returns the effective
// configuration. A missing file materializes the defaults once
// (first-run tolerance); a present but unparseable file is a
// CorruptStateError and is never overwritten.
func LoadAppConfig() (AppConfig, error) {
	conf := Defaults()
	path := paths.GetConfigFilePath()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(data, &conf); jsonErr != nil {
			return conf, &errdefs.CorruptStateError{Path: path, Err: jsonErr}
		}
	case os.IsNotExist(err):
		if saveErr := SaveAppConfig(conf); saveErr != nil {
			return conf, saveErr
		}
	default:
		return conf, err
	}

	conf.AppsDirectory = ExpandVariables(conf.AppsDirectory)
	conf.BackupsDir = filepath.Join(conf.AppsDirectory, constants.BackupsDirName)
	return conf, nil
}

// SaveAppConfig writes the configuration to config.json via a temp file
// and rename so a crash never leaves a truncated file.
func SaveAppConfig(conf AppConfig) error {
	path := paths.GetConfigFilePath()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	return system.WriteFileAtomic(path, data, 0o644)
}
