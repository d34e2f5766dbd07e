package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"sctl/internal/errors"
)

const (
	// SettingsFileName is the per-directory settings file name.
	SettingsFileName = ".sctl.yaml"
	// GlobalSettingsDir is the directory for global settings.
	GlobalSettingsDir = ".config/sctl"
	// GlobalSettingsFile is the global settings file name.
	GlobalSettingsFile = "config.yaml"
)

// Settings holds optional dashboard preferences. Everything here can also be
// set (and is overridden) by command-line flags.
type Settings struct {
	// User qualifies SSH targets as user@host. Empty means the SSH config
	// or current user applies.
	User string `mapstructure:"user"`

	// ConnectTimeout bounds each SSH connection attempt.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`

	// Log is a file path for diagnostic logging. Empty disables logging.
	Log string `mapstructure:"log"`

	// Viewer is the read-only pager for captured remote output.
	Viewer []string `mapstructure:"viewer"`
}

// DefaultSettings returns the settings used when no file and no flags are present.
func DefaultSettings() Settings {
	return Settings{
		ConnectTimeout: 2 * time.Second,
		Viewer:         []string{"vim", "-R"},
	}
}

// FindSettings locates the settings file:
//  1. Explicit path (from --config flag) — must exist.
//  2. .sctl.yaml in the current directory.
//  3. ~/.config/sctl/config.yaml.
//
// Returns empty string (no error) when nothing is found and no explicit path
// was given.
func FindSettings(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Specified config file not found: "+explicit,
				"Check the path is correct")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err == nil {
		local := filepath.Join(cwd, SettingsFileName)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		global := filepath.Join(home, GlobalSettingsDir, GlobalSettingsFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// LoadSettings reads the settings file at path. An empty path returns defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return settings, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file "+path,
			"Check the file is valid YAML")
	}

	if err := v.Unmarshal(&settings); err != nil {
		return settings, errors.WrapWithCode(err, errors.ErrConfig,
			"Config file "+path+" has unexpected structure",
			"Supported keys: user, connect_timeout, log, viewer")
	}

	if settings.ConnectTimeout <= 0 {
		settings.ConnectTimeout = DefaultSettings().ConnectTimeout
	}
	if len(settings.Viewer) == 0 {
		settings.Viewer = DefaultSettings().Viewer
	}

	return settings, nil
}
