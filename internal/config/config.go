// SPDX-License-Identifier: MPL-2.0

// Package config loads the sdkops configuration: defaults, an optional
// TOML config file in the platform config directory, and SDKOPS_*
// environment variable overrides, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"sdkops/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "sdkops"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
)

// configFilePathOverride allows the --config flag (and tests) to point
// at a specific config file.
var configFilePathOverride string

// Config holds the sdkops settings shared by the verify and image commands.
type Config struct {
	// MinimumVersion is the SDK version threshold the verifier enforces.
	MinimumVersion string `mapstructure:"minimum_version" toml:"minimum_version"`
	// SDKBinary is the SDK CLI binary name probed on PATH.
	SDKBinary string `mapstructure:"sdk_binary" toml:"sdk_binary"`
	// ContainerEngine selects the engine for image builds (docker, podman, auto).
	ContainerEngine string `mapstructure:"container_engine" toml:"container_engine"`
	// Image is the local repository name for the toolchain image.
	Image string `mapstructure:"image" toml:"image"`
	// Registry is the registry prefix images are retagged with before push.
	Registry string `mapstructure:"registry" toml:"registry"`
	// Tag is the default image tag.
	Tag string `mapstructure:"tag" toml:"tag"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		MinimumVersion:  "6.0",
		SDKBinary:       "dotnet",
		ContainerEngine: "auto",
		Image:           "sdkops/toolchain",
		Registry:        "",
		Tag:             "latest",
	}
}

// SetConfigFilePathOverride points config loading at a specific file.
// An empty path restores the default search behavior.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}

// ConfigDir returns the sdkops configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// ConfigFilePath returns the path the config file is loaded from,
// honoring any override set via SetConfigFilePathOverride.
func ConfigFilePath() (string, error) {
	if configFilePathOverride != "" {
		return configFilePathOverride, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// Load reads the configuration. A missing config file is not an error;
// defaults and environment overrides still apply. A file explicitly
// selected via SetConfigFilePathOverride must exist.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("minimum_version", defaults.MinimumVersion)
	v.SetDefault("sdk_binary", defaults.SDKBinary)
	v.SetDefault("container_engine", defaults.ContainerEngine)
	v.SetDefault("image", defaults.Image)
	v.SetDefault("registry", defaults.Registry)
	v.SetDefault("tag", defaults.Tag)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.AutomaticEnv()

	if configFilePathOverride != "" {
		if _, err := os.Stat(configFilePathOverride); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(configFilePathOverride).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'sdkops config init' to create a starter config").
				Wrap(err).
				BuildError()
		}
		v.SetConfigFile(configFilePathOverride)
		v.SetConfigType(ConfigFileExt)
	} else {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(v.ConfigFileUsed()).
				WithSuggestion("Check TOML syntax in the config file").
				Wrap(err).
				BuildError()
		}
		// No config file: defaults apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, issue.WrapWithOperation(err, "parse configuration")
	}

	return cfg, nil
}

// WriteDefault writes the built-in defaults as a TOML config file at
// path, creating parent directories as needed. Refuses to overwrite an
// existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file '%s' already exists", path)
	}

	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
