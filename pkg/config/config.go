// Package config loads and validates the exporter configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete exporter configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority, applied by the caller after Load)
//  2. Environment variables (GANESHA_EXPORTER_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Server configures the scrape HTTP endpoint
	Server ServerConfig `mapstructure:"server"`

	// Ganesha configures the DBus connection to the NFS-Ganesha daemon
	Ganesha GaneshaConfig `mapstructure:"ganesha"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// ServerConfig configures the scrape HTTP endpoint.
type ServerConfig struct {
	// Port is the TCP port the metrics endpoint listens on
	Port int `mapstructure:"port" validate:"required,gt=0,lte=65535"`

	// Path is the URL path the exposition format is served at
	Path string `mapstructure:"path" validate:"required,startswith=/"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`
}

// GaneshaConfig configures the connection to the NFS-Ganesha daemon.
type GaneshaConfig struct {
	// SessionBus connects over the session bus instead of the system bus,
	// for daemons started by hand during development
	SessionBus bool `mapstructure:"session_bus"`

	// CallTimeout bounds every DBus statistics call
	CallTimeout time.Duration `mapstructure:"call_timeout" validate:"required,gt=0"`
}

// Load reads configuration from file and environment, applies defaults,
// and validates the result.
//
// An empty configPath uses the default location; a missing config file is
// not an error, defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures environment variable and config file handling.
func setupViper(v *viper.Viper, configPath string) {
	// Example: GANESHA_EXPORTER_SERVER_PORT=9587
	v.SetEnvPrefix("GANESHA_EXPORTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file is fine, defaults apply
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory path, following
// XDG_CONFIG_HOME when set.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "ganesha-exporter")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "ganesha-exporter")
}
