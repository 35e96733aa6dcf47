package config

import (
	"strings"
	"time"

	"github.com/marmos91/ganesha-exporter/pkg/metrics"
)

// DefaultCallTimeout bounds a single DBus statistics call.
const DefaultCallTimeout = 5 * time.Second

// ApplyDefaults sets default values for any unspecified configuration
// fields. Zero values are replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyGaneshaDefaults(&cfg.Ganesha)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.Port == 0 {
		cfg.Port = metrics.DefaultPort
	}
	if cfg.Path == "" {
		cfg.Path = metrics.DefaultPath
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
}

func applyGaneshaDefaults(cfg *GaneshaConfig) {
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
}

// GetDefaultConfig returns a fully defaulted configuration, mainly for
// tests.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
