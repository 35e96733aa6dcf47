package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level INFO, got %q", cfg.Logging.Level)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.Path != "/metrics" {
		t.Errorf("Expected default path /metrics, got %q", cfg.Server.Path)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("Expected default shutdown timeout 5s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Ganesha.CallTimeout != DefaultCallTimeout {
		t.Errorf("Expected default call timeout %v, got %v", DefaultCallTimeout, cfg.Ganesha.CallTimeout)
	}
	if cfg.Ganesha.SessionBus {
		t.Error("Expected system bus by default")
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "debug"},
		Server:  ServerConfig{Port: 9587, Path: "/stats"},
		Ganesha: GaneshaConfig{CallTimeout: 2 * time.Second},
	}
	ApplyDefaults(cfg)

	if cfg.Server.Port != 9587 {
		t.Errorf("Expected explicit port preserved, got %d", cfg.Server.Port)
	}
	if cfg.Server.Path != "/stats" {
		t.Errorf("Expected explicit path preserved, got %q", cfg.Server.Path)
	}
	if cfg.Ganesha.CallTimeout != 2*time.Second {
		t.Errorf("Expected explicit timeout preserved, got %v", cfg.Ganesha.CallTimeout)
	}
}

func TestApplyDefaults_NormalizesLogLevel(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "warn"}}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected log level normalized to WARN, got %q", cfg.Logging.Level)
	}
}
