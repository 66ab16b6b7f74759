package app

import (
	"errors"
	"fmt"

	"github.com/vk/taskgridgo/internal/completion"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// DescriptionPath locates the experiment description document.
	DescriptionPath string

	// RegistryPath locates an optional task/type definitions file backing
	// the completion registry. Empty disables completion.
	RegistryPath string

	// Policy is the completion policy applied when a registry is configured.
	Policy completion.Policy

	// Parameters are the caller-supplied global parameter values.
	Parameters map[string]any

	// Execute runs the description after validation; without it the app
	// stops at reporting issues.
	Execute bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DescriptionPath == "" {
		return nil, errors.New("DescriptionPath is a required configuration field and cannot be empty")
	}
	if cfg.RegistryPath == "" && cfg.Policy != completion.PolicyNone {
		return nil, fmt.Errorf("completion policy %q requires a registry", cfg.Policy)
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg, nil
}
