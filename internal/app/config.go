package app

import (
	"errors"
	"fmt"
)

// DefaultBuildDir is where outputs go when no build directory is given.
const DefaultBuildDir = "build"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	BuildPath string // build definition: a .hcl/.yaml file or a directory of .hcl files
	BuildDir  string // root of all declared outputs

	WorkerCount     int
	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	NoColor         bool
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error
	if cfg.BuildPath == "" {
		errs = append(errs, errors.New("BuildPath is a required configuration field and cannot be empty"))
	}
	if cfg.BuildDir == "" {
		errs = append(errs, errors.New("BuildDir cannot be empty"))
	}
	if cfg.WorkerCount < 1 {
		errs = append(errs, fmt.Errorf("WorkerCount must be at least 1, got %d", cfg.WorkerCount))
	}
	if _, ok := logLevels[cfg.LogLevel]; !ok && cfg.LogLevel != "" {
		errs = append(errs, fmt.Errorf("unknown log level %q", cfg.LogLevel))
	}
	if _, ok := logFormats[cfg.LogFormat]; !ok && cfg.LogFormat != "" {
		errs = append(errs, fmt.Errorf("unknown log format %q", cfg.LogFormat))
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
