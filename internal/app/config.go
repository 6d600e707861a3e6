package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// StatePath points at the HCL generation-state document to build from.
	StatePath string

	// BackendURL is the inference service; required when Submit is set.
	BackendURL string
	// Submit enqueues the built graph instead of printing it.
	Submit bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.StatePath == "" {
		return nil, errors.New("StatePath is a required configuration field and cannot be empty")
	}
	if cfg.Submit && cfg.BackendURL == "" {
		return nil, errors.New("submitting requires a backend URL")
	}
	return &cfg, nil
}
