package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // a .cfg file or a directory of .cfg files

	Overrides   map[string]any // dotted-path overrides, applied after merging
	Interpolate bool           // resolve ${...} placeholders before rendering
	Order       []string       // top-level section names to render first

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
