package app

import "errors"

// Config holds all the configuration an App instance needs to run.
type Config struct {
	ManifestPath string   // path to a .hcl file or a directory of them
	Targets      []string // requested keys; empty means every registered key
	OutputDir    string   // where emitted units are written; empty prints to stdout
	NoDeps       bool     // skip dependency expansion (resume from prior builds)

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
