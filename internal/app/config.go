package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DefPath  string // .hcl or .yaml table definition
	DataPath string // .json, .yaml, .xlsx or .hcl items
	Sheet    string

	// Overrides of the definition. Empty values and nil pointers keep what
	// the definition declares.
	Sort      string
	Filter    string
	Search    string
	Group     []string
	Page      *int
	PageSize  *int
	ExpandAll bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DefPath == "" {
		return nil, errors.New("DefPath is a required configuration field and cannot be empty")
	}
	if cfg.DataPath == "" {
		return nil, errors.New("DataPath is a required configuration field and cannot be empty")
	}
	if cfg.Page != nil && *cfg.Page < 0 {
		return nil, fmt.Errorf("page must not be negative, got %d", *cfg.Page)
	}
	if cfg.PageSize != nil && *cfg.PageSize < 1 {
		return nil, fmt.Errorf("page size must be positive, got %d", *cfg.PageSize)
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	return &cfg, nil
}
