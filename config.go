package nestframe

import (
	"fmt"
	"io"
	"os"

	"github.com/paveg/nestframe/internal/config"
	"github.com/paveg/nestframe/internal/logging"
)

// Config holds the process-wide settings: path separator, merge and split
// separators, display limits, parallelism and logging.
type Config = config.Config

// DefaultConfig returns the default settings.
func DefaultConfig() Config { return config.NewConfig() }

// CurrentConfig returns the settings in effect.
func CurrentConfig() Config { return config.GetGlobalConfig() }

// LoadConfig reads settings from a .json, .yaml or .yml file. Missing
// fields take their defaults.
func LoadConfig(path string) (Config, error) { return config.LoadFromFile(path) }

// ConfigFromEnv reads settings from NESTFRAME_* environment variables.
func ConfigFromEnv() Config { return config.LoadFromEnv() }

// Configure validates cfg, installs it process-wide and rebuilds the logger
// writing to stderr. The returned function flushes any remote log sink.
func Configure(cfg Config) (func(), error) {
	return ConfigureWithOutput(cfg, os.Stderr)
}

// ConfigureWithOutput is Configure with the log output given explicitly.
func ConfigureWithOutput(cfg Config, logOutput io.Writer) (func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	config.SetGlobalConfig(cfg)
	logger, closeLogger := logging.New(cfg, logOutput)
	logging.Set(logger)
	return closeLogger, nil
}
