// Package config provides configuration management for nestframe operations
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config represents the process-wide settings used by frame operations.
// The unresolved-column policy is deliberately absent: it is passed with
// every resolution call.
type Config struct {
	// Naming
	PathSeparator   string `json:"path_separator" yaml:"path_separator"`       // Joins path segments in flattened names
	UniqueNameStart int    `json:"unique_name_start" yaml:"unique_name_start"` // First numeric suffix for renamed columns

	// Merge / split
	MergeSeparator string `json:"merge_separator" yaml:"merge_separator"` // Default combiner separator
	SplitSeparator string `json:"split_separator" yaml:"split_separator"` // Default splitter separator

	// Sorting
	DefaultNullsLast bool `json:"default_nulls_last" yaml:"default_nulls_last"` // Null placement when a sort does not say

	// Rendering
	MaxDisplayRows int `json:"max_display_rows" yaml:"max_display_rows"` // Rows shown by String()

	// Parallel materialization
	ParallelThreshold int `json:"parallel_threshold" yaml:"parallel_threshold"` // Minimum group count before fanning out
	WorkerPoolSize    int `json:"worker_pool_size" yaml:"worker_pool_size"`     // Max goroutines (0 = NumCPU)

	// Debugging
	VerboseLogging bool   `json:"verbose_logging" yaml:"verbose_logging"` // Enable debug records
	LogLevel       string `json:"log_level" yaml:"log_level"`             // debug, info, warn, error
	SeqURL         string `json:"seq_url" yaml:"seq_url"`                 // Optional Seq server receiving log records
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultPathSeparator     = "."
	DefaultUniqueNameStart   = 1
	DefaultMergeSeparator    = ", "
	DefaultSplitSeparator    = ","
	DefaultMaxDisplayRows    = 20
	DefaultParallelThreshold = 1000
	DefaultLogLevel          = "info"
)

func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		PathSeparator:     DefaultPathSeparator,
		UniqueNameStart:   DefaultUniqueNameStart,
		MergeSeparator:    DefaultMergeSeparator,
		SplitSeparator:    DefaultSplitSeparator,
		DefaultNullsLast:  false,
		MaxDisplayRows:    DefaultMaxDisplayRows,
		ParallelThreshold: DefaultParallelThreshold,
		WorkerPoolSize:    0,
		VerboseLogging:    false,
		LogLevel:          DefaultLogLevel,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c.PathSeparator == "" {
		return fmt.Errorf("PathSeparator must not be empty")
	}

	if c.UniqueNameStart < 0 {
		return fmt.Errorf("UniqueNameStart must be non-negative, got %d", c.UniqueNameStart)
	}

	if c.SplitSeparator == "" {
		return fmt.Errorf("SplitSeparator must not be empty")
	}

	if c.MaxDisplayRows <= 0 {
		return fmt.Errorf("MaxDisplayRows must be positive, got %d", c.MaxDisplayRows)
	}

	if c.ParallelThreshold <= 0 {
		return fmt.Errorf("ParallelThreshold must be positive, got %d", c.ParallelThreshold)
	}

	if c.WorkerPoolSize < 0 {
		return fmt.Errorf("WorkerPoolSize must be non-negative, got %d", c.WorkerPoolSize)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// Level parses LogLevel. VerboseLogging forces debug.
func (c *Config) Level() (slog.Level, error) {
	if c.VerboseLogging {
		return slog.LevelDebug, nil
	}
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LogLevel must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	return level, nil
}

// WithDefaults returns a new configuration with default values filled in for zero values
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.PathSeparator == "" {
		c.PathSeparator = defaults.PathSeparator
	}
	if c.UniqueNameStart == 0 {
		c.UniqueNameStart = defaults.UniqueNameStart
	}
	if c.MergeSeparator == "" {
		c.MergeSeparator = defaults.MergeSeparator
	}
	if c.SplitSeparator == "" {
		c.SplitSeparator = defaults.SplitSeparator
	}
	if c.MaxDisplayRows == 0 {
		c.MaxDisplayRows = defaults.MaxDisplayRows
	}
	if c.ParallelThreshold == 0 {
		c.ParallelThreshold = defaults.ParallelThreshold
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}

	// Booleans keep their explicit value; use NewConfig for boolean defaults.
	return c
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON loads configuration from JSON data
func LoadFromJSON(data []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a JSON or YAML file
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config.WithDefaults(), nil
}

// LoadFromEnv loads configuration from NESTFRAME_* environment variables
func LoadFromEnv() Config {
	config := NewConfig()

	if val := os.Getenv("NESTFRAME_PATH_SEPARATOR"); val != "" {
		config.PathSeparator = val
	}

	if val := os.Getenv("NESTFRAME_UNIQUE_NAME_START"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.UniqueNameStart = parsed
		}
	}

	if val, ok := os.LookupEnv("NESTFRAME_MERGE_SEPARATOR"); ok {
		config.MergeSeparator = val
	}

	if val := os.Getenv("NESTFRAME_SPLIT_SEPARATOR"); val != "" {
		config.SplitSeparator = val
	}

	if val := os.Getenv("NESTFRAME_DEFAULT_NULLS_LAST"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.DefaultNullsLast = parsed
		}
	}

	if val := os.Getenv("NESTFRAME_MAX_DISPLAY_ROWS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.MaxDisplayRows = parsed
		}
	}

	if val := os.Getenv("NESTFRAME_PARALLEL_THRESHOLD"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.ParallelThreshold = parsed
		}
	}

	if val := os.Getenv("NESTFRAME_WORKER_POOL_SIZE"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.WorkerPoolSize = parsed
		}
	}

	if val := os.Getenv("NESTFRAME_VERBOSE_LOGGING"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.VerboseLogging = parsed
		}
	}

	if val := os.Getenv("NESTFRAME_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	if val := os.Getenv("NESTFRAME_SEQ_URL"); val != "" {
		config.SeqURL = val
	}

	return config
}
