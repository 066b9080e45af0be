// Package config loads the service configuration.
//
// Values are resolved in three layers, later layers winning:
//
//  1. Built-in defaults (Default)
//  2. An optional YAML file
//  3. KALEIDO_* environment variables
//
// The resulting Config is passed explicitly to the store, the studio and the
// logger; nothing in the module reads process-wide settings after startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/kaleido-mcp/internal/kaleido"
)

// Environment variable names.
const (
	EnvConfigFile     = "KALEIDO_CONFIG"
	EnvUploadDir      = "KALEIDO_UPLOAD_DIR"
	EnvOutputDir      = "KALEIDO_OUTPUT_DIR"
	EnvMaxUploadBytes = "KALEIDO_MAX_UPLOAD_BYTES"
	EnvMinDimension   = "KALEIDO_MIN_DIMENSION"
	EnvTriangle       = "KALEIDO_TRIANGLE"
	EnvBackground     = "KALEIDO_BACKGROUND"
	EnvJPEGQuality    = "KALEIDO_JPEG_QUALITY"
	EnvLogLevel       = "KALEIDO_LOG_LEVEL"
	EnvLogFile        = "KALEIDO_LOG_FILE"
)

// DefaultMaxUploadBytes matches a 16 MB request body limit.
const DefaultMaxUploadBytes = 16 * 1000 * 1000

// Config holds every tunable of the service.
type Config struct {
	// UploadDir holds source images addressed by name.
	UploadDir string `yaml:"upload_dir"`

	// OutputDir receives rendered kaleidoscopes under the source's name.
	OutputDir string `yaml:"output_dir"`

	// MaxUploadBytes caps the size of an uploaded image.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// MinDimension is the smallest accepted source width or height in pixels.
	MinDimension int `yaml:"min_dimension"`

	// Triangle is "lower" or "upper".
	Triangle string `yaml:"triangle"`

	// Background is a "#RRGGBB" color behind the discarded triangle.
	Background string `yaml:"background"`

	// JPEGQuality is used when the output name ends in .jpg or .jpeg (1-100).
	JPEGQuality int `yaml:"jpeg_quality"`

	Log LogConfig `yaml:"log"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// File enables a rotated JSON log file in addition to stderr when set.
	File string `yaml:"file"`

	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		UploadDir:      "./static/images",
		OutputDir:      "./static/output",
		MaxUploadBytes: DefaultMaxUploadBytes,
		MinDimension:   2,
		Triangle:       "lower",
		Background:     "#ffffff",
		JPEGQuality:    95,
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when path
// is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	// Malformed numbers are reported together with any validation errors.
	if err := errors.Join(cfg.applyEnv(), cfg.Validate()); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides c from the environment. Unparsable numeric variables
// leave the field unchanged and are returned as one joined error.
func (c *Config) applyEnv() error {
	var errs []error
	var err error

	c.UploadDir = getEnvOrDefault(EnvUploadDir, c.UploadDir)
	c.OutputDir = getEnvOrDefault(EnvOutputDir, c.OutputDir)
	if c.MaxUploadBytes, err = parseInt64Env(EnvMaxUploadBytes, c.MaxUploadBytes); err != nil {
		errs = append(errs, err)
	}
	if c.MinDimension, err = parseIntEnv(EnvMinDimension, c.MinDimension); err != nil {
		errs = append(errs, err)
	}
	c.Triangle = getEnvOrDefault(EnvTriangle, c.Triangle)
	c.Background = getEnvOrDefault(EnvBackground, c.Background)
	if c.JPEGQuality, err = parseIntEnv(EnvJPEGQuality, c.JPEGQuality); err != nil {
		errs = append(errs, err)
	}
	c.Log.Level = getEnvOrDefault(EnvLogLevel, c.Log.Level)
	c.Log.File = getEnvOrDefault(EnvLogFile, c.Log.File)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %w", errors.Join(errs...))
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.UploadDir) == "" {
		errs = append(errs, errors.New("upload_dir must not be empty"))
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, errors.New("output_dir must not be empty"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes))
	}
	if c.MinDimension < 2 {
		errs = append(errs, fmt.Errorf("min_dimension must be at least 2, got %d", c.MinDimension))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", c.JPEGQuality))
	}
	if _, err := c.PipelineOptions(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// PipelineOptions converts the triangle and background settings into pipeline
// options.
func (c *Config) PipelineOptions() (kaleido.Options, error) {
	opts := kaleido.DefaultOptions()

	tri, err := kaleido.ParseTriangle(c.Triangle)
	if err != nil {
		return opts, err
	}
	bg, err := kaleido.ParseBackground(c.Background)
	if err != nil {
		return opts, err
	}

	opts.Triangle = tri
	opts.Background = bg
	return opts, nil
}
