// Package config loads ivtree settings from .ivtree.yaml, IVTREE_* environment
// variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/ivtree/internal/observability"
)

// Config is the top-level configuration struct for ivtree.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Dataset       DatasetConfig       `mapstructure:"dataset"`
	Output        OutputConfig        `mapstructure:"output"`
	Server        ServerConfig        `mapstructure:"server"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// DatasetConfig locates and bounds the interval dataset.
type DatasetConfig struct {
	Path           string `mapstructure:"path"`
	MaxSize        string `mapstructure:"max_size"`
	ValidateSchema bool   `mapstructure:"validate_schema"`
	// CacheEntries bounds the query result cache. Zero disables it.
	CacheEntries int `mapstructure:"cache_entries"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  string `mapstructure:"color"`
}

// ServerConfig holds HTTP query server settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ObservabilityConfig holds telemetry export and logging settings.
type ObservabilityConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	LogLevel     string  `mapstructure:"log_level"`
	LogJSON      bool    `mapstructure:"log_json"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Environment  string  `mapstructure:"environment"`
}

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// sampleRatioMax is the upper bound for the trace sampling ratio.
const sampleRatioMax = 1.0

// Sentinel errors for configuration validation.
var (
	// ErrInvalidMaxSize indicates dataset.max_size is not a byte size.
	ErrInvalidMaxSize = errors.New("dataset.max_size must be a byte size such as 64MB")
	// ErrInvalidCacheEntries indicates a negative dataset.cache_entries.
	ErrInvalidCacheEntries = errors.New("dataset.cache_entries must be non-negative")
	// ErrInvalidFormat indicates an unknown output.format.
	ErrInvalidFormat = errors.New("output.format must be table, json or yaml")
	// ErrInvalidColor indicates an unknown output.color.
	ErrInvalidColor = errors.New("output.color must be auto, always or never")
	// ErrInvalidTimeout indicates a negative server timeout.
	ErrInvalidTimeout = errors.New("server timeouts must be non-negative")
	// ErrInvalidSampleRatio indicates the sample ratio is out of range.
	ErrInvalidSampleRatio = errors.New("observability.sample_ratio must be between 0 and 1")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	_, err := c.MaxSizeBytes()
	if err != nil {
		return err
	}

	if c.Dataset.CacheEntries < 0 {
		return ErrInvalidCacheEntries
	}

	switch c.Output.Format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.Format)
	}

	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidColor, c.Output.Color)
	}

	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return ErrInvalidTimeout
	}

	if c.Observability.SampleRatio < 0 || c.Observability.SampleRatio > sampleRatioMax {
		return ErrInvalidSampleRatio
	}

	_, err = observability.ParseLogLevel(c.Observability.LogLevel)
	if err != nil {
		return fmt.Errorf("observability.log_level: %w", err)
	}

	return nil
}

// MaxSizeBytes parses dataset.max_size. Empty or "0" means unlimited.
func (c *Config) MaxSizeBytes() (uint64, error) {
	if c.Dataset.MaxSize == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(c.Dataset.MaxSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidMaxSize, err)
	}

	return size, nil
}

// ObservabilityFor builds the telemetry config for the given launch mode.
// Prometheus export is enabled only for the HTTP server.
func (c *Config) ObservabilityFor(mode observability.AppMode, version string) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.Mode = mode
	obsCfg.ServiceVersion = version
	obsCfg.Environment = c.Observability.Environment
	obsCfg.OTLPEndpoint = c.Observability.OTLPEndpoint
	obsCfg.OTLPInsecure = c.Observability.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Observability.OTLPHeaders)
	obsCfg.SampleRatio = c.Observability.SampleRatio
	obsCfg.LogJSON = c.Observability.LogJSON
	obsCfg.Prometheus = mode == observability.ModeServe

	level, err := observability.ParseLogLevel(c.Observability.LogLevel)
	if err == nil {
		obsCfg.LogLevel = level
	}

	if c.Server.ShutdownTimeout > 0 {
		obsCfg.ShutdownTimeout = c.Server.ShutdownTimeout
	}

	return obsCfg
}
