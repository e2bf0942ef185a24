// Package config provides the configuration system for gzcsv.
//
// A single Config structure drives every entry point: the C boundary builds
// one from the environment on each call, the CLI loads a YAML file with
// environment overrides, and Go callers can construct one directly.
//
// The configuration is organized into logical sections:
//   - Decompression: codec selection and read buffer size
//   - Inference: identifier columns and the non-finite number policy
//   - Output: encoder flush granularity
//   - Observability: logging, metrics, tracing
//
// Example usage:
//
//	cfg := config.Default()
//	cfg.Inference.NonFinite = config.NonFiniteReject
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"strings"

	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
)

// Non-finite number policies.
const (
	// NonFiniteNull encodes NaN and infinities as JSON null
	NonFiniteNull = "null"
	// NonFiniteReject fails the whole conversion
	NonFiniteReject = "reject"
)

// DefaultIdentifierColumns are the columns treated as opaque identifiers.
// They are never coerced to numbers, which would lose precision on large
// integer identifiers.
var DefaultIdentifierColumns = []string{"source_id", "solution_id", "designation"}

var validAlgorithms = map[string]bool{
	"none": true, "gzip": true, "zstd": true, "lz4": true,
	"s2": true, "snappy": true, "auto": true,
}

// Config is the unified configuration structure.
type Config struct {
	// Name identifies the configuration in logs and metrics
	Name string `yaml:"name" json:"name" mapstructure:"name"`

	// Decompression settings for the input stream
	Decompression DecompressionConfig `yaml:"decompression" json:"decompression" mapstructure:"decompression"`

	// Inference settings for cell typing
	Inference InferenceConfig `yaml:"inference" json:"inference" mapstructure:"inference"`

	// Output settings for the JSON document
	Output OutputConfig `yaml:"output" json:"output" mapstructure:"output"`

	// Observability settings for monitoring and debugging
	Observability ObservabilityConfig `yaml:"observability" json:"observability" mapstructure:"observability"`
}

// DecompressionConfig selects how the input file is decoded.
type DecompressionConfig struct {
	// Algorithm is one of none, gzip, zstd, lz4, s2, snappy, auto
	Algorithm string `yaml:"algorithm" json:"algorithm" mapstructure:"algorithm"`
	// BufferSize is the read buffer placed in front of the decompressor
	BufferSize int `yaml:"buffer_size" json:"buffer_size" mapstructure:"buffer_size"`
}

// InferenceConfig controls the type inference policy.
type InferenceConfig struct {
	// IdentifierColumns are always emitted as strings
	IdentifierColumns []string `yaml:"identifier_columns" json:"identifier_columns" mapstructure:"identifier_columns"`
	// NonFinite is either "null" or "reject"
	NonFinite string `yaml:"non_finite" json:"non_finite" mapstructure:"non_finite"`
}

// OutputConfig controls document encoding.
type OutputConfig struct {
	// ChunkSize is the number of records encoded between flushes to the destination
	ChunkSize int `yaml:"chunk_size" json:"chunk_size" mapstructure:"chunk_size"`
}

// ObservabilityConfig contains monitoring and observability settings.
type ObservabilityConfig struct {
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level" mapstructure:"log_level"`
	// LogEncoding is json or console
	LogEncoding string `yaml:"log_encoding" json:"log_encoding" mapstructure:"log_encoding"`
	// EnableMetrics activates metrics collection
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics" mapstructure:"enable_metrics"`
	// EnableTracing activates tracing spans
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing" mapstructure:"enable_tracing"`
}

// Default creates a Config with the library defaults: gzip input, the
// standard identifier columns, non-finite numbers encoded as null, and
// quiet logging.
func Default() *Config {
	ids := make([]string, len(DefaultIdentifierColumns))
	copy(ids, DefaultIdentifierColumns)

	return &Config{
		Name: "gzcsv",
		Decompression: DecompressionConfig{
			Algorithm:  "gzip",
			BufferSize: 64 * 1024,
		},
		Inference: InferenceConfig{
			IdentifierColumns: ids,
			NonFinite:         NonFiniteNull,
		},
		Output: OutputConfig{
			ChunkSize: 1000,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "error",
			LogEncoding: "json",
		},
	}
}

// Validate validates the configuration for correctness.
func (c *Config) Validate() error {
	alg := strings.ToLower(c.Decompression.Algorithm)
	if !validAlgorithms[alg] {
		return nerrors.Newf(nerrors.ErrorTypeConfig, "unknown decompression algorithm %q", c.Decompression.Algorithm)
	}
	if c.Decompression.BufferSize < 0 {
		return nerrors.New(nerrors.ErrorTypeConfig, "buffer_size cannot be negative")
	}
	switch c.Inference.NonFinite {
	case NonFiniteNull, NonFiniteReject:
	default:
		return nerrors.Newf(nerrors.ErrorTypeConfig, "non_finite must be %q or %q, got %q",
			NonFiniteNull, NonFiniteReject, c.Inference.NonFinite)
	}
	if c.Output.ChunkSize < 0 {
		return nerrors.New(nerrors.ErrorTypeConfig, "chunk_size cannot be negative")
	}
	switch c.Observability.LogEncoding {
	case "", "json", "console":
	default:
		return nerrors.Newf(nerrors.ErrorTypeConfig, "log_encoding must be json or console, got %q", c.Observability.LogEncoding)
	}
	return nil
}

// EffectiveChunkSize resolves a per-call chunk size against the configured one.
func (c *Config) EffectiveChunkSize(requested int) int {
	if requested > 0 {
		return requested
	}
	if c.Output.ChunkSize > 0 {
		return c.Output.ChunkSize
	}
	return 1000
}

// String returns a short description for logs
func (c *Config) String() string {
	return fmt.Sprintf("%s(decompression=%s, non_finite=%s, chunk_size=%d)",
		c.Name, c.Decompression.Algorithm, c.Inference.NonFinite, c.Output.ChunkSize)
}
