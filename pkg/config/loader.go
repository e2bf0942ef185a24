package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// GZCSV_INFERENCE_NON_FINITE=reject.
const EnvPrefix = "GZCSV"

// Load loads a configuration from a YAML file, then applies GZCSV_*
// environment overrides. An empty path loads defaults plus environment.
func Load(filePath string) (*Config, error) {
	v := newViper()

	if filePath != "" {
		v.SetConfigFile(filePath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, nerrors.Wrapf(err, nerrors.ErrorTypeConfig, "failed to read config file %s", filePath)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nerrors.Wrap(err, nerrors.ErrorTypeConfig, "failed to decode config")
	}
	normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a configuration from defaults and GZCSV_* environment
// variables only. The C boundary calls this on every invocation.
func FromEnv() (*Config, error) {
	return Load("")
}

// Save writes a configuration to a YAML file
func Save(filePath string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nerrors.Wrap(err, nerrors.ErrorTypeConfig, "failed to marshal YAML")
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil { //nolint:gosec
		return nerrors.Wrap(err, nerrors.ErrorTypeConfig, "failed to write config file")
	}

	return nil
}

// newViper registers every key with its default so AutomaticEnv can see it.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("name", d.Name)
	v.SetDefault("decompression.algorithm", d.Decompression.Algorithm)
	v.SetDefault("decompression.buffer_size", d.Decompression.BufferSize)
	v.SetDefault("inference.identifier_columns", d.Inference.IdentifierColumns)
	v.SetDefault("inference.non_finite", d.Inference.NonFinite)
	v.SetDefault("output.chunk_size", d.Output.ChunkSize)
	v.SetDefault("observability.log_level", d.Observability.LogLevel)
	v.SetDefault("observability.log_encoding", d.Observability.LogEncoding)
	v.SetDefault("observability.enable_metrics", d.Observability.EnableMetrics)
	v.SetDefault("observability.enable_tracing", d.Observability.EnableTracing)
	return v
}

func normalize(cfg *Config) {
	cfg.Decompression.Algorithm = strings.ToLower(strings.TrimSpace(cfg.Decompression.Algorithm))
	cfg.Inference.NonFinite = strings.ToLower(strings.TrimSpace(cfg.Inference.NonFinite))

	ids := cfg.Inference.IdentifierColumns[:0]
	for _, id := range cfg.Inference.IdentifierColumns {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	cfg.Inference.IdentifierColumns = ids
}
