package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
)

func TestDefaultValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown algorithm", func(c *Config) { c.Decompression.Algorithm = "brotli" }},
		{"negative buffer", func(c *Config) { c.Decompression.BufferSize = -1 }},
		{"bad non finite", func(c *Config) { c.Inference.NonFinite = "zero" }},
		{"negative chunk", func(c *Config) { c.Output.ChunkSize = -5 }},
		{"bad encoding", func(c *Config) { c.Observability.LogEncoding = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, nerrors.IsType(err, nerrors.ErrorTypeConfig))
		})
	}
}

func TestEffectiveChunkSize(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 50, cfg.EffectiveChunkSize(50))
	assert.Equal(t, 1000, cfg.EffectiveChunkSize(0))

	cfg.Output.ChunkSize = 0
	assert.Equal(t, 1000, cfg.EffectiveChunkSize(-1))
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gzcsv.yaml")
	content := `name: test
decompression:
  algorithm: Auto
inference:
  identifier_columns: [obs_id]
  non_finite: reject
output:
  chunk_size: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("GZCSV_OUTPUT_CHUNK_SIZE", "25")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Name)
	assert.Equal(t, "auto", cfg.Decompression.Algorithm)
	assert.Equal(t, 64*1024, cfg.Decompression.BufferSize)
	assert.Equal(t, []string{"obs_id"}, cfg.Inference.IdentifierColumns)
	assert.Equal(t, NonFiniteReject, cfg.Inference.NonFinite)
	assert.Equal(t, 25, cfg.Output.ChunkSize)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GZCSV_INFERENCE_NON_FINITE", "reject")
	t.Setenv("GZCSV_DECOMPRESSION_ALGORITHM", "zstd")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, NonFiniteReject, cfg.Inference.NonFinite)
	assert.Equal(t, "zstd", cfg.Decompression.Algorithm)
	assert.Equal(t, DefaultIdentifierColumns, cfg.Inference.IdentifierColumns)
}

func TestFromEnvInvalid(t *testing.T) {
	t.Setenv("GZCSV_DECOMPRESSION_ALGORITHM", "rar")

	_, err := FromEnv()
	require.Error(t, err)
	assert.True(t, nerrors.IsType(err, nerrors.ErrorTypeConfig))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, nerrors.IsType(err, nerrors.ErrorTypeConfig))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := Default()
	cfg.Name = "saved"
	cfg.Output.ChunkSize = 7

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
