// Package testutil provides testing utilities for gzcsv
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/gzcsv/pkg/compression"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// Compress returns content compressed with alg at the default level
func Compress(t *testing.T, content []byte, alg compression.Algorithm) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := compression.NewWriter(&buf, alg, compression.Default)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// WriteCompressedFile writes content compressed with alg to dir/name and
// returns the path.
func WriteCompressedFile(t *testing.T, dir, name, content string, alg compression.Algorithm) string {
	t.Helper()
	return WriteFile(t, dir, name, Compress(t, []byte(content), alg))
}

// WriteGzipFile is WriteCompressedFile with gzip
func WriteGzipFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	return WriteCompressedFile(t, dir, name, content, compression.Gzip)
}

// WriteFile writes raw bytes to dir/name and returns the path
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
