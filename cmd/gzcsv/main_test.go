package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/gzcsv/pkg/compression"
	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
	gztest "github.com/ajitpratap0/gzcsv/pkg/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

const sample = "# comment\nsource_id,ra,flag\n1,2.5,true\n2,,NULL\n"

func TestConvertToStdout(t *testing.T) {
	path := gztest.WriteGzipFile(t, t.TempDir(), "in.csv.gz", sample)

	out, err := run(t, "convert", path, "--columns", "ra,source_id,flag")
	require.NoError(t, err)
	assert.Equal(t, `[{"ra":2.5,"source_id":"1","flag":true},{"ra":"","source_id":"2","flag":null}]`, out)
}

func TestConvertColumnsJSONAndOutputFile(t *testing.T) {
	dir := t.TempDir()
	path := gztest.WriteGzipFile(t, dir, "in.csv.gz", sample)
	target := filepath.Join(dir, "out.json")
	metricsFile := filepath.Join(dir, "gzcsv.prom")

	out, err := run(t, "convert", path, "--columns-json", `["flag"]`, "-o", target, "--chunk-size", "1", "--metrics-textfile", metricsFile)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, `[{"flag":true},{"flag":null}]`, string(data))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `gzcsv_rows_total{component="cli"} 2`)
	assert.Contains(t, string(prom), `gzcsv_conversions_total{component="cli",error_type="",status="success"} 1`)
}

func TestConvertFailureLeavesNoOutputFile(t *testing.T) {
	dir := t.TempDir()
	path := gztest.WriteGzipFile(t, dir, "in.csv.gz", "a\nNaN\n")
	target := filepath.Join(dir, "out.json")

	_, err := run(t, "convert", path, "--columns", "a", "--non-finite", "reject", "-o", target)
	require.Error(t, err)
	assert.Equal(t, nerrors.CodeNonFinite, exitCode(err))

	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1) // only the input
}

func TestConvertBadColumnsJSON(t *testing.T) {
	path := gztest.WriteGzipFile(t, t.TempDir(), "in.csv.gz", sample)

	_, err := run(t, "convert", path, "--columns-json", `{"a":1}`)
	require.Error(t, err)
	assert.Equal(t, nerrors.CodeColumnList, exitCode(err))
}

func TestHeaderCommand(t *testing.T) {
	path := gztest.WriteGzipFile(t, t.TempDir(), "in.csv.gz", sample)

	out, err := run(t, "header", path)
	require.NoError(t, err)
	assert.Equal(t, "[\"source_id\",\"ra\",\"flag\"]\n", out)

	out, err = run(t, "header", path, "--sample", "5")
	require.NoError(t, err)
	assert.Contains(t, out, `"rows":2`)
	assert.Contains(t, out, `"name":"flag"`)
	assert.Contains(t, out, `"type":"boolean","example":true`)
}

func TestCompressThenConvertAuto(t *testing.T) {
	dir := t.TempDir()
	plain := gztest.WriteFile(t, dir, "in.csv", []byte(sample))
	packed := filepath.Join(dir, "in.csv.zst")

	_, err := run(t, "compress", plain, packed, "--algorithm", "zstd", "--level", "9")
	require.NoError(t, err)

	out, err := run(t, "convert", packed, "--columns", "source_id", "--compression", "auto")
	require.NoError(t, err)
	assert.Equal(t, `[{"source_id":"1"},{"source_id":"2"}]`, out)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gzcsv v"+version)
}

func TestExitCodeUntypedError(t *testing.T) {
	_, err := run(t, "convert")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestConvertCompressedOutput(t *testing.T) {
	dir := t.TempDir()
	path := gztest.WriteGzipFile(t, dir, "in.csv.gz", sample)
	target := filepath.Join(dir, "out.json.zst")

	_, err := run(t, "convert", path, "--columns", "source_id", "-o", target, "--output-compression", "zstd")
	require.NoError(t, err)

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()

	rc, err := compression.NewReader(f, compression.Auto)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `[{"source_id":"1"},{"source_id":"2"}]`, string(data))
}
