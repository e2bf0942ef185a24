package compression

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
)

var sample = []byte("# comment\nsource_id,ra,dec\n4295806720,44.99,0.00\n" +
	"It contains some repetitive content content content to improve compression ratio.\n")

func compress(t *testing.T, alg Algorithm, level Level, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, CompressStream(&buf, bytes.NewReader(data), alg, level))
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	for _, alg := range []Algorithm{None, Gzip, Zstd, LZ4, S2, Snappy} {
		t.Run(string(alg), func(t *testing.T) {
			compressed := compress(t, alg, Default, sample)

			rc, err := NewReader(bytes.NewReader(compressed), alg)
			require.NoError(t, err)
			defer rc.Close()

			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, sample, got)
		})
	}
}

func TestAutoDetect(t *testing.T) {
	for _, alg := range []Algorithm{Gzip, Zstd, LZ4, S2, Snappy} {
		t.Run(string(alg), func(t *testing.T) {
			compressed := compress(t, alg, Fastest, sample)
			assert.Equal(t, alg, Detect(compressed))

			rc, err := NewReader(bytes.NewReader(compressed), Auto)
			require.NoError(t, err)
			defer rc.Close()

			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, sample, got)
		})
	}
}

func TestAutoRejectsPlainText(t *testing.T) {
	_, err := NewReader(bytes.NewReader(sample), Auto)
	require.Error(t, err)
	assert.True(t, nerrors.IsType(err, nerrors.ErrorTypeDecompression))
}

func TestGzipLevels(t *testing.T) {
	data := bytes.Repeat([]byte("test data for compression "), 100)

	for _, level := range []Level{Fastest, Default, Better, Best} {
		t.Run(level.String(), func(t *testing.T) {
			compressed := compress(t, Gzip, level, data)

			rc, err := NewReader(bytes.NewReader(compressed), Gzip)
			require.NoError(t, err)
			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, data, got)

			t.Logf("Level %v: Original: %d bytes, Compressed: %d bytes", level, len(data), len(compressed))
		})
	}
}

func TestGzipMultistream(t *testing.T) {
	first := compress(t, Gzip, Default, []byte("a,b\n1,2\n"))
	second := compress(t, Gzip, Default, []byte("3,4\n"))

	rc, err := NewReader(bytes.NewReader(append(first, second...)), Gzip)
	require.NoError(t, err)

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n3,4\n", string(got))
}

func TestGzipTrailingGarbage(t *testing.T) {
	data := append(compress(t, Gzip, Default, []byte("a,b\n1,2\n")), "trailer"...)

	rc, err := NewReader(bytes.NewReader(data), Gzip)
	require.NoError(t, err)

	_, err = io.ReadAll(rc)
	require.Error(t, err)
	assert.True(t, nerrors.IsType(err, nerrors.ErrorTypeDecompression))
}

func TestGzipEmptyInput(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil), Gzip)
	require.Error(t, err)
	assert.True(t, nerrors.IsType(err, nerrors.ErrorTypeDecompression))
}

func TestGzipBadHeader(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("source_id,ra\n1,2\n")), Gzip)
	require.Error(t, err)
	assert.True(t, nerrors.IsType(err, nerrors.ErrorTypeDecompression))
}

func TestGzipTruncated(t *testing.T) {
	compressed := compress(t, Gzip, Default, bytes.Repeat(sample, 50))
	truncated := compressed[:len(compressed)/2]

	rc, err := NewReader(bytes.NewReader(truncated), Gzip)
	require.NoError(t, err)

	_, err = io.ReadAll(rc)
	require.Error(t, err)
	assert.True(t, nerrors.IsType(err, nerrors.ErrorTypeDecompression))
}

func TestGzipChecksumMismatch(t *testing.T) {
	compressed := compress(t, Gzip, Default, sample)
	// CRC32 lives in the 8-byte trailer
	compressed[len(compressed)-8] ^= 0xff

	rc, err := NewReader(bytes.NewReader(compressed), Gzip)
	require.NoError(t, err)

	_, err = io.ReadAll(rc)
	require.Error(t, err)
	assert.True(t, nerrors.IsType(err, nerrors.ErrorTypeDecompression))
}

func TestFileErrorsAreTyped(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "closed.gz"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = NewReader(f, Gzip)
	require.Error(t, err)
	assert.True(t, nerrors.IsType(err, nerrors.ErrorTypeFile))
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm(" GZIP ")
	require.NoError(t, err)
	assert.Equal(t, Gzip, alg)

	alg, err = ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, Gzip, alg)

	_, err = ParseAlgorithm("bzip2")
	require.Error(t, err)
	assert.True(t, nerrors.IsType(err, nerrors.ErrorTypeConfig))
}

func TestWriterRejectsAuto(t *testing.T) {
	_, err := NewWriter(io.Discard, Auto, Default)
	assert.Error(t, err)
}
