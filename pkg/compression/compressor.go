// Package compression provides the streaming codecs gzcsv reads its input
// through, plus matching writers used to produce compressed files.
//
// # Overview
//
// The package provides:
//   - Lazy streaming decompression (Gzip, Zstd, LZ4, S2, Snappy, or none)
//   - Codec detection from magic bytes for the "auto" algorithm
//   - Streaming compression writers with configurable levels
//
// Readers never buffer the whole compressed payload; bytes are decoded as
// the consumer reads them. Decoders run on the calling goroutine.
//
// # Basic Usage
//
//	f, _ := os.Open("gaia_source.csv.gz")
//	defer f.Close()
//
//	rc, err := compression.NewReader(f, compression.Gzip)
//	if err != nil {
//	    return err
//	}
//	defer rc.Close()
package compression

import (
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents framed snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
	// Auto detects the algorithm from the stream's magic bytes.
	// Only valid for readers.
	Auto Algorithm = "auto"
)

// Level represents compression level, controlling the trade-off between
// compression speed and compression ratio.
type Level int

const (
	// Fastest prioritizes speed over compression ratio.
	Fastest Level = 1
	// Default balances speed and compression.
	Default Level = 5
	// Better improves compression at cost of speed.
	Better Level = 7
	// Best maximizes compression ratio.
	Best Level = 9
)

// String returns the level name
func (l Level) String() string {
	switch l {
	case Fastest:
		return "Fastest"
	case Default:
		return "Default"
	case Better:
		return "Better"
	case Best:
		return "Best"
	default:
		return "Unknown"
	}
}

// ParseAlgorithm resolves a configuration string to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch alg := Algorithm(strings.ToLower(strings.TrimSpace(s))); alg {
	case None, Gzip, Snappy, LZ4, Zstd, S2, Auto:
		return alg, nil
	case "":
		return Gzip, nil
	default:
		return "", nerrors.Newf(nerrors.ErrorTypeConfig, "unknown compression algorithm %q", s)
	}
}

// NewWriter wraps w in a compressing writer. Close must be called to flush
// the trailing frame; it does not close w.
func NewWriter(w io.Writer, alg Algorithm, level Level) (io.WriteCloser, error) {
	switch alg {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		gw, err := gzip.NewWriterLevel(w, mapGzipLevel(level))
		if err != nil {
			return nil, nerrors.Wrap(err, nerrors.ErrorTypeConfig, "create gzip writer")
		}
		return gw, nil
	case Zstd:
		enc, err := zstd.NewWriter(w,
			zstd.WithEncoderLevel(mapZstdLevel(level)),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return nil, nerrors.Wrap(err, nerrors.ErrorTypeConfig, "create zstd writer")
		}
		return enc, nil
	case LZ4:
		lw := lz4.NewWriter(w)
		if err := lw.Apply(lz4.CompressionLevelOption(mapLZ4Level(level))); err != nil {
			return nil, nerrors.Wrap(err, nerrors.ErrorTypeConfig, "configure lz4 writer")
		}
		return lw, nil
	case S2:
		return s2.NewWriter(w, s2.WriterConcurrency(1)), nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	default:
		return nil, nerrors.Newf(nerrors.ErrorTypeConfig, "cannot compress with algorithm %q", alg)
	}
}

// CompressStream compresses everything from src into dst.
func CompressStream(dst io.Writer, src io.Reader, alg Algorithm, level Level) error {
	w, err := NewWriter(dst, alg, level)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, src); err != nil {
		_ = w.Close()
		return nerrors.Wrapf(err, nerrors.ErrorTypeFile, "compress %s stream", alg)
	}
	if err := w.Close(); err != nil {
		return nerrors.Wrapf(err, nerrors.ErrorTypeFile, "finish %s stream", alg)
	}
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func mapGzipLevel(level Level) int {
	switch level {
	case Fastest:
		return gzip.BestSpeed
	case Best:
		return gzip.BestCompression
	case Better:
		return 7
	default:
		return gzip.DefaultCompression
	}
}

func mapLZ4Level(level Level) lz4.CompressionLevel {
	switch level {
	case Fastest:
		return lz4.Fast
	case Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}

func mapZstdLevel(level Level) zstd.EncoderLevel {
	switch level {
	case Fastest:
		return zstd.SpeedFastest
	case Better:
		return zstd.SpeedBetterCompression
	case Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}
