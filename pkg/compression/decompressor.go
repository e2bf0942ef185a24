package compression

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
)

// DefaultBufferSize is the read buffer placed in front of a decoder.
const DefaultBufferSize = 64 * 1024

var (
	magicGzip   = []byte{0x1f, 0x8b}
	magicZstd   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4    = []byte{0x04, 0x22, 0x4d, 0x18}
	magicS2     = []byte{0xff, 0x06, 0x00, 0x00, 'S', '2', 's', 'T', 'w', 'O'}
	magicSnappy = []byte{0xff, 0x06, 0x00, 0x00, 's', 'N', 'a', 'P', 'p', 'Y'}
)

// maxMagicLen is the longest prefix Detect looks at.
const maxMagicLen = 10

// Detect identifies a compressed stream from its leading bytes. It returns
// the empty Algorithm when no known magic matches.
func Detect(prefix []byte) Algorithm {
	switch {
	case bytes.HasPrefix(prefix, magicGzip):
		return Gzip
	case bytes.HasPrefix(prefix, magicZstd):
		return Zstd
	case bytes.HasPrefix(prefix, magicLZ4):
		return LZ4
	case bytes.HasPrefix(prefix, magicS2):
		return S2
	case bytes.HasPrefix(prefix, magicSnappy):
		return Snappy
	default:
		return ""
	}
}

// NewReader wraps r in a lazily decompressing reader. Closing the returned
// reader releases decoder state but does not close r.
//
// Errors while opening the stream (bad header, empty input, unknown magic
// under Auto) and while reading it (corrupt or truncated data, checksum
// mismatch) are reported as ErrorTypeDecompression. Failures of the
// underlying file surface as ErrorTypeFile.
func NewReader(r io.Reader, alg Algorithm) (io.ReadCloser, error) {
	return NewReaderSize(r, alg, DefaultBufferSize)
}

// NewReaderSize is NewReader with an explicit read buffer size.
func NewReaderSize(r io.Reader, alg Algorithm, bufferSize int) (io.ReadCloser, error) {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	br := bufio.NewReaderSize(r, bufferSize)

	if alg == Auto {
		prefix, err := br.Peek(maxMagicLen)
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return nil, classify(err, "sniff compressed stream")
		}
		if alg = Detect(prefix); alg == "" {
			return nil, nerrors.New(nerrors.ErrorTypeDecompression, "unrecognized compression format").
				WithDetail("prefix", append([]byte(nil), prefix...))
		}
	}

	dec, err := newDecoder(br, alg)
	if err != nil {
		return nil, err
	}
	return &typedReader{rc: dec, alg: alg}, nil
}

func newDecoder(r io.Reader, alg Algorithm) (io.ReadCloser, error) {
	switch alg {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			if err == io.EOF {
				return nil, nerrors.New(nerrors.ErrorTypeDecompression, "empty gzip stream")
			}
			return nil, classify(err, "open gzip stream")
		}
		gr.Multistream(true)
		return gr, nil
	case Zstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, classify(err, "open zstd stream")
		}
		return dec.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	default:
		return nil, nerrors.Newf(nerrors.ErrorTypeConfig, "cannot decompress with algorithm %q", alg)
	}
}

// typedReader tags every non-EOF error with its taxonomy type.
type typedReader struct {
	rc  io.ReadCloser
	alg Algorithm
}

func (t *typedReader) Read(p []byte) (int, error) {
	n, err := t.rc.Read(p)
	if err != nil && err != io.EOF {
		return n, classify(err, "read "+string(t.alg)+" stream")
	}
	return n, err
}

func (t *typedReader) Close() error {
	return t.rc.Close()
}

// classify keeps already-typed errors and separates file system failures
// from stream corruption.
func classify(err error, message string) error {
	var typed *nerrors.Error
	if stderrors.As(err, &typed) {
		return err
	}
	var pathErr *fs.PathError
	if stderrors.As(err, &pathErr) {
		return nerrors.Wrap(err, nerrors.ErrorTypeFile, message)
	}
	return nerrors.Wrap(err, nerrors.ErrorTypeDecompression, message)
}
