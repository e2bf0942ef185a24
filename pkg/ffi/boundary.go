package ffi

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ajitpratap0/gzcsv/internal/pipeline"
	"github.com/ajitpratap0/gzcsv/pkg/config"
	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
	jsonpool "github.com/ajitpratap0/gzcsv/pkg/json"
	"github.com/ajitpratap0/gzcsv/pkg/logger"
)

var (
	// loggers caches one boundary logger per level and encoding
	loggers sync.Map
	calls   atomic.Int64
)

// Parse validates the boundary arguments, converts the file at path and
// returns the JSON document in C memory. columnsJSON must be a JSON array
// of strings. chunkSize <= 0 uses the configured default.
//
// Configuration comes from GZCSV_* environment variables, read on every
// call, logging settings included. Calls share only the cached loggers.
func Parse(path, columnsJSON string, chunkSize int) (h *Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			h = nil
			err = nerrors.Newf(nerrors.ErrorTypeInternal, "panic during conversion: %v", r)
		}
	}()

	if !utf8.ValidString(path) {
		return nil, nerrors.New(nerrors.ErrorTypeEncoding, "file path is not valid UTF-8")
	}
	if !utf8.ValidString(columnsJSON) {
		return nil, nerrors.New(nerrors.ErrorTypeEncoding, "column list is not valid UTF-8")
	}

	columns, err := jsonpool.DecodeStringArray([]byte(columnsJSON))
	if err != nil {
		return nil, nerrors.Wrap(err, nerrors.ErrorTypeColumnList, "column list must be a JSON array of strings")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	ctx := logger.ContextWithRequestID(context.Background(), fmt.Sprintf("ffi-%d", calls.Add(1)))
	log := boundaryLogger(cfg)

	conv, err := pipeline.NewConverter(cfg, pipeline.WithLogger(log))
	if err != nil {
		return nil, err
	}

	buf := jsonpool.GetBuffer()
	defer jsonpool.PutBuffer(buf)

	req := pipeline.Request{Path: path, Columns: columns, ChunkSize: chunkSize}
	if _, err := conv.ConvertTo(ctx, buf, req); err != nil {
		return nil, err
	}

	return NewHandle(buf.Bytes())
}

// ParseResult is the outcome of ParseEx: either Output or a non-zero Code
// with its Message.
type ParseResult struct {
	Output  *Handle
	Code    int
	Message string
}

// ParseEx is Parse with the failure reported as a numeric code and message
// instead of a Go error.
func ParseEx(path, columnsJSON string, chunkSize int) ParseResult {
	h, err := Parse(path, columnsJSON, chunkSize)
	if err != nil {
		return ParseResult{Code: nerrors.Code(err), Message: ErrorMessage(err)}
	}
	return ParseResult{Output: h}
}

// ErrorMessage renders err for the host. NUL bytes are dropped so the
// message is always representable as a C string.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return strings.ReplaceAll(err.Error(), "\x00", "")
}

// NullArgument is the error for a NULL pointer where a string is required
func NullArgument(name string) error {
	return nerrors.New(nerrors.ErrorTypeEncoding, fmt.Sprintf("%s is NULL", name))
}

// ClampChunkSize converts a C size_t chunk size to an int
func ClampChunkSize(n uint64) int {
	const maxChunk = 1 << 30
	if n > maxChunk {
		return maxChunk
	}
	return int(n)
}

// boundaryLogger returns the logger for cfg's level and encoding. An invalid
// level yields a no-op logger.
func boundaryLogger(cfg *config.Config) *zap.Logger {
	lc := logger.DefaultConfig()
	if cfg.Observability.LogLevel != "" {
		lc.Level = cfg.Observability.LogLevel
	}
	if cfg.Observability.LogEncoding != "" {
		lc.Encoding = cfg.Observability.LogEncoding
	}

	key := lc.Level + "/" + lc.Encoding
	if l, ok := loggers.Load(key); ok {
		return l.(*zap.Logger)
	}

	l, err := logger.New(lc)
	if err != nil {
		l = zap.NewNop()
	}
	l = l.With(zap.String("entry", "ffi"))
	actual, _ := loggers.LoadOrStore(key, l)
	return actual.(*zap.Logger)
}
