// Package pipeline runs a conversion end to end: open the file, decompress
// it lazily, read the header, resolve the column projection, then infer and
// encode each row as it is read.
//
// # Basic Usage
//
//	conv, err := pipeline.NewConverter(config.Default())
//	if err != nil {
//	    return err
//	}
//
//	doc, err := conv.Convert(ctx, pipeline.Request{
//	    Path:    "gaia_source.csv.gz",
//	    Columns: []string{"source_id", "ra", "dec"},
//	})
//
// Convert materializes the document in memory. Stream writes it to any
// io.Writer, flushing every ChunkSize records, so output memory stays
// bounded when the destination is a file or pipe.
package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/gzcsv/pkg/compression"
	"github.com/ajitpratap0/gzcsv/pkg/config"
	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
	jsonpool "github.com/ajitpratap0/gzcsv/pkg/json"
	"github.com/ajitpratap0/gzcsv/pkg/logger"
	"github.com/ajitpratap0/gzcsv/pkg/metrics"
	"github.com/ajitpratap0/gzcsv/pkg/observability"
	"github.com/ajitpratap0/gzcsv/pkg/schema"
	"github.com/ajitpratap0/gzcsv/pkg/tabular"
)

// Request describes one conversion.
type Request struct {
	// Path of the compressed input file
	Path string
	// Columns to emit, in output key order
	Columns []string
	// ChunkSize is the number of records between output flushes; <= 0
	// uses the configured default
	ChunkSize int
}

// Stats summarizes a finished conversion.
type Stats struct {
	Rows     int64
	Columns  int
	Bytes    int64
	Duration time.Duration
}

// Option configures a Converter
type Option func(*Converter)

// WithLogger sets the converter's logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithMetrics records every conversion in collector
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Converter) {
		c.metrics = collector
	}
}

// Converter converts compressed CSV files to JSON documents. It holds only
// immutable settings and is safe for concurrent use.
type Converter struct {
	cfg     *config.Config
	alg     compression.Algorithm
	engine  *schema.TypeInferenceEngine
	logger  *zap.Logger
	metrics *metrics.Collector
	tracing bool
}

// NewConverter validates cfg and creates a converter. A nil cfg uses
// config.Default().
func NewConverter(cfg *config.Config, opts ...Option) (*Converter, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	alg, err := compression.ParseAlgorithm(cfg.Decompression.Algorithm)
	if err != nil {
		return nil, err
	}

	c := &Converter{
		cfg:     cfg,
		alg:     alg,
		tracing: cfg.Observability.EnableTracing,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logger.Get()
	}
	if c.metrics == nil && cfg.Observability.EnableMetrics {
		c.metrics = metrics.NewCollector(cfg.Name)
	}
	c.engine = schema.NewTypeInferenceEngine(cfg.Inference, c.logger)

	return c, nil
}

// Metrics returns the converter's collector, or nil when metrics are off
func (c *Converter) Metrics() *metrics.Collector {
	return c.metrics
}

// Convert runs the conversion and returns the whole JSON document. On error
// no partial output is returned.
func (c *Converter) Convert(ctx context.Context, req Request) ([]byte, error) {
	buf := jsonpool.GetBuffer()
	defer jsonpool.PutBuffer(buf)

	if _, err := c.ConvertTo(ctx, buf, req); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// ConvertTo runs the conversion into buf. On error buf is reset.
func (c *Converter) ConvertTo(ctx context.Context, buf *bytes.Buffer, req Request) (Stats, error) {
	stats, err := c.Stream(ctx, buf, req)
	if err != nil {
		buf.Reset()
	}
	return stats, err
}

// Stream runs the conversion, writing the document to w. On error w may
// already hold a prefix of the output, which callers must discard.
func (c *Converter) Stream(ctx context.Context, w io.Writer, req Request) (Stats, error) {
	timer := metrics.NewTimer()
	log := logger.WithContext(ctx, c.logger).With(zap.String("file", req.Path))
	chunkSize := c.cfg.EffectiveChunkSize(req.ChunkSize)

	var span *observability.Span
	if c.tracing {
		ctx, span = observability.NewSpan(ctx, "gzcsv.convert")
		span.SetAttribute("path", req.Path)
		span.SetAttribute("chunk_size", chunkSize)
	}

	log.Debug("conversion started",
		zap.Strings("columns", req.Columns),
		zap.Int("chunk_size", chunkSize),
		zap.String("algorithm", string(c.alg)))

	stats, err := c.run(ctx, w, req, chunkSize, log, span)
	stats.Duration = timer.Elapsed()

	errorType := ""
	if err != nil {
		errorType = string(nerrors.TypeOf(err))
		log.Warn("conversion failed",
			zap.String("error_type", errorType),
			zap.Int64("rows", stats.Rows),
			zap.Error(err))
	} else if ce := log.Check(zap.DebugLevel, "conversion finished"); ce != nil {
		allocated, _, gets := recordPool.Stats()
		ce.Write(
			zap.Int64("rows", stats.Rows),
			zap.Int("columns", stats.Columns),
			zap.Int64("bytes", stats.Bytes),
			zap.Duration("duration", stats.Duration),
			zap.Int64("record_pool_allocated", allocated),
			zap.Int64("record_pool_gets", gets))
	}

	c.metrics.ObserveConversion(stats.Rows, stats.Bytes, stats.Duration, errorType)

	if span != nil {
		span.SetAttribute("rows", stats.Rows)
		span.SetAttribute("bytes", stats.Bytes)
		span.SetAttribute("columns", stats.Columns)
		span.RecordError(err)
		span.End()
	}

	return stats, err
}

func (c *Converter) run(ctx context.Context, w io.Writer, req Request, chunkSize int, log *zap.Logger, span *observability.Span) (Stats, error) {
	var stats Stats

	reader, closeInput, err := c.open(req.Path)
	if err != nil {
		return stats, err
	}
	defer closeInput()

	header, err := reader.Header()
	if err != nil {
		return stats, err
	}

	proj := schema.ProjectColumns(header, req.Columns)
	stats.Columns = proj.Len()
	missing := proj.Missing()
	if len(missing) > 0 {
		log.Debug("requested columns not in header", zap.Strings("missing", missing))
	}
	if span != nil {
		span.AddEvent("header",
			attribute.Int("header_columns", len(header)),
			attribute.StringSlice("projected", proj.Names()),
			attribute.StringSlice("missing", missing))
	}

	cw := &countingWriter{w: w}
	asm := NewAssembler(cw, proj, c.engine, chunkSize)
	defer asm.Release()

	for {
		select {
		case <-ctx.Done():
			return stats, nerrors.Wrap(ctx.Err(), nerrors.ErrorTypeInternal, "conversion canceled")
		default:
		}

		row, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, err
		}

		if err := asm.Add(row); err != nil {
			var typed *nerrors.Error
			if nerrors.As(err, &typed) {
				typed.WithDetail("line", reader.Line())
			}
			return stats, err
		}
		stats.Rows++
	}

	if err := asm.Close(); err != nil {
		return stats, err
	}
	stats.Bytes = cw.n
	return stats, nil
}

// open opens path and layers the decompressor and row reader over it.
func (c *Converter) open(path string) (*tabular.Reader, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nerrors.Wrap(err, nerrors.ErrorTypeFile, "failed to open input").
			WithDetail("path", path)
	}

	rc, err := compression.NewReaderSize(f, c.alg, c.cfg.Decompression.BufferSize)
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	closeAll := func() {
		rc.Close()
		f.Close()
	}
	return tabular.NewReader(rc), closeAll, nil
}

// Header returns the header row of the file at path.
func (c *Converter) Header(ctx context.Context, path string) ([]string, error) {
	reader, closeInput, err := c.open(path)
	if err != nil {
		return nil, err
	}
	defer closeInput()

	if err := ctx.Err(); err != nil {
		return nil, nerrors.Wrap(err, nerrors.ErrorTypeInternal, "header read canceled")
	}
	return reader.Header()
}

// Profile infers every column of the first sample rows and summarizes the
// kinds seen. sample <= 0 reads the whole file.
func (c *Converter) Profile(ctx context.Context, path string, sample int) ([]*schema.ColumnProfile, int, error) {
	reader, closeInput, err := c.open(path)
	if err != nil {
		return nil, 0, err
	}
	defer closeInput()

	header, err := reader.Header()
	if err != nil {
		return nil, 0, err
	}

	profiler := schema.NewProfiler(c.engine, header)
	rows := 0
	for sample <= 0 || rows < sample {
		if err := ctx.Err(); err != nil {
			return nil, rows, nerrors.Wrap(err, nerrors.ErrorTypeInternal, "profile canceled")
		}
		row, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rows, err
		}
		profiler.Observe(row)
		rows++
	}
	return profiler.Profiles(), rows, nil
}
