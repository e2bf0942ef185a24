package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/gzcsv/internal/pipeline"
	"github.com/ajitpratap0/gzcsv/pkg/compression"
	"github.com/ajitpratap0/gzcsv/pkg/config"
	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
	jsonpool "github.com/ajitpratap0/gzcsv/pkg/json"
	"github.com/ajitpratap0/gzcsv/pkg/logger"
	"github.com/ajitpratap0/gzcsv/pkg/metrics"
	"github.com/ajitpratap0/gzcsv/pkg/observability"
)

func newConvertCommand() *cobra.Command {
	var common commonFlags
	var columns []string
	var columnsJSON, output, outputCompression, nonFinite, metricsFile string
	var chunkSize int
	var trace bool

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a compressed CSV file to a JSON array",
		Long: `Convert a compressed CSV file to a JSON array of objects holding the requested
columns in the requested order. Unknown column names are ignored.

Example:
  gzcsv convert gaia_source.csv.gz --columns source_id,ra,dec --output out.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if columnsJSON != "" {
				decoded, err := jsonpool.DecodeStringArray([]byte(columnsJSON))
				if err != nil {
					return nerrors.Wrap(err, nerrors.ErrorTypeColumnList, "--columns-json must be a JSON array of strings")
				}
				columns = decoded
			}

			cfg, err := loadConfig(&common)
			if err != nil {
				return err
			}
			if nonFinite != "" {
				cfg.Inference.NonFinite = nonFinite
			}
			if trace {
				cfg.Observability.EnableTracing = true
				shutdown, err := observability.InitTracing(observability.TracingConfig{
					ServiceName:    "gzcsv",
					ServiceVersion: version,
					Environment:    "cli",
					SamplingRate:   1.0,
					Writer:         cmd.ErrOrStderr(),
				})
				if err != nil {
					return err
				}
				defer func() { _ = shutdown(context.Background()) }()
			}

			opts := []pipeline.Option{pipeline.WithLogger(logger.With(zap.String("component", "gzcsv-cli")))}
			var collector *metrics.Collector
			if metricsFile != "" {
				collector = metrics.NewCollector("cli")
				opts = append(opts, pipeline.WithMetrics(collector))
			}

			conv, err := pipeline.NewConverter(cfg, opts...)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(common)
			defer cancel()

			req := pipeline.Request{Path: args[0], Columns: columns, ChunkSize: chunkSize}
			if output == "" {
				_, err = conv.Stream(ctx, cmd.OutOrStdout(), req)
			} else {
				err = convertToFile(ctx, conv, req, output, outputCompression)
			}
			if err != nil {
				return err
			}

			if collector != nil {
				if err := prometheus.WriteToTextfile(metricsFile, collector.Registry()); err != nil {
					return nerrors.Wrap(err, nerrors.ErrorTypeFile, "failed to write metrics textfile")
				}
			}
			return nil
		},
	}

	common.register(cmd)
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Comma-separated column names to emit")
	cmd.Flags().StringVar(&columnsJSON, "columns-json", "", `Column names as a JSON array, e.g. '["source_id","ra"]'`)
	cmd.MarkFlagsMutuallyExclusive("columns", "columns-json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout); written atomically")
	cmd.Flags().StringVar(&outputCompression, "output-compression", "none", "Compress the output file: none, gzip, zstd, lz4, s2 or snappy")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Records between output flushes (default from config)")
	cmd.Flags().StringVar(&nonFinite, "non-finite", "", "NaN and infinity handling: null or reject")
	cmd.Flags().StringVar(&metricsFile, "metrics-textfile", "", "Write Prometheus metrics to this file after the conversion")
	cmd.Flags().BoolVar(&trace, "trace", false, "Export the conversion span to stderr")

	return cmd
}

// convertToFile streams into a temporary file next to path, optionally
// compressed, and renames it into place only when the conversion succeeds.
func convertToFile(ctx context.Context, conv *pipeline.Converter, req pipeline.Request, path, algorithm string) error {
	alg, err := compression.ParseAlgorithm(algorithm)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return nerrors.Wrap(err, nerrors.ErrorTypeFile, "failed to create output file")
	}
	defer os.Remove(tmp.Name())

	w, err := compression.NewWriter(tmp, alg, compression.Default)
	if err != nil {
		tmp.Close()
		return err
	}
	if _, err := conv.Stream(ctx, w, req); err != nil {
		w.Close()
		tmp.Close()
		return err
	}
	if err := w.Close(); err != nil {
		tmp.Close()
		return nerrors.Wrap(err, nerrors.ErrorTypeFile, "failed to finish compressed output")
	}
	if err := tmp.Close(); err != nil {
		return nerrors.Wrap(err, nerrors.ErrorTypeFile, "failed to close output file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nerrors.Wrap(err, nerrors.ErrorTypeFile, "failed to move output into place")
	}
	return nil
}

func newHeaderCommand() *cobra.Command {
	var common commonFlags
	var sample int

	cmd := &cobra.Command{
		Use:   "header <file>",
		Short: "Print the header row as JSON",
		Long: `Print the header row of a compressed CSV file as a JSON array. With --sample,
print a profile of the kinds inferred for each column over the first rows instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(&common)
			if err != nil {
				return err
			}
			conv, err := pipeline.NewConverter(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(common)
			defer cancel()

			var v interface{}
			if sample > 0 {
				profiles, rows, err := conv.Profile(ctx, args[0], sample)
				if err != nil {
					return err
				}
				v = map[string]interface{}{"rows": rows, "columns": profiles}
			} else {
				header, err := conv.Header(ctx, args[0])
				if err != nil {
					return err
				}
				v = header
			}
			return writeJSON(cmd.OutOrStdout(), v)
		},
	}

	common.register(cmd)
	cmd.Flags().IntVar(&sample, "sample", 0, "Profile inferred kinds over this many data rows")
	return cmd
}

func newCompressCommand() *cobra.Command {
	var algorithm string
	var level int

	cmd := &cobra.Command{
		Use:   "compress <in> <out>",
		Short: "Compress a file, e.g. to produce test inputs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := compression.ParseAlgorithm(algorithm)
			if err != nil {
				return err
			}

			in, err := os.Open(args[0])
			if err != nil {
				return nerrors.Wrap(err, nerrors.ErrorTypeFile, "failed to open input")
			}
			defer in.Close()

			out, err := os.Create(args[1])
			if err != nil {
				return nerrors.Wrap(err, nerrors.ErrorTypeFile, "failed to create output")
			}
			if err := compression.CompressStream(out, in, alg, compression.Level(level)); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return nerrors.Wrap(err, nerrors.ErrorTypeFile, "failed to close output")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&algorithm, "algorithm", "gzip", "Compression algorithm: gzip, zstd, lz4, s2, snappy or none")
	cmd.Flags().IntVar(&level, "level", int(compression.Default), "Compression level (1 fastest, 5 default, 7 better, 9 best)")
	return cmd
}

func loadConfig(f *commonFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return nil, err
	}
	if f.compression != "" {
		cfg.Decompression.Algorithm = strings.ToLower(f.compression)
	}
	if f.logLevel != "" {
		cfg.Observability.LogLevel = f.logLevel
	}

	if err := logger.Init(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Encoding:    cfg.Observability.LogEncoding,
		OutputPaths: []string{"stderr"},
	}); err != nil {
		return nil, nerrors.Wrap(err, nerrors.ErrorTypeConfig, "failed to initialize logger")
	}
	return cfg, nil
}

func commandContext(f commonFlags) (context.Context, context.CancelFunc) {
	ctx := logger.ContextWithRequestID(context.Background(), fmt.Sprintf("cli-%d", os.Getpid()))
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	if f.timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := jsonpool.MarshalNoEscape(v)
	if err != nil {
		return nerrors.Wrap(err, nerrors.ErrorTypeInternal, "failed to encode output")
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return nerrors.Wrap(err, nerrors.ErrorTypeFile, "failed to write output")
	}
	return nil
}
