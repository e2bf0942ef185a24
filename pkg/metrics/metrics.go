// Package metrics provides conversion metrics for gzcsv using Prometheus.
//
// Collectors are opt-in. Each Collector owns a private registry so that
// several converters in one process never collide on registration, and the
// C boundary, which uses none, stays free of shared state.
//
// # Basic Usage
//
//	collector := metrics.NewCollector("cli")
//	conv := pipeline.NewConverter(cfg, pipeline.WithMetrics(collector))
//	...
//	prometheus.WriteToTextfile("gzcsv.prom", collector.Registry())
//
// A nil *Collector is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gzcsv"

// Status label values
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Collector records per-conversion metrics for one component.
type Collector struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	rows        prometheus.Counter
	outputBytes prometheus.Counter
	duration    *prometheus.HistogramVec
}

// NewCollector creates a collector whose metrics carry a constant
// component label set to name.
func NewCollector(name string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := prometheus.Labels{"component": name}

	return &Collector{
		registry: reg,
		conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "conversions_total",
				Help:        "Total number of conversions by outcome",
				ConstLabels: labels,
			},
			[]string{"status", "error_type"},
		),
		rows: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "rows_total",
			Help:        "Total number of data rows emitted",
			ConstLabels: labels,
		}),
		outputBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "output_bytes_total",
			Help:        "Total number of JSON bytes produced",
			ConstLabels: labels,
		}),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Name:        "conversion_duration_seconds",
				Help:        "Conversion latency distribution",
				ConstLabels: labels,
				Buckets: []float64{
					0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60,
				},
			},
			[]string{"status"},
		),
	}
}

// Registry returns the collector's registry, or nil for a nil collector
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObserveConversion records one finished conversion. errorType is empty on
// success.
func (c *Collector) ObserveConversion(rows, bytes int64, d time.Duration, errorType string) {
	if c == nil {
		return
	}

	status := StatusSuccess
	if errorType != "" {
		status = StatusFailure
	}

	c.conversions.WithLabelValues(status, errorType).Inc()
	c.duration.WithLabelValues(status).Observe(d.Seconds())
	if rows > 0 {
		c.rows.Add(float64(rows))
	}
	if bytes > 0 {
		c.outputBytes.Add(float64(bytes))
	}
}

// Timer measures an operation's duration
type Timer struct {
	start time.Time
}

// NewTimer starts a timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the time since the timer started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
