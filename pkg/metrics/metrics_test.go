package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveConversion(t *testing.T) {
	c := NewCollector("test")

	c.ObserveConversion(10, 200, 5*time.Millisecond, "")
	c.ObserveConversion(3, 50, time.Millisecond, "")
	c.ObserveConversion(0, 0, time.Millisecond, "decompression")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.conversions.WithLabelValues(StatusSuccess, "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.conversions.WithLabelValues(StatusFailure, "decompression")))
	assert.Equal(t, 13.0, testutil.ToFloat64(c.rows))
	assert.Equal(t, 250.0, testutil.ToFloat64(c.outputBytes))
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector("a")
	b := NewCollector("b")

	a.ObserveConversion(1, 1, time.Millisecond, "")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.rows))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.rows))
}

func TestRegistryExposition(t *testing.T) {
	c := NewCollector("cli")
	c.ObserveConversion(4, 100, time.Millisecond, "")

	expected := `
# HELP gzcsv_rows_total Total number of data rows emitted
# TYPE gzcsv_rows_total counter
gzcsv_rows_total{component="cli"} 4
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "gzcsv_rows_total"))
}

func TestNilCollector(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.ObserveConversion(1, 1, time.Second, "data")
	})
	assert.Nil(t, c.Registry())
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	time.Sleep(2 * time.Millisecond)
	assert.GreaterOrEqual(t, timer.Elapsed(), 2*time.Millisecond)
}
