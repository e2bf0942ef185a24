package pipeline

import (
	"io"

	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
	jsonpool "github.com/ajitpratap0/gzcsv/pkg/json"
	"github.com/ajitpratap0/gzcsv/pkg/models"
	"github.com/ajitpratap0/gzcsv/pkg/pool"
	"github.com/ajitpratap0/gzcsv/pkg/schema"
)

var recordPool = pool.New(
	func() *models.Record { return models.NewRecord(16) },
	(*models.Record).Reset,
)

// Assembler turns data rows into the elements of one JSON array. Each row
// becomes an object whose keys are the projected column names in request
// order.
type Assembler struct {
	enc       *jsonpool.ArrayEncoder
	names     []string
	positions []int
	engine    *schema.TypeInferenceEngine
	record    *models.Record
}

// NewAssembler creates an assembler writing to w. Buffered output is
// flushed every flushEvery records.
func NewAssembler(w io.Writer, proj *schema.ColumnIndexSet, engine *schema.TypeInferenceEngine, flushEvery int) *Assembler {
	return &Assembler{
		enc:       jsonpool.NewArrayEncoder(w, flushEvery),
		names:     proj.Names(),
		positions: proj.Positions(),
		engine:    engine,
		record:    recordPool.Get(),
	}
}

// Add infers the projected cells of row and encodes them as one object.
// The row slice is not retained.
func (a *Assembler) Add(row []string) error {
	a.record.Reset()
	for i, pos := range a.positions {
		if pos >= len(row) {
			return nerrors.Newf(nerrors.ErrorTypeData, "row has %d fields, column %q needs %d", len(row), a.names[i], pos+1)
		}
		cell, err := a.engine.InferCell(a.names[i], row[pos])
		if err != nil {
			return err
		}
		a.record.Set(a.names[i], cell)
	}

	if err := a.enc.Encode(a.record); err != nil {
		return classifyEncodeError(err)
	}
	return nil
}

// Close terminates the array. With no rows the output is exactly [].
func (a *Assembler) Close() error {
	a.Release()
	if err := a.enc.Close(); err != nil {
		return classifyEncodeError(err)
	}
	return nil
}

// Release returns the assembler's scratch record to the pool. It is called
// by Close and is safe to call more than once.
func (a *Assembler) Release() {
	if a.record != nil {
		recordPool.Put(a.record)
		a.record = nil
	}
}

func classifyEncodeError(err error) error {
	var typed *nerrors.Error
	if nerrors.As(err, &typed) {
		return err
	}
	return nerrors.Wrap(err, nerrors.ErrorTypeInternal, "failed to encode record")
}

// countingWriter counts bytes and reports destination failures as file
// errors.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil {
		return n, nerrors.Wrap(err, nerrors.ErrorTypeFile, "failed to write output")
	}
	return n, nil
}
