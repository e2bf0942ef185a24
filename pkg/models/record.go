// Package models provides the typed values produced by a conversion: a Cell
// is one inferred JSON value, a Record is one row's selected columns in
// resolution order.
package models

import (
	"fmt"
	"math"

	jsonpool "github.com/ajitpratap0/gzcsv/pkg/json"
)

// Kind is the inferred JSON type of a cell
type Kind uint8

const (
	// KindString is a JSON string
	KindString Kind = iota
	// KindNumber is a JSON number
	KindNumber
	// KindBool is a JSON boolean
	KindBool
	// KindNull is JSON null
	KindNull
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Cell is a typed cell value. The zero value is the empty string.
type Cell struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// String creates a string cell
func String(s string) Cell { return Cell{kind: KindString, str: s} }

// Number creates a number cell
func Number(f float64) Cell { return Cell{kind: KindNumber, num: f} }

// Bool creates a boolean cell
func Bool(b bool) Cell { return Cell{kind: KindBool, b: b} }

// Null creates a null cell
func Null() Cell { return Cell{kind: KindNull} }

// Kind returns the cell's JSON type
func (c Cell) Kind() Kind { return c.kind }

// Value returns the cell as a plain Go value (string, float64, bool or nil)
func (c Cell) Value() interface{} {
	switch c.kind {
	case KindNumber:
		return c.num
	case KindBool:
		return c.b
	case KindNull:
		return nil
	default:
		return c.str
	}
}

// AppendJSON appends the cell's JSON encoding. A non-finite number cannot
// be encoded and is an error.
func (c Cell) AppendJSON(dst []byte) ([]byte, error) {
	switch c.kind {
	case KindNumber:
		if math.IsNaN(c.num) || math.IsInf(c.num, 0) {
			return dst, fmt.Errorf("cannot encode non-finite number %v", c.num)
		}
		return jsonpool.AppendFloat(dst, c.num)
	case KindBool:
		if c.b {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	case KindNull:
		return append(dst, "null"...), nil
	default:
		return jsonpool.AppendString(dst, c.str)
	}
}

// MarshalJSON implements json.Marshaler
func (c Cell) MarshalJSON() ([]byte, error) {
	return c.AppendJSON(nil)
}

// Field is one named cell of a record
type Field struct {
	Name  string
	Value Cell
}

// Record holds one row's selected columns in insertion order. It encodes
// as a JSON object whose keys keep that order.
type Record struct {
	fields []Field
}

// NewRecord creates a record with room for capacity fields
func NewRecord(capacity int) *Record {
	return &Record{fields: make([]Field, 0, capacity)}
}

// Set appends a field. Callers guarantee names are unique within a record.
func (r *Record) Set(name string, value Cell) {
	r.fields = append(r.fields, Field{Name: name, Value: value})
}

// Len returns the number of fields
func (r *Record) Len() int {
	return len(r.fields)
}

// Reset clears the record for reuse, keeping its capacity
func (r *Record) Reset() {
	r.fields = r.fields[:0]
}

// AppendJSON appends the record's JSON object encoding
func (r *Record) AppendJSON(dst []byte) ([]byte, error) {
	dst = append(dst, '{')
	var err error
	for i, f := range r.fields {
		if i > 0 {
			dst = append(dst, ',')
		}
		if dst, err = jsonpool.AppendString(dst, f.Name); err != nil {
			return dst, err
		}
		dst = append(dst, ':')
		if dst, err = f.Value.AppendJSON(dst); err != nil {
			return dst, fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return append(dst, '}'), nil
}

// MarshalJSON implements json.Marshaler
func (r *Record) MarshalJSON() ([]byte, error) {
	return r.AppendJSON(make([]byte, 0, 16*len(r.fields)+2))
}
