// Package json provides JSON serialization for gzcsv on top of
// github.com/goccy/go-json, with pooled buffers and a streaming array
// encoder.
package json

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/gzcsv/pkg/pool"
)

// maxPooledBuffer is the largest buffer returned to the pool.
const maxPooledBuffer = 4 * 1024 * 1024

var bufferPool = pool.New(
	func() *bytes.Buffer { return bytes.NewBuffer(make([]byte, 0, 4096)) },
	func(b *bytes.Buffer) { b.Reset() },
)

// GetBuffer gets an empty pooled bytes.Buffer
func GetBuffer() *bytes.Buffer {
	return bufferPool.Get()
}

// PutBuffer returns a buffer to the pool
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	if buf.Cap() > maxPooledBuffer { // Don't pool very large buffers
		bufferPool.Discard()
		return
	}
	bufferPool.Put(buf)
}

// Marshal is a drop-in replacement for json.Marshal
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// MarshalNoEscape marshals v without escaping <, > and &
func MarshalNoEscape(v interface{}) ([]byte, error) {
	return gojson.MarshalWithOption(v, gojson.DisableHTMLEscape())
}

// Unmarshal is a drop-in replacement for json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// AppendString appends s as a JSON string literal.
func AppendString(dst []byte, s string) ([]byte, error) {
	b, err := MarshalNoEscape(s)
	if err != nil {
		return dst, err
	}
	return append(dst, b...), nil
}

// AppendFloat appends f as a JSON number. f must be finite.
func AppendFloat(dst []byte, f float64) ([]byte, error) {
	b, err := Marshal(f)
	if err != nil {
		return dst, err
	}
	return append(dst, b...), nil
}

// DecodeStringArray decodes data that must be a JSON array whose elements
// are all strings. null, non-array documents, non-string elements and
// trailing data are rejected.
func DecodeStringArray(data []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("expected a JSON array")
	}
	if !gojson.Valid(trimmed) {
		return nil, fmt.Errorf("invalid JSON")
	}

	var raw []*string
	if err := Unmarshal(trimmed, &raw); err != nil {
		return nil, err
	}

	out := make([]string, len(raw))
	for i, s := range raw {
		if s == nil {
			return nil, fmt.Errorf("element %d is null, expected a string", i)
		}
		out[i] = *s
	}
	return out, nil
}

// Appender is implemented by values that can append their own JSON
// encoding, avoiding a reflective marshal per value.
type Appender interface {
	AppendJSON(dst []byte) ([]byte, error)
}

// ArrayEncoder streams values as the elements of one JSON array. The
// output is byte-identical to marshaling the whole slice at once.
type ArrayEncoder struct {
	bw         *bufio.Writer
	scratch    []byte
	count      int
	flushEvery int
	closed     bool
	err        error
}

// NewArrayEncoder creates an encoder writing to w. Buffered output is
// flushed to w every flushEvery elements; flushEvery <= 0 flushes only on
// Close.
func NewArrayEncoder(w io.Writer, flushEvery int) *ArrayEncoder {
	return &ArrayEncoder{
		bw:         bufio.NewWriterSize(w, 64*1024),
		scratch:    make([]byte, 0, 512),
		flushEvery: flushEvery,
	}
}

// Encode appends one element to the array
func (e *ArrayEncoder) Encode(v interface{}) error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return fmt.Errorf("encode after close")
	}

	buf := e.scratch[:0]
	if e.count == 0 {
		buf = append(buf, '[')
	} else {
		buf = append(buf, ',')
	}

	var err error
	if a, ok := v.(Appender); ok {
		buf, err = a.AppendJSON(buf)
	} else {
		var data []byte
		data, err = MarshalNoEscape(v)
		buf = append(buf, data...)
	}
	if err != nil {
		e.err = err
		return err
	}
	e.scratch = buf

	if _, err := e.bw.Write(buf); err != nil {
		e.err = err
		return err
	}
	e.count++

	if e.flushEvery > 0 && e.count%e.flushEvery == 0 {
		if err := e.bw.Flush(); err != nil {
			e.err = err
			return err
		}
	}
	return nil
}

// Close terminates the array and flushes. An empty array is written as [].
func (e *ArrayEncoder) Close() error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return nil
	}
	e.closed = true

	if e.count == 0 {
		_, e.err = e.bw.WriteString("[]")
	} else {
		e.err = e.bw.WriteByte(']')
	}
	if e.err != nil {
		return e.err
	}
	e.err = e.bw.Flush()
	return e.err
}
