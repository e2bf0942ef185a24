// Package tabular reads comma-delimited text as one header row followed by
// data rows. Lines starting with '#' are skipped everywhere, including
// before the header. Quoting follows RFC 4180; a field count that differs
// from the header, a bare or unterminated quote, or invalid UTF-8 is fatal.
package tabular

import (
	"encoding/csv"
	stderrors "errors"
	"io"
	"strings"
	"unicode/utf8"

	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
)

const (
	// Comma is the field delimiter
	Comma = ','
	// Comment marks a line to skip
	Comment = '#'
)

const bom = "\ufeff"

// Reader is a forward-only, non-restartable row reader.
type Reader struct {
	cr         *csv.Reader
	header     []string
	headerRead bool
	line       int
	done       bool
}

// NewReader creates a Reader over r
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.Comma = Comma
	cr.Comment = Comment
	cr.FieldsPerRecord = 0 // fixed by the header
	cr.LazyQuotes = false
	cr.ReuseRecord = true

	return &Reader{cr: cr}
}

// Header reads the first non-comment row exactly once and returns a copy of
// it on every call. An empty input yields an empty header.
func (r *Reader) Header() ([]string, error) {
	if !r.headerRead {
		if err := r.readHeader(); err != nil {
			return nil, err
		}
	}

	out := make([]string, len(r.header))
	copy(out, r.header)
	return out, nil
}

func (r *Reader) readHeader() error {
	rec, err := r.cr.Read()
	r.headerRead = true
	if err == io.EOF {
		r.done = true
		return nil
	}
	if err != nil {
		return r.wrap(err, "read header")
	}
	r.line, _ = r.cr.FieldPos(0)

	header := make([]string, len(rec))
	copy(header, rec)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}
	if err := r.checkUTF8(header); err != nil {
		return err
	}

	r.header = header
	return nil
}

// Next returns the next data row, or io.EOF after the last one. The
// returned slice is reused by the following call.
func (r *Reader) Next() ([]string, error) {
	if !r.headerRead {
		if err := r.readHeader(); err != nil {
			return nil, err
		}
	}
	if r.done {
		return nil, io.EOF
	}

	rec, err := r.cr.Read()
	if err == io.EOF {
		r.done = true
		return nil, io.EOF
	}
	if err != nil {
		r.done = true
		return nil, r.wrap(err, "read row")
	}
	r.line, _ = r.cr.FieldPos(0)

	if err := r.checkUTF8(rec); err != nil {
		r.done = true
		return nil, err
	}
	return rec, nil
}

// Line returns the line number where the last row read started
func (r *Reader) Line() int {
	return r.line
}

func (r *Reader) checkUTF8(rec []string) error {
	for i, field := range rec {
		if !utf8.ValidString(field) {
			return nerrors.New(nerrors.ErrorTypeData, "field is not valid UTF-8").
				WithDetail("line", r.line).
				WithDetail("field", i+1)
		}
	}
	return nil
}

// wrap keeps typed stream errors and tags parse errors as data errors.
func (r *Reader) wrap(err error, message string) error {
	var typed *nerrors.Error
	if stderrors.As(err, &typed) {
		return err
	}

	var parseErr *csv.ParseError
	if stderrors.As(err, &parseErr) {
		// csv.Reader wraps reader failures in a ParseError too
		if stderrors.As(parseErr.Err, &typed) {
			return parseErr.Err
		}
		return nerrors.Wrap(err, nerrors.ErrorTypeData, message).
			WithDetail("line", parseErr.Line).
			WithDetail("column", parseErr.Column)
	}
	return nerrors.Wrap(err, nerrors.ErrorTypeFile, message)
}
