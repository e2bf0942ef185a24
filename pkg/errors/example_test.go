// Package errors provides examples of structured error handling in gzcsv.
package errors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/gzcsv/pkg/errors"
)

// Example demonstrates basic error creation and details.
func Example() {
	err := errors.New(errors.ErrorTypeColumnList, "columns must be a JSON array of strings").
		WithDetail("input", `{"a":1}`)

	fmt.Println(err.Error())

	// Output:
	// column_list: columns must be a JSON array of strings
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	err := errors.Wrap(io.ErrUnexpectedEOF, errors.ErrorTypeDecompression, "read compressed stream").
		WithDetail("file", "gaia_source.csv.gz")

	if errors.IsType(err, errors.ErrorTypeDecompression) {
		fmt.Println("This is a decompression error")
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		fmt.Println("Original error was an unexpected EOF")
	}

	// Output:
	// This is a decompression error
	// Original error was an unexpected EOF
}

// ExampleCode shows the numeric codes reported across the C boundary.
func ExampleCode() {
	fmt.Println(errors.Code(nil))
	fmt.Println(errors.Code(errors.New(errors.ErrorTypeData, "wrong number of fields")))
	fmt.Println(errors.Code(io.EOF))
	fmt.Println(errors.CodeName(errors.CodeNonFinite))

	// Output:
	// 0
	// 5
	// 99
	// non_finite
}
