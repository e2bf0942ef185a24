// Package errors provides structured error handling for gzcsv.
//
// Every failure inside the conversion pipeline is wrapped in an *Error that
// carries an ErrorType. The C boundary collapses all of them into a NULL
// return, and the extended entry point maps them to a stable numeric code
// with Code.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeEncoding represents boundary inputs that are not valid UTF-8
	ErrorTypeEncoding ErrorType = "encoding"
	// ErrorTypeColumnList represents a column list that is not a JSON array of strings
	ErrorTypeColumnList ErrorType = "column_list"
	// ErrorTypeFile represents file open and read errors
	ErrorTypeFile ErrorType = "file"
	// ErrorTypeDecompression represents corrupt or truncated compressed streams
	ErrorTypeDecompression ErrorType = "decompression"
	// ErrorTypeData represents malformed tabular data
	ErrorTypeData ErrorType = "data"
	// ErrorTypeNonFinite represents NaN or infinite numbers under the reject policy
	ErrorTypeNonFinite ErrorType = "non_finite"
	// ErrorTypeAllocation represents failure to build the returned string
	ErrorTypeAllocation ErrorType = "allocation"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// Numeric codes exposed through the C boundary. Zero means success.
const (
	CodeOK            = 0
	CodeEncoding      = 1
	CodeColumnList    = 2
	CodeFile          = 3
	CodeDecompression = 4
	CodeData          = 5
	CodeNonFinite     = 6
	CodeAllocation    = 7
	CodeConfig        = 8
	CodeInternal      = 99
)

var typeCodes = map[ErrorType]int{
	ErrorTypeEncoding:      CodeEncoding,
	ErrorTypeColumnList:    CodeColumnList,
	ErrorTypeFile:          CodeFile,
	ErrorTypeDecompression: CodeDecompression,
	ErrorTypeData:          CodeData,
	ErrorTypeNonFinite:     CodeNonFinite,
	ErrorTypeAllocation:    CodeAllocation,
	ErrorTypeConfig:        CodeConfig,
	ErrorTypeInternal:      CodeInternal,
}

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, errType ErrorType, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, errType, fmt.Sprintf(format, args...))
}

// IsType checks if the outermost structured error in the chain is of the given type
func IsType(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}

// TypeOf returns the type of the outermost structured error in the chain.
// Errors that never passed through this package are internal.
func TypeOf(err error) ErrorType {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return ErrorTypeInternal
	}
	return e.Type
}

// Code maps err to the numeric code reported across the C boundary.
func Code(err error) int {
	if err == nil {
		return CodeOK
	}
	if code, ok := typeCodes[TypeOf(err)]; ok {
		return code
	}
	return CodeInternal
}

// CodeName returns the error type name for a numeric code, "ok" for zero and
// "unknown" for codes this package never produces.
func CodeName(code int) string {
	if code == CodeOK {
		return "ok"
	}
	for t, c := range typeCodes {
		if c == code {
			return string(t)
		}
	}
	return "unknown"
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
