// Package ffi implements the C boundary of gzcsv: argument validation, the
// conversion call, and ownership of the C strings handed to the host.
//
// Every string returned across the boundary lives in C memory obtained with
// malloc, so the host can hold it past any Go garbage collection and must
// give it back exactly once through free_string. On the Go side that memory
// is owned by a Handle.
package ffi

/*
#include <stdlib.h>
*/
import "C"

import (
	"bytes"
	"unsafe"

	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
)

// Handle owns one NUL-terminated C string. A Handle has a single owner and
// moves through exactly one of two terminal transitions: Release frees the
// memory, Detach hands it to the host. After either, the handle is empty and
// every further call is a no-op or returns nil.
type Handle struct {
	ptr  unsafe.Pointer
	size int
}

// NewHandle copies data into C memory and appends the terminating NUL.
// Data containing a NUL byte cannot be represented as a C string.
func NewHandle(data []byte) (*Handle, error) {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return nil, nerrors.New(nerrors.ErrorTypeAllocation, "output contains a NUL byte").
			WithDetail("offset", i)
	}

	// cgo's malloc wrapper aborts the process instead of returning NULL
	p := C.malloc(C.size_t(len(data) + 1))
	buf := unsafe.Slice((*byte)(p), len(data)+1)
	copy(buf, data)
	buf[len(data)] = 0

	return &Handle{ptr: p, size: len(data)}, nil
}

// NewHandleString is NewHandle for a string
func NewHandleString(s string) (*Handle, error) {
	return NewHandle([]byte(s))
}

// Len returns the string length without the NUL, or 0 for an empty handle
func (h *Handle) Len() int {
	if h == nil || h.ptr == nil {
		return 0
	}
	return h.size
}

// Valid reports whether the handle still owns its memory
func (h *Handle) Valid() bool {
	return h != nil && h.ptr != nil
}

// Bytes returns a Go copy of the string, or nil once released or detached
func (h *Handle) Bytes() []byte {
	if !h.Valid() {
		return nil
	}
	return C.GoBytes(h.ptr, C.int(h.size))
}

// String returns a Go copy of the string
func (h *Handle) String() string {
	return string(h.Bytes())
}

// Release frees the memory. Releasing twice, or after Detach, does nothing.
func (h *Handle) Release() {
	if !h.Valid() {
		return
	}
	C.free(h.ptr)
	h.ptr = nil
	h.size = 0
}

// Detach transfers ownership to the caller and empties the handle. The
// returned pointer must eventually be passed to ReleaseRaw.
func (h *Handle) Detach() unsafe.Pointer {
	if !h.Valid() {
		return nil
	}
	p := h.ptr
	h.ptr = nil
	h.size = 0
	return p
}

// ReleaseRaw frees a pointer previously returned by Detach. nil is a no-op.
// Passing the same pointer twice, or a pointer not obtained from this
// package, is undefined behavior.
func ReleaseRaw(p unsafe.Pointer) {
	if p == nil {
		return
	}
	C.free(p)
}
