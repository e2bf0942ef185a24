package errors

import (
	stderrors "errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeData, "bare quote in field")
	outer := Wrap(inner, ErrorTypeData, "read row")

	require.NotNil(t, outer)
	assert.Equal(t, inner.Stack, outer.Stack)
	assert.Equal(t, "data: read row: data: bare quote in field", outer.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeFile, "open"))
	assert.Nil(t, Wrapf(nil, ErrorTypeFile, "open %s", "x"))
}

func TestTypeOfUsesOutermost(t *testing.T) {
	inner := New(ErrorTypeDecompression, "checksum mismatch")
	outer := Wrap(inner, ErrorTypeData, "read row")

	assert.Equal(t, ErrorTypeData, TypeOf(outer))
	assert.True(t, IsType(outer, ErrorTypeData))
	assert.False(t, IsType(outer, ErrorTypeDecompression))
	assert.Equal(t, ErrorTypeInternal, TypeOf(io.EOF))
	assert.Equal(t, ErrorType(""), TypeOf(nil))
}

func TestCode(t *testing.T) {
	tests := []struct {
		errType ErrorType
		code    int
	}{
		{ErrorTypeEncoding, CodeEncoding},
		{ErrorTypeColumnList, CodeColumnList},
		{ErrorTypeFile, CodeFile},
		{ErrorTypeDecompression, CodeDecompression},
		{ErrorTypeData, CodeData},
		{ErrorTypeNonFinite, CodeNonFinite},
		{ErrorTypeAllocation, CodeAllocation},
		{ErrorTypeConfig, CodeConfig},
		{ErrorTypeInternal, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(string(tt.errType), func(t *testing.T) {
			err := New(tt.errType, "boom")
			assert.Equal(t, tt.code, Code(err))
			assert.Equal(t, string(tt.errType), CodeName(tt.code))
		})
	}

	assert.Equal(t, CodeOK, Code(nil))
	assert.Equal(t, "ok", CodeName(CodeOK))
	assert.Equal(t, "unknown", CodeName(42))
}

func TestUnwrapReachesCause(t *testing.T) {
	err := Wrapf(os.ErrNotExist, ErrorTypeFile, "open %s", "missing.csv.gz")

	assert.True(t, stderrors.Is(err, os.ErrNotExist))
	assert.Equal(t, "file: open missing.csv.gz: file does not exist", err.Error())
}

func TestWithDetail(t *testing.T) {
	err := Newf(ErrorTypeData, "row %d", 3).WithDetail("line", 4).WithDetail("field", 2)

	assert.Equal(t, "data: row 3", err.Error())
	assert.Equal(t, 4, err.Details["line"])
	assert.Equal(t, 2, err.Details["field"])
}
