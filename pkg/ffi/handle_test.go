package ffi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
)

func TestHandleLifecycle(t *testing.T) {
	h, err := NewHandleString(`[{"a":1}]`)
	require.NoError(t, err)

	assert.True(t, h.Valid())
	assert.Equal(t, 9, h.Len())
	assert.Equal(t, `[{"a":1}]`, h.String())

	h.Release()
	assert.False(t, h.Valid())
	assert.Nil(t, h.Bytes())
	assert.Equal(t, 0, h.Len())

	assert.NotPanics(t, h.Release)
	assert.Nil(t, h.Detach())
}

func TestHandleDetach(t *testing.T) {
	h, err := NewHandleString("[]")
	require.NoError(t, err)

	p := h.Detach()
	require.NotNil(t, p)
	assert.False(t, h.Valid())

	// the handle no longer owns p
	h.Release()
	ReleaseRaw(p)
}

func TestHandleEmptyString(t *testing.T) {
	h, err := NewHandle(nil)
	require.NoError(t, err)
	defer h.Release()

	assert.True(t, h.Valid())
	assert.Equal(t, "", h.String())
}

func TestHandleRejectsNUL(t *testing.T) {
	_, err := NewHandle([]byte("a\x00b"))
	require.Error(t, err)
	assert.True(t, nerrors.IsType(err, nerrors.ErrorTypeAllocation))
}

func TestNilHandle(t *testing.T) {
	var h *Handle
	assert.False(t, h.Valid())
	assert.NotPanics(t, h.Release)
	assert.Nil(t, h.Detach())
	assert.Equal(t, 0, h.Len())
}

func TestReleaseRawNil(t *testing.T) {
	assert.NotPanics(t, func() { ReleaseRaw(nil) })
}
