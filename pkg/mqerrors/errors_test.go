package mqerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrorTypeValidation, "invalid value")
	assert.Equal(t, "validation: invalid value", err.Error())
	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Nil(t, err.Cause)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeConfig, "invalid duration %q", "soon")
	assert.Equal(t, `config: invalid duration "soon"`, err.Error())
}

func TestWrap(t *testing.T) {
	cause := errors.New("file not found")
	err := Wrap(cause, ErrorTypeConfig, "failed to load configuration")

	assert.Equal(t, "config: failed to load configuration: file not found", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeConfig, "ignored"))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeValidation, "mutually exclusive").
		WithDetail("channel", "DEV.ADMIN.SVRCONN").
		WithDetail("ccdt_url", "file:///ccdt.tab")

	require.NotNil(t, err.Details)
	assert.Equal(t, "DEV.ADMIN.SVRCONN", err.Details["channel"])
	assert.Equal(t, "file:///ccdt.tab", err.Details["ccdt_url"])
}

func TestIsType(t *testing.T) {
	err := New(ErrorTypeValidation, "bad value")
	assert.True(t, IsType(err, ErrorTypeValidation))
	assert.False(t, IsType(err, ErrorTypeConfig))

	// Works through wrapping layers
	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsType(wrapped, ErrorTypeValidation))

	assert.False(t, IsType(errors.New("plain"), ErrorTypeValidation))
}
