package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "io error type", errType: ErrTypeIO, expected: "IO"},
		{name: "schema error type", errType: ErrTypeSchema, expected: "SCHEMA"},
		{name: "parse error type", errType: ErrTypeParse, expected: "PARSE"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    NewSchemaError("missing header"),
			wantMessage: "[SCHEMA] missing header",
		},
		{
			name:        "error with cause",
			appError:    NewIOError("failed to open input", io.ErrUnexpectedEOF),
			wantMessage: "[IO] failed to open input: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_UnwrapAndIs(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := fmt.Errorf("split: %w", NewIOError("read row", cause))

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrIO))
	assert.False(t, errors.Is(err, ErrSchema))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeIO, appErr.Type)
}

func TestNewMissingColumnsError(t *testing.T) {
	err := NewMissingColumnsError("data.csv", []string{"fecha_esp32"})

	assert.True(t, errors.Is(err, ErrSchema))
	assert.Equal(t, "data.csv", err.Context["source"])
	assert.Equal(t, []string{"fecha_esp32"}, err.Context["missing_columns"])
	assert.Contains(t, err.Error(), "fecha_esp32")
}

func TestIsFatalAndExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fatal    bool
		exitCode int
	}{
		{name: "nil", err: nil, fatal: false, exitCode: 0},
		{name: "io", err: NewIOError("open", nil), fatal: true, exitCode: 1},
		{name: "schema", err: NewSchemaError("no header"), fatal: true, exitCode: 1},
		{name: "parse", err: NewParseError("bad timestamp", nil), fatal: false, exitCode: 0},
		{name: "wrapped parse", err: fmt.Errorf("row 3: %w", NewParseError("bad", nil)), fatal: false, exitCode: 0},
		{name: "plain error", err: errors.New("boom"), fatal: true, exitCode: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fatal, IsFatal(tt.err))
			assert.Equal(t, tt.exitCode, ExitCode(tt.err))
		})
	}
}

func TestAppError_LogAttrs(t *testing.T) {
	err := NewConfigError("num_parts must be positive", nil).WithContext("num_parts", 0)

	attrs := err.LogAttrs()
	assert.Len(t, attrs, 3)
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrTypeStorage, TypeOf(NewStorageError("get object", nil)))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
}
