package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeIO         ErrorType = "IO"
	ErrTypeSchema     ErrorType = "SCHEMA"
	ErrTypeParse      ErrorType = "PARSE"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError of the same type with no message,
// so sentinel kinds like ErrSchema match any schema error.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Message == "" && t.Cause == nil
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogAttrs flattens the error into slog attributes for the exit log line.
func (e *AppError) LogAttrs() []any {
	attrs := []any{
		slog.String("error_type", string(e.Type)),
		slog.String("error", e.Error()),
	}
	for k, v := range e.Context {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Kind sentinels for errors.Is checks.
var (
	ErrIO         = &AppError{Type: ErrTypeIO}
	ErrSchema     = &AppError{Type: ErrTypeSchema}
	ErrParse      = &AppError{Type: ErrTypeParse}
	ErrStorage    = &AppError{Type: ErrTypeStorage}
	ErrValidation = &AppError{Type: ErrTypeValidation}
	ErrNotFound   = &AppError{Type: ErrTypeNotFound}
	ErrConfig     = &AppError{Type: ErrTypeConfig}
)

// Helper functions for common error types

// NewIOError creates an error for an unreadable or unwritable file.
func NewIOError(message string, cause error) *AppError {
	return NewAppError(ErrTypeIO, message, cause)
}

// NewSchemaError creates an error for input that lacks a required column or header.
func NewSchemaError(message string) *AppError {
	return NewAppError(ErrTypeSchema, message, nil)
}

// NewMissingColumnsError creates a schema error naming the absent columns.
func NewMissingColumnsError(source string, columns []string) *AppError {
	return NewSchemaError(fmt.Sprintf("missing columns %v", columns)).
		WithContext("source", source).
		WithContext("missing_columns", columns)
}

// NewParseError creates a recoverable error for a single unparseable value.
func NewParseError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParse, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or ""
// when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsFatal reports whether err must terminate the run. Only per-value parse
// errors are recoverable; everything else, including unclassified errors, is fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return TypeOf(err) != ErrTypeParse
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if IsFatal(err) {
		return 1
	}
	return 0
}
