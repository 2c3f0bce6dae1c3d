package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Task errors (TASK-001 to TASK-099)
	ErrCodeTaskValidation    ErrorCode = "TASK-001"
	ErrCodeTaskStatsMismatch ErrorCode = "TASK-002"
	ErrCodeTaskNotFound      ErrorCode = "TASK-003"
	ErrCodeTaskTransition    ErrorCode = "TASK-004"

	// Stats errors (STATS-001 to STATS-099)
	ErrCodeStatsNotFound  ErrorCode = "STATS-001"
	ErrCodeStatsInvalid   ErrorCode = "STATS-002"
	ErrCodeStatsUnmarshal ErrorCode = "STATS-003"
	ErrCodeStatsMarshal   ErrorCode = "STATS-004"

	// Registry errors (REGISTRY-001 to REGISTRY-099)
	ErrCodeRegistryTaskUnknown     ErrorCode = "REGISTRY-001"
	ErrCodeRegistryEmptyResolver   ErrorCode = "REGISTRY-002"
	ErrCodeRegistryAlreadyResolved ErrorCode = "REGISTRY-003"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
	ErrCodeFileMarshal     ErrorCode = "IO-006"
)

// LumenError represents an enhanced error with code, suggestions, and documentation
type LumenError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *LumenError) Error() string {
	var b strings.Builder

	// Error code and message
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	// Add cause if present
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	// Add suggestions
	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	// Add documentation link
	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *LumenError) Unwrap() error {
	return e.Cause
}

// New creates a new LumenError
func New(code ErrorCode, message string) *LumenError {
	return &LumenError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new LumenError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *LumenError {
	return &LumenError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *LumenError) WithSuggestion(suggestion string) *LumenError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *LumenError) WithSuggestions(suggestions ...string) *LumenError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *LumenError) WithDocs(url string) *LumenError {
	e.DocsURL = url
	return e
}

// ValidationError is returned when a persisted task record carries a value
// other than the fixed literal expected for one of its discriminator fields.
// The message is part of the record contract and stays stable regardless of
// how the error is displayed.
type ValidationError struct {
	Field    string
	Value    string
	Expected string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("backend dict has %s %q but expected %q", e.Field, e.Value, e.Expected)
}

// Code returns the error code for logging and exit code mapping
func (e *ValidationError) Code() ErrorCode {
	return ErrCodeTaskValidation
}

// NewValidationError creates a ValidationError for a discriminator field
func NewValidationError(field, value, expected string) *ValidationError {
	return &ValidationError{
		Field:    field,
		Value:    value,
		Expected: expected,
	}
}

// MismatchError is returned when a statistics snapshot is offered to a task
// computed against a different exploration id or version. Like
// ValidationError, its message text is contractual.
type MismatchError struct {
	ExpectedID      string
	ExpectedVersion int
	ActualID        string
	ActualVersion   int
}

// Error implements the error interface
func (e *MismatchError) Error() string {
	return fmt.Sprintf("Expected stats for exploration id=%q v%d but given stats are for exploration id=%q v%d",
		e.ExpectedID, e.ExpectedVersion, e.ActualID, e.ActualVersion)
}

// Code returns the error code for logging and exit code mapping
func (e *MismatchError) Code() ErrorCode {
	return ErrCodeTaskStatsMismatch
}

// NewMismatchError creates a MismatchError for an id/version pair
func NewMismatchError(expectedID string, expectedVersion int, actualID string, actualVersion int) *MismatchError {
	return &MismatchError{
		ExpectedID:      expectedID,
		ExpectedVersion: expectedVersion,
		ActualID:        actualID,
		ActualVersion:   actualVersion,
	}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

// IsMismatch reports whether err is (or wraps) a MismatchError
func IsMismatch(err error) bool {
	var target *MismatchError
	return stderrors.As(err, &target)
}

// Common error constructors for frequently used errors

// NewStatsNotFoundError creates a stats file not found error
func NewStatsNotFoundError(path string) *LumenError {
	return New(ErrCodeStatsNotFound, fmt.Sprintf("statistics file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Export a snapshot from your analytics pipeline first").
		WithDocs("https://github.com/felixgeelhaar/lumen#statistics-snapshots")
}

// NewStatsInvalidError creates a stats validation error
func NewStatsInvalidError(details string) *LumenError {
	return New(ErrCodeStatsInvalid, fmt.Sprintf("invalid statistics snapshot: %s", details)).
		WithSuggestion("Counts must be non-negative and the exploration version must be >= 1").
		WithDocs("https://github.com/felixgeelhaar/lumen#statistics-snapshots")
}

// NewTaskUnknownError creates an unknown task error
func NewTaskUnknownError(id string) *LumenError {
	return New(ErrCodeRegistryTaskUnknown, fmt.Sprintf("no task tracked with id: %s", id)).
		WithSuggestion("Run 'lumen scan' to detect tasks for the current snapshot").
		WithSuggestion("List tracked tasks with 'lumen tasks list'")
}

// NewEmptyResolverError creates an error for a resolution without a username
func NewEmptyResolverError() *LumenError {
	return New(ErrCodeRegistryEmptyResolver, "resolver username must not be empty").
		WithSuggestion("Pass the resolving user's name via --by")
}

// NewAlreadyResolvedError creates an error for re-resolving a resolved task
func NewAlreadyResolvedError(id string) *LumenError {
	return New(ErrCodeRegistryAlreadyResolved, fmt.Sprintf("task already resolved: %s", id)).
		WithSuggestion("Resolved tasks keep their original resolver; no further action is needed")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *LumenError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *LumenError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
