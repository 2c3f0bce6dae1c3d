package exitcode

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/felixgeelhaar/lumen/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ValidationFailed indicates a task record or statistics snapshot that
	// failed validation, including snapshots for the wrong exploration version
	ValidationFailed = 3

	// IssuesFound indicates a scan or refresh left open bounce-rate tasks
	IssuesFound = 4

	// Interrupted indicates the run was cancelled by a signal, following the
	// shell convention of 128 + SIGINT
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	code := DetermineExitCode(err)
	Exit(code)
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	// Typed checks first: our own error kinds identify themselves.
	if errors.IsValidation(err) || errors.IsMismatch(err) {
		return ValidationFailed
	}

	var coded *errors.LumenError
	if stderrors.As(err, &coded) {
		switch coded.Code {
		case errors.ErrCodeStatsInvalid, errors.ErrCodeStatsUnmarshal, errors.ErrCodeFileUnmarshal:
			return ValidationFailed
		}
	}

	errMsg := strings.ToLower(err.Error())

	// Record errors that are not one of the typed kinds above
	if strings.Contains(errMsg, "validation failed") {
		return ValidationFailed
	}

	// Open tasks reported by scan/refresh
	if strings.Contains(errMsg, "issues found") {
		return IssuesFound
	}

	// Usage errors surfaced by the flag parser
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "missing argument") {
		return UsageError
	}

	// Default to general error
	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ValidationFailed:
		return "Validation failed (bad task record or statistics snapshot)"
	case IssuesFound:
		return "Open bounce-rate issues found"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
