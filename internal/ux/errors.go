package ux

import (
	"fmt"
	"strings"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError analyzes an error and adds contextual suggestions
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	errMsg := err.Error()

	// File not found errors
	if strings.Contains(errMsg, "no such file or directory") {
		if strings.Contains(errMsg, "stats.yaml") || strings.Contains(errMsg, "stats.json") {
			return NewErrorWithSuggestion(err,
				"Export a statistics snapshot from your analytics pipeline to .lumen/stats.yaml, or point --stats at an existing one")
		}
		if strings.Contains(errMsg, "tasks.yaml") || strings.Contains(errMsg, "tasks.json") {
			return NewErrorWithSuggestion(err,
				"Run 'lumen scan' to detect issues and create the task file")
		}
	}

	// Record validation failures carry their contractual message verbatim
	if strings.Contains(errMsg, "backend dict has") {
		return NewErrorWithSuggestion(err,
			"The task file contains a record this tracker cannot represent. Inspect it with 'lumen tasks validate'")
	}

	// Snapshot offered for the wrong exploration version
	if strings.Contains(errMsg, "Expected stats for exploration") {
		return NewErrorWithSuggestion(err,
			"Point --stats at the snapshot matching the task file's exploration id and version, or start over with 'lumen scan'")
	}

	// Malformed YAML/JSON input
	if strings.Contains(errMsg, "failed to parse") || strings.Contains(errMsg, "unmarshal") {
		return NewErrorWithSuggestion(err,
			"Check the file syntax; lumen reads YAML by default and JSON for .json files")
	}

	// Permission errors
	if strings.Contains(errMsg, "permission denied") {
		return NewErrorWithSuggestion(err,
			"Check file permissions and ensure you have access to the required files/directories")
	}

	// Generic suggestion based on error type
	if strings.Contains(errMsg, "failed to") {
		return NewErrorWithSuggestion(err,
			fmt.Sprintf("Next steps: %s", SuggestNextSteps()))
	}

	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
