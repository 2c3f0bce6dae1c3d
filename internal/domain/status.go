package domain

import "fmt"

// Status represents the lifecycle state of an improvement task.
// This is a value object that enforces valid statuses and transitions.
type Status string

// Valid statuses
const (
	// StatusOpen means the underlying problem currently holds.
	StatusOpen Status = "open"
	// StatusObsolete means the problem no longer holds under the latest
	// statistics. Obsolete is a live re-derivation and is never persisted.
	StatusObsolete Status = "obsolete"
	// StatusResolved means a person closed the task. Resolved is terminal
	// with respect to statistics-driven transitions.
	StatusResolved Status = "resolved"
)

// NewStatus creates a new Status value object with validation
func NewStatus(value string) (Status, error) {
	s := Status(value)
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

// Validate checks if the status is valid
func (s Status) Validate() error {
	switch s {
	case StatusOpen, StatusObsolete, StatusResolved:
		return nil
	default:
		return fmt.Errorf("invalid status %q: must be %q, %q, or %q",
			string(s), string(StatusOpen), string(StatusObsolete), string(StatusResolved))
	}
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// IsOpen reports whether the status is open
func (s Status) IsOpen() bool {
	return s == StatusOpen
}

// IsObsolete reports whether the status is obsolete
func (s Status) IsObsolete() bool {
	return s == StatusObsolete
}

// IsResolved reports whether the status is resolved
func (s Status) IsResolved() bool {
	return s == StatusResolved
}

// IsStorable reports whether the status may appear in a persisted record.
// Obsolete tasks are re-derived from statistics and never stored.
func (s Status) IsStorable() bool {
	return s == StatusOpen || s == StatusResolved
}

// Transition validates and performs a status change, returning the new
// status. Staying in the current status is always a no-op. Resolved has no
// outgoing transitions.
func (s Status) Transition(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return s, err
	}
	if s == next {
		return s, nil
	}
	if !isAllowedTransition(s, next) {
		return s, fmt.Errorf("invalid status transition from %q to %q", string(s), string(next))
	}
	return next, nil
}

// isAllowedTransition encodes the task status state machine. Open and
// obsolete oscillate as statistics change; either can be resolved; resolved
// is terminal.
func isAllowedTransition(from, to Status) bool {
	switch from {
	case StatusOpen:
		return to == StatusObsolete || to == StatusResolved
	case StatusObsolete:
		return to == StatusOpen || to == StatusResolved
	case StatusResolved:
		return false
	default:
		return false
	}
}
