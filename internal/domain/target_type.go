package domain

import "fmt"

// TargetType identifies the part of an entity a task points at.
// This is a value object that enforces valid target types.
type TargetType string

// Valid target types
const (
	// TargetState is one named node/screen within an exploration version.
	TargetState TargetType = "state"
)

// NewTargetType creates a new TargetType value object with validation
func NewTargetType(value string) (TargetType, error) {
	t := TargetType(value)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate checks if the target type is valid
func (t TargetType) Validate() error {
	switch t {
	case TargetState:
		return nil
	default:
		return fmt.Errorf("invalid target type %q: must be %q", string(t), string(TargetState))
	}
}

// String returns the string representation
func (t TargetType) String() string {
	return string(t)
}
