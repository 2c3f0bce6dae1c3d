package domain

import "fmt"

// EntityType identifies the kind of learning artifact a task is attached to.
// This is a value object that enforces valid entity types.
type EntityType string

// Valid entity types
const (
	// EntityExploration is a versioned interactive learning unit composed of named states.
	EntityExploration EntityType = "exploration"
)

// NewEntityType creates a new EntityType value object with validation
func NewEntityType(value string) (EntityType, error) {
	e := EntityType(value)
	if err := e.Validate(); err != nil {
		return "", err
	}
	return e, nil
}

// Validate checks if the entity type is valid
func (e EntityType) Validate() error {
	switch e {
	case EntityExploration:
		return nil
	default:
		return fmt.Errorf("invalid entity type %q: must be %q", string(e), string(EntityExploration))
	}
}

// String returns the string representation
func (e EntityType) String() string {
	return string(e)
}
