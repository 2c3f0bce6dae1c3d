package domain

import "fmt"

// TaskType identifies the kind of quality problem a task tracks.
// This is a value object that enforces valid task types.
type TaskType string

// Valid task types
const (
	// TaskHighBounceRate flags a state where a significant share of learners
	// start but do not complete.
	TaskHighBounceRate TaskType = "high_bounce_rate"
)

// NewTaskType creates a new TaskType value object with validation
func NewTaskType(value string) (TaskType, error) {
	t := TaskType(value)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate checks if the task type is valid
func (t TaskType) Validate() error {
	switch t {
	case TaskHighBounceRate:
		return nil
	default:
		return fmt.Errorf("invalid task type %q: must be %q", string(t), string(TaskHighBounceRate))
	}
}

// String returns the string representation
func (t TaskType) String() string {
	return string(t)
}
