package improvements

import (
	"fmt"

	"github.com/felixgeelhaar/lumen/internal/domain"
	"github.com/felixgeelhaar/lumen/internal/errors"
)

// TaskRecord is the flat wire and storage shape of a Task. Field names match
// the upstream backend dict so exported records stay interchangeable with it.
type TaskRecord struct {
	EntityType       string `json:"entity_type" yaml:"entity_type"`
	EntityID         string `json:"entity_id" yaml:"entity_id"`
	EntityVersion    int    `json:"entity_version" yaml:"entity_version"`
	TaskType         string `json:"task_type" yaml:"task_type"`
	TargetType       string `json:"target_type" yaml:"target_type"`
	TargetID         string `json:"target_id" yaml:"target_id"`
	IssueDescription string `json:"issue_description" yaml:"issue_description"`
	Status           string `json:"status" yaml:"status"`

	ResolverUsername              *string `json:"resolver_username" yaml:"resolver_username"`
	ResolverProfilePictureDataURL *string `json:"resolver_profile_picture_data_url" yaml:"resolver_profile_picture_data_url"`
	ResolvedOnMsecs               *int64  `json:"resolved_on_msecs" yaml:"resolved_on_msecs"`
}

// TaskFromRecord reconstructs a Task from a stored record. The discriminator
// fields must carry exactly the values this tracker produces; anything else
// fails with a ValidationError naming the offending field. Status must be a
// stored status, so open or resolved: obsolete tasks are re-derived from
// statistics and never read back.
func TaskFromRecord(record TaskRecord) (*Task, error) {
	if record.EntityType != string(domain.EntityExploration) {
		return nil, errors.NewValidationError("entity_type", record.EntityType, string(domain.EntityExploration))
	}
	if record.TargetType != string(domain.TargetState) {
		return nil, errors.NewValidationError("target_type", record.TargetType, string(domain.TargetState))
	}
	if record.TaskType != string(domain.TaskHighBounceRate) {
		return nil, errors.NewValidationError("task_type", record.TaskType, string(domain.TaskHighBounceRate))
	}

	status, err := domain.NewStatus(record.Status)
	if err != nil {
		return nil, fmt.Errorf("task record status: %w", err)
	}
	if !status.IsStorable() {
		return nil, fmt.Errorf("task record status %q: obsolete tasks are never stored", record.Status)
	}

	return &Task{
		entityType:       domain.EntityExploration,
		entityID:         record.EntityID,
		entityVersion:    record.EntityVersion,
		taskType:         domain.TaskHighBounceRate,
		targetType:       domain.TargetState,
		targetID:         record.TargetID,
		status:           status,
		issueDescription: record.IssueDescription,

		resolverUsername:              record.ResolverUsername,
		resolverProfilePictureDataURL: record.ResolverProfilePictureDataURL,
		resolvedOnMsecs:               record.ResolvedOnMsecs,
	}, nil
}

// ToRecord flattens the task into its wire and storage shape. The mapping is
// unconditional; callers that persist records filter on Status().IsStorable()
// so obsolete tasks never reach disk.
func (t *Task) ToRecord() TaskRecord {
	return TaskRecord{
		EntityType:       t.entityType.String(),
		EntityID:         t.entityID,
		EntityVersion:    t.entityVersion,
		TaskType:         t.taskType.String(),
		TargetType:       t.targetType.String(),
		TargetID:         t.targetID,
		IssueDescription: t.issueDescription,
		Status:           t.status.String(),

		ResolverUsername:              t.resolverUsername,
		ResolverProfilePictureDataURL: t.resolverProfilePictureDataURL,
		ResolvedOnMsecs:               t.resolvedOnMsecs,
	}
}
