// Package improvements derives actionable improvement tasks for an
// exploration from its aggregate learner statistics. The only task kind
// tracked today flags states with a statistically significant high bounce
// rate, i.e. states many learners reach but do not complete.
package improvements

import (
	"fmt"
	"math"

	"github.com/felixgeelhaar/lumen/internal/domain"
	"github.com/felixgeelhaar/lumen/internal/errors"
	"github.com/felixgeelhaar/lumen/internal/stats"
)

// Statistical significance thresholds for flagging a state.
const (
	// MinStartsThreshold is the minimum number of starts a state needs
	// before its bounce rate is considered statistically reliable.
	MinStartsThreshold = 100

	// HighBounceRateThreshold is the minimum bounce rate at which a state
	// is considered to have a drop-off problem.
	HighBounceRateThreshold = 0.20
)

// IsHighBounceRate reports whether the named state has a statistically
// significant high bounce rate in the given snapshot. States below the starts
// floor never qualify, whatever their computed rate.
func IsHighBounceRate(snapshot *stats.ExplorationStats, stateName string) bool {
	if snapshot.TotalStarts(stateName) < MinStartsThreshold {
		return false
	}
	return snapshot.BounceRate(stateName) >= HighBounceRateThreshold
}

// Task tracks one high-bounce-rate problem for one state of one exploration
// version. The exploration identity is fixed at construction; status changes
// only through RefreshStatus and Resolve.
type Task struct {
	entityType    domain.EntityType
	entityID      string
	entityVersion int
	taskType      domain.TaskType
	targetType    domain.TargetType
	targetID      string
	status        domain.Status

	issueDescription           string
	issueDescriptionPercentage int

	// Resolver metadata is opaque pass-through for display collaborators.
	resolverUsername              *string
	resolverProfilePictureDataURL *string
	resolvedOnMsecs               *int64
}

// CreateFromExplorationStats evaluates the named states, in order, against
// the snapshot and returns one entry per name: a new open Task where the
// significance rule holds, nil where it does not. States absent from the
// snapshot behave as zero counts and never qualify.
func CreateFromExplorationStats(snapshot *stats.ExplorationStats, stateNames []string) []*Task {
	tasks := make([]*Task, len(stateNames))
	for i, stateName := range stateNames {
		if !IsHighBounceRate(snapshot, stateName) {
			continue
		}
		tasks[i] = newOpenTask(snapshot, stateName)
	}
	return tasks
}

func newOpenTask(snapshot *stats.ExplorationStats, stateName string) *Task {
	t := &Task{
		entityType:    domain.EntityExploration,
		entityID:      snapshot.ExplorationID,
		entityVersion: snapshot.ExplorationVersion,
		taskType:      domain.TaskHighBounceRate,
		targetType:    domain.TargetState,
		targetID:      stateName,
		status:        domain.StatusOpen,
	}
	t.applyBounceRate(snapshot.BounceRate(stateName))
	return t
}

// applyBounceRate updates the derived percentage and its rendered sentence.
func (t *Task) applyBounceRate(rate float64) {
	t.issueDescriptionPercentage = int(math.Round(rate * 100))
	t.issueDescription = fmt.Sprintf("%d%% of learners had dropped off at this card.", t.issueDescriptionPercentage)
}

// RefreshStatus re-evaluates the task against a new snapshot for the same
// exploration version. Resolved tasks are never touched. Otherwise the task
// becomes open (with a refreshed percentage) when the significance rule holds
// and obsolete when it does not, including when starts fall below the floor.
//
// A snapshot for a different exploration id or version fails with a
// MismatchError and leaves the task unchanged.
func (t *Task) RefreshStatus(snapshot *stats.ExplorationStats) error {
	if snapshot.ExplorationID != t.entityID || snapshot.ExplorationVersion != t.entityVersion {
		return errors.NewMismatchError(t.entityID, t.entityVersion, snapshot.ExplorationID, snapshot.ExplorationVersion)
	}

	if t.status.IsResolved() {
		return nil
	}

	next := domain.StatusObsolete
	if IsHighBounceRate(snapshot, t.targetID) {
		next = domain.StatusOpen
	}

	status, err := t.status.Transition(next)
	if err != nil {
		return fmt.Errorf("refresh task status: %w", err)
	}
	t.status = status

	if t.status.IsOpen() {
		t.applyBounceRate(snapshot.BounceRate(t.targetID))
	}
	return nil
}

// Resolve marks the task resolved. Resolution is unconditional, idempotent,
// and sticky: later snapshots never reopen or obsolete a resolved task.
func (t *Task) Resolve() {
	t.status = domain.StatusResolved
}

// SetResolverMetadata records who resolved the task and when. The values are
// opaque to the core and surface only through ToRecord.
func (t *Task) SetResolverMetadata(username, profilePictureDataURL string, resolvedOnMsecs int64) {
	t.resolverUsername = &username
	t.resolverProfilePictureDataURL = &profilePictureDataURL
	t.resolvedOnMsecs = &resolvedOnMsecs
}

// TaskID returns the identifier a bounce-rate task for the given exploration
// version and state carries. IDs are deterministic so collaborators can
// address a task without holding a reference to it.
func TaskID(explorationID string, explorationVersion int, stateName string) string {
	return fmt.Sprintf("%s.%s.%d.%s.%s.%s",
		domain.EntityExploration, explorationID, explorationVersion,
		domain.TaskHighBounceRate, domain.TargetState, stateName)
}

// ID returns the deterministic composite identifier for this task, unique
// per exploration version and target state.
func (t *Task) ID() string {
	return TaskID(t.entityID, t.entityVersion, t.targetID)
}

// EntityType returns the kind of entity the task is attached to
func (t *Task) EntityType() domain.EntityType {
	return t.entityType
}

// EntityID returns the exploration id the task was computed against
func (t *Task) EntityID() string {
	return t.entityID
}

// EntityVersion returns the exploration version the task was computed against
func (t *Task) EntityVersion() int {
	return t.entityVersion
}

// TaskType returns the kind of problem the task tracks
func (t *Task) TaskType() domain.TaskType {
	return t.taskType
}

// TargetType returns the kind of target the task points at
func (t *Task) TargetType() domain.TargetType {
	return t.targetType
}

// TargetID returns the name of the state the task concerns
func (t *Task) TargetID() string {
	return t.targetID
}

// Status returns the current lifecycle status
func (t *Task) Status() domain.Status {
	return t.status
}

// IssueDescription returns the rendered problem sentence
func (t *Task) IssueDescription() string {
	return t.issueDescription
}

// IssueDescriptionPercentage returns the rounded bounce-rate percentage the
// description was rendered from
func (t *Task) IssueDescriptionPercentage() int {
	return t.issueDescriptionPercentage
}

// ResolverUsername returns the resolver's username, or nil if unresolved
func (t *Task) ResolverUsername() *string {
	return t.resolverUsername
}

// ResolverProfilePictureDataURL returns the resolver's avatar data URL, or
// nil if unresolved
func (t *Task) ResolverProfilePictureDataURL() *string {
	return t.resolverProfilePictureDataURL
}

// ResolvedOnMsecs returns the resolution time in milliseconds since the
// epoch, or nil if unresolved
func (t *Task) ResolvedOnMsecs() *int64 {
	return t.resolvedOnMsecs
}
