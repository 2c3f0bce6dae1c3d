// Package registry tracks the bounce-rate tasks derived for one exploration
// version and answers queries about them. It plays the role a task storage
// service plays upstream, kept fully in memory here; the task file in
// taskfile.go carries state between invocations.
package registry

import (
	"fmt"
	"sort"
	"time"

	"github.com/felixgeelhaar/lumen/internal/domain"
	"github.com/felixgeelhaar/lumen/internal/errors"
	"github.com/felixgeelhaar/lumen/internal/improvements"
	"github.com/felixgeelhaar/lumen/internal/log"
	"github.com/felixgeelhaar/lumen/internal/stats"
)

// Registry owns the tasks tracked for a single exploration version. Access is
// single-threaded; the owning caller serializes use.
type Registry struct {
	explorationID      string
	explorationVersion int

	tasks           map[string]*improvements.Task
	lastFingerprint string

	logger *log.Logger
	now    func() time.Time
}

// Resolver identifies the user closing out a task.
type Resolver struct {
	Username              string
	ProfilePictureDataURL string
}

// Refreshed summarizes one RefreshAll pass over the tracked tasks.
type Refreshed struct {
	Opened    int
	Obsoleted int
	Unchanged int
	Created   int
	Skipped   bool
}

// New creates an empty registry for one exploration version. A nil logger
// falls back to the default logger.
func New(explorationID string, explorationVersion int, logger *log.Logger) (*Registry, error) {
	if explorationID == "" {
		return nil, fmt.Errorf("exploration id must not be empty")
	}
	if explorationVersion < 1 {
		return nil, fmt.Errorf("exploration version must be >= 1, got %d", explorationVersion)
	}
	if logger == nil {
		logger = log.DefaultLogger()
	}

	return &Registry{
		explorationID:      explorationID,
		explorationVersion: explorationVersion,
		tasks:              make(map[string]*improvements.Task),
		logger:             logger,
		now:                time.Now,
	}, nil
}

// ExplorationID returns the exploration id this registry serves
func (r *Registry) ExplorationID() string {
	return r.explorationID
}

// ExplorationVersion returns the exploration version this registry serves
func (r *Registry) ExplorationVersion() int {
	return r.explorationVersion
}

// Len returns the number of tracked tasks
func (r *Registry) Len() int {
	return len(r.tasks)
}

// LastFingerprint returns the fingerprint of the last snapshot evaluated, or
// the empty string when no snapshot has been seen yet.
func (r *Registry) LastFingerprint() string {
	return r.lastFingerprint
}

func (r *Registry) checkSnapshot(snapshot *stats.ExplorationStats) error {
	if snapshot.ExplorationID != r.explorationID || snapshot.ExplorationVersion != r.explorationVersion {
		return errors.NewMismatchError(r.explorationID, r.explorationVersion,
			snapshot.ExplorationID, snapshot.ExplorationVersion)
	}
	return nil
}

// ScanAndTrack evaluates the named states, in order, against the snapshot and
// starts tracking a task for every state that qualifies. The returned slice
// matches stateNames in length and order, nil where no task applies. A target
// that is already tracked is refreshed against the snapshot instead of being
// recreated, so existing tasks keep their history.
func (r *Registry) ScanAndTrack(snapshot *stats.ExplorationStats, stateNames []string) ([]*improvements.Task, error) {
	if err := r.checkSnapshot(snapshot); err != nil {
		return nil, err
	}

	created := 0
	tasks := improvements.CreateFromExplorationStats(snapshot, stateNames)
	for i, task := range tasks {
		if task == nil {
			continue
		}

		id := task.ID()
		if existing, ok := r.tasks[id]; ok {
			if err := existing.RefreshStatus(snapshot); err != nil {
				return nil, err
			}
			tasks[i] = existing
			continue
		}

		r.tasks[id] = task
		created++
		r.logger.Debug("task created",
			"task_id", id,
			"percentage", task.IssueDescriptionPercentage())
	}

	fingerprint, err := stats.Fingerprint(snapshot)
	if err != nil {
		return nil, err
	}
	r.lastFingerprint = fingerprint

	r.logger.Info("scan complete",
		"exploration_id", r.explorationID,
		"exploration_version", r.explorationVersion,
		"evaluated", len(stateNames),
		"created", created,
		"tracked", len(r.tasks))
	return tasks, nil
}

// Get returns the tracked task with the given id.
func (r *Registry) Get(id string) (*improvements.Task, bool) {
	task, ok := r.tasks[id]
	return task, ok
}

// GetMulti returns the tasks for the given ids, preserving input order and
// holding nil where an id is not tracked.
func (r *Registry) GetMulti(ids []string) []*improvements.Task {
	tasks := make([]*improvements.Task, len(ids))
	for i, id := range ids {
		tasks[i] = r.tasks[id]
	}
	return tasks
}

// All returns every tracked task sorted by target state name.
func (r *Registry) All() []*improvements.Task {
	tasks := make([]*improvements.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].TargetID() < tasks[j].TargetID()
	})
	return tasks
}

// QueryByStatus returns the tracked tasks currently in the given status,
// sorted by target state name.
func (r *Registry) QueryByStatus(status domain.Status) []*improvements.Task {
	var tasks []*improvements.Task
	for _, task := range r.tasks {
		if task.Status() == status {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].TargetID() < tasks[j].TargetID()
	})
	return tasks
}

// OpenTargets returns the names of states with an open task, sorted.
func (r *Registry) OpenTargets() []string {
	var names []string
	for _, task := range r.tasks {
		if task.Status().IsOpen() {
			names = append(names, task.TargetID())
		}
	}
	sort.Strings(names)
	return names
}

// RefreshAll re-evaluates every tracked task against the snapshot and starts
// tracking any state in it that newly qualifies. A snapshot whose fingerprint
// matches the previous pass is skipped wholesale.
func (r *Registry) RefreshAll(snapshot *stats.ExplorationStats) (Refreshed, error) {
	if err := r.checkSnapshot(snapshot); err != nil {
		return Refreshed{}, err
	}

	fingerprint, err := stats.Fingerprint(snapshot)
	if err != nil {
		return Refreshed{}, err
	}
	if r.lastFingerprint != "" && fingerprint == r.lastFingerprint {
		r.logger.Debug("statistics unchanged, skipping refresh", "fingerprint", fingerprint)
		return Refreshed{Skipped: true}, nil
	}

	var refreshed Refreshed
	for _, task := range r.All() {
		before := task.Status()
		if err := task.RefreshStatus(snapshot); err != nil {
			return Refreshed{}, err
		}

		switch after := task.Status(); {
		case after == before:
			refreshed.Unchanged++
		case after.IsOpen():
			refreshed.Opened++
		case after.IsObsolete():
			refreshed.Obsoleted++
		}
	}

	for _, stateName := range snapshot.StateNames() {
		id := improvements.TaskID(r.explorationID, r.explorationVersion, stateName)
		if _, ok := r.tasks[id]; ok {
			continue
		}
		if !improvements.IsHighBounceRate(snapshot, stateName) {
			continue
		}

		r.tasks[id] = improvements.CreateFromExplorationStats(snapshot, []string{stateName})[0]
		refreshed.Created++
		r.logger.Debug("task created", "task_id", id)
	}

	r.lastFingerprint = fingerprint
	r.logger.Info("refresh complete",
		"opened", refreshed.Opened,
		"obsoleted", refreshed.Obsoleted,
		"unchanged", refreshed.Unchanged,
		"created", refreshed.Created)
	return refreshed, nil
}

// Resolve marks the identified task resolved and stamps the resolver's
// metadata on it. A resolved task keeps its original resolver, so resolving
// it a second time is an error.
func (r *Registry) Resolve(id string, resolver Resolver) error {
	if resolver.Username == "" {
		return errors.NewEmptyResolverError()
	}

	task, ok := r.tasks[id]
	if !ok {
		return errors.NewTaskUnknownError(id)
	}
	if task.Status().IsResolved() {
		return errors.NewAlreadyResolvedError(id)
	}

	task.SetResolverMetadata(resolver.Username, resolver.ProfilePictureDataURL, r.now().UnixMilli())
	task.Resolve()

	r.logger.Info("task resolved", "task_id", id, "resolver", resolver.Username)
	return nil
}

// LoadRecords seeds the registry from stored task records. The whole batch is
// validated before any task is added; records for a different exploration
// version fail with a MismatchError.
func (r *Registry) LoadRecords(records []improvements.TaskRecord) error {
	loaded := make([]*improvements.Task, 0, len(records))
	for _, record := range records {
		task, err := improvements.TaskFromRecord(record)
		if err != nil {
			return err
		}
		if task.EntityID() != r.explorationID || task.EntityVersion() != r.explorationVersion {
			return errors.NewMismatchError(r.explorationID, r.explorationVersion,
				task.EntityID(), task.EntityVersion())
		}
		loaded = append(loaded, task)
	}

	for _, task := range loaded {
		r.tasks[task.ID()] = task
	}
	r.logger.Debug("records loaded", "count", len(loaded), "tracked", len(r.tasks))
	return nil
}

// StorableRecords returns records for every task in a storable status, sorted
// by target state name. Obsolete tasks are live re-derivations and are never
// exported.
func (r *Registry) StorableRecords() []improvements.TaskRecord {
	var records []improvements.TaskRecord
	for _, task := range r.All() {
		if !task.Status().IsStorable() {
			continue
		}
		records = append(records, task.ToRecord())
	}
	return records
}
