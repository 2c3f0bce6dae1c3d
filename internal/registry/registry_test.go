package registry

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/lumen/internal/domain"
	"github.com/felixgeelhaar/lumen/internal/errors"
	"github.com/felixgeelhaar/lumen/internal/improvements"
	"github.com/felixgeelhaar/lumen/internal/log"
	"github.com/felixgeelhaar/lumen/internal/stats"
)

func quietLogger() *log.Logger {
	return log.New(log.Config{
		Level:  log.LevelError,
		Format: log.FormatJSON,
		Output: log.NewOutput(io.Discard),
	})
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	r, err := New("eid", 1, quietLogger())
	require.NoError(t, err)
	return r
}

func testSnapshot(states map[string]stats.StateStats) *stats.ExplorationStats {
	return &stats.ExplorationStats{
		ExplorationID:      "eid",
		ExplorationVersion: 1,
		StateStats:         states,
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New("", 1, quietLogger())
	assert.Error(t, err)

	_, err = New("eid", 0, quietLogger())
	assert.Error(t, err)

	r, err := New("eid", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "eid", r.ExplorationID())
	assert.Equal(t, 1, r.ExplorationVersion())
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ScanAndTrack(t *testing.T) {
	r := testRegistry(t)
	snapshot := testSnapshot(map[string]stats.StateStats{
		"Introduction": {TotalHitCount: 200, NumCompletions: 100},
		"Middle":       {TotalHitCount: 200, NumCompletions: 190},
		"End":          {TotalHitCount: 150, NumCompletions: 30},
	})

	tasks, err := r.ScanAndTrack(snapshot, []string{"Introduction", "Middle", "NeverVisited", "End"})
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	assert.NotNil(t, tasks[0], "Introduction should qualify")
	assert.Nil(t, tasks[1], "Middle is below the rate threshold")
	assert.Nil(t, tasks[2], "an unvisited state never qualifies")
	assert.NotNil(t, tasks[3], "End should qualify")

	assert.Equal(t, 2, r.Len())

	tracked, ok := r.Get(improvements.TaskID("eid", 1, "Introduction"))
	require.True(t, ok)
	assert.Equal(t, "Introduction", tracked.TargetID())
	assert.Equal(t, domain.StatusOpen, tracked.Status())
}

func TestRegistry_ScanAndTrack_Mismatch(t *testing.T) {
	r := testRegistry(t)
	snapshot := &stats.ExplorationStats{
		ExplorationID:      "eid2",
		ExplorationVersion: 1,
		StateStats: map[string]stats.StateStats{
			"Introduction": {TotalHitCount: 200, NumCompletions: 100},
		},
	}

	_, err := r.ScanAndTrack(snapshot, []string{"Introduction"})
	require.Error(t, err)
	assert.True(t, errors.IsMismatch(err))
	assert.Equal(t, 0, r.Len(), "a mismatched snapshot must not register tasks")
}

func TestRegistry_ScanAndTrack_ExistingTaskRefreshed(t *testing.T) {
	r := testRegistry(t)

	first, err := r.ScanAndTrack(testSnapshot(map[string]stats.StateStats{
		"Introduction": {TotalHitCount: 200, NumCompletions: 100},
	}), []string{"Introduction"})
	require.NoError(t, err)
	require.NotNil(t, first[0])
	assert.Equal(t, 50, first[0].IssueDescriptionPercentage())

	// The rate worsens; the same task is refreshed, not replaced.
	second, err := r.ScanAndTrack(testSnapshot(map[string]stats.StateStats{
		"Introduction": {TotalHitCount: 200, NumCompletions: 40},
	}), []string{"Introduction"})
	require.NoError(t, err)
	require.NotNil(t, second[0])

	assert.Same(t, first[0], second[0])
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, domain.StatusOpen, second[0].Status())
	assert.Equal(t, 80, second[0].IssueDescriptionPercentage())
}

func TestRegistry_GetMulti(t *testing.T) {
	r := testRegistry(t)
	_, err := r.ScanAndTrack(testSnapshot(map[string]stats.StateStats{
		"Introduction": {TotalHitCount: 200, NumCompletions: 100},
		"End":          {TotalHitCount: 150, NumCompletions: 30},
	}), []string{"Introduction", "End"})
	require.NoError(t, err)

	ids := []string{
		improvements.TaskID("eid", 1, "End"),
		improvements.TaskID("eid", 1, "Unknown"),
		improvements.TaskID("eid", 1, "Introduction"),
	}
	tasks := r.GetMulti(ids)

	require.Len(t, tasks, 3)
	require.NotNil(t, tasks[0])
	assert.Equal(t, "End", tasks[0].TargetID())
	assert.Nil(t, tasks[1], "unknown ids map to nil in place")
	require.NotNil(t, tasks[2])
	assert.Equal(t, "Introduction", tasks[2].TargetID())
}

func TestRegistry_QueryByStatus(t *testing.T) {
	r := testRegistry(t)
	_, err := r.ScanAndTrack(testSnapshot(map[string]stats.StateStats{
		"Zebra":        {TotalHitCount: 200, NumCompletions: 100},
		"Introduction": {TotalHitCount: 200, NumCompletions: 100},
		"Middle":       {TotalHitCount: 200, NumCompletions: 100},
	}), []string{"Zebra", "Introduction", "Middle"})
	require.NoError(t, err)

	require.NoError(t, r.Resolve(improvements.TaskID("eid", 1, "Middle"), Resolver{Username: "maya"}))

	open := r.QueryByStatus(domain.StatusOpen)
	require.Len(t, open, 2)
	assert.Equal(t, "Introduction", open[0].TargetID(), "results are sorted by target")
	assert.Equal(t, "Zebra", open[1].TargetID())

	resolved := r.QueryByStatus(domain.StatusResolved)
	require.Len(t, resolved, 1)
	assert.Equal(t, "Middle", resolved[0].TargetID())

	assert.Empty(t, r.QueryByStatus(domain.StatusObsolete))
	assert.Equal(t, []string{"Introduction", "Zebra"}, r.OpenTargets())
}

func TestRegistry_RefreshAll(t *testing.T) {
	r := testRegistry(t)
	_, err := r.ScanAndTrack(testSnapshot(map[string]stats.StateStats{
		"Introduction": {TotalHitCount: 200, NumCompletions: 100},
		"End":          {TotalHitCount: 150, NumCompletions: 30},
	}), []string{"Introduction", "End"})
	require.NoError(t, err)

	// Introduction recovers, End stays bad, Middle newly qualifies.
	refreshed, err := r.RefreshAll(testSnapshot(map[string]stats.StateStats{
		"Introduction": {TotalHitCount: 400, NumCompletions: 390},
		"End":          {TotalHitCount: 300, NumCompletions: 60},
		"Middle":       {TotalHitCount: 120, NumCompletions: 30},
	}))
	require.NoError(t, err)

	assert.Equal(t, 1, refreshed.Obsoleted, "Introduction went obsolete")
	assert.Equal(t, 1, refreshed.Unchanged, "End stayed open")
	assert.Equal(t, 1, refreshed.Created, "Middle is newly tracked")
	assert.Equal(t, 0, refreshed.Opened)
	assert.False(t, refreshed.Skipped)
	assert.Equal(t, 3, r.Len())

	intro, ok := r.Get(improvements.TaskID("eid", 1, "Introduction"))
	require.True(t, ok)
	assert.Equal(t, domain.StatusObsolete, intro.Status())

	// Introduction degrades again: obsolete oscillates back to open.
	refreshed, err = r.RefreshAll(testSnapshot(map[string]stats.StateStats{
		"Introduction": {TotalHitCount: 500, NumCompletions: 100},
		"End":          {TotalHitCount: 300, NumCompletions: 60},
		"Middle":       {TotalHitCount: 120, NumCompletions: 30},
	}))
	require.NoError(t, err)

	assert.Equal(t, 1, refreshed.Opened)
	assert.Equal(t, 2, refreshed.Unchanged)
	assert.Equal(t, domain.StatusOpen, intro.Status())
	assert.Equal(t, 80, intro.IssueDescriptionPercentage())
}

func TestRegistry_RefreshAll_SkipsUnchangedSnapshot(t *testing.T) {
	r := testRegistry(t)
	snapshot := testSnapshot(map[string]stats.StateStats{
		"Introduction": {TotalHitCount: 200, NumCompletions: 100},
	})

	_, err := r.ScanAndTrack(snapshot, []string{"Introduction"})
	require.NoError(t, err)

	// Same counters in a fresh snapshot value: identical fingerprint.
	refreshed, err := r.RefreshAll(testSnapshot(map[string]stats.StateStats{
		"Introduction": {TotalHitCount: 200, NumCompletions: 100},
	}))
	require.NoError(t, err)
	assert.True(t, refreshed.Skipped)
	assert.Zero(t, refreshed.Opened+refreshed.Obsoleted+refreshed.Unchanged+refreshed.Created)
}

func TestRegistry_RefreshAll_Mismatch(t *testing.T) {
	r := testRegistry(t)
	_, err := r.RefreshAll(&stats.ExplorationStats{
		ExplorationID:      "eid",
		ExplorationVersion: 2,
	})
	require.Error(t, err)
	assert.True(t, errors.IsMismatch(err))
}

func TestRegistry_Resolve(t *testing.T) {
	r := testRegistry(t)
	resolvedAt := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return resolvedAt }

	_, err := r.ScanAndTrack(testSnapshot(map[string]stats.StateStats{
		"Introduction": {TotalHitCount: 200, NumCompletions: 100},
	}), []string{"Introduction"})
	require.NoError(t, err)

	id := improvements.TaskID("eid", 1, "Introduction")
	require.NoError(t, r.Resolve(id, Resolver{
		Username:              "maya",
		ProfilePictureDataURL: "data:image/png;base64,abc=",
	}))

	task, ok := r.Get(id)
	require.True(t, ok)
	assert.Equal(t, domain.StatusResolved, task.Status())
	require.NotNil(t, task.ResolverUsername())
	assert.Equal(t, "maya", *task.ResolverUsername())
	require.NotNil(t, task.ResolvedOnMsecs())
	assert.Equal(t, resolvedAt.UnixMilli(), *task.ResolvedOnMsecs())

	// Resolution is final; the original resolver is kept.
	err = r.Resolve(id, Resolver{Username: "noa"})
	require.Error(t, err)
	assert.Equal(t, "maya", *task.ResolverUsername())
}

func TestRegistry_Resolve_Guards(t *testing.T) {
	r := testRegistry(t)

	err := r.Resolve(improvements.TaskID("eid", 1, "Introduction"), Resolver{})
	assert.Error(t, err, "empty resolver username is rejected")

	err = r.Resolve(improvements.TaskID("eid", 1, "Introduction"), Resolver{Username: "maya"})
	assert.Error(t, err, "unknown task id is rejected")
}

func TestRegistry_Resolve_SurvivesRefresh(t *testing.T) {
	r := testRegistry(t)
	_, err := r.ScanAndTrack(testSnapshot(map[string]stats.StateStats{
		"Introduction": {TotalHitCount: 200, NumCompletions: 100},
	}), []string{"Introduction"})
	require.NoError(t, err)

	id := improvements.TaskID("eid", 1, "Introduction")
	require.NoError(t, r.Resolve(id, Resolver{Username: "maya"}))

	refreshed, err := r.RefreshAll(testSnapshot(map[string]stats.StateStats{
		"Introduction": {TotalHitCount: 400, NumCompletions: 20},
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed.Unchanged, "resolved tasks count as unchanged")

	task, _ := r.Get(id)
	assert.Equal(t, domain.StatusResolved, task.Status())
}

func TestRegistry_LoadRecords(t *testing.T) {
	r := testRegistry(t)
	username := "maya"

	records := []improvements.TaskRecord{
		{
			EntityType:       "exploration",
			EntityID:         "eid",
			EntityVersion:    1,
			TaskType:         "high_bounce_rate",
			TargetType:       "state",
			TargetID:         "Introduction",
			IssueDescription: "50% of learners had dropped off at this card.",
			Status:           "open",
		},
		{
			EntityType:       "exploration",
			EntityID:         "eid",
			EntityVersion:    1,
			TaskType:         "high_bounce_rate",
			TargetType:       "state",
			TargetID:         "End",
			IssueDescription: "80% of learners had dropped off at this card.",
			Status:           "resolved",
			ResolverUsername: &username,
		},
	}

	require.NoError(t, r.LoadRecords(records))
	assert.Equal(t, 2, r.Len())

	end, ok := r.Get(improvements.TaskID("eid", 1, "End"))
	require.True(t, ok)
	assert.Equal(t, domain.StatusResolved, end.Status())
}

func TestRegistry_LoadRecords_AllOrNothing(t *testing.T) {
	r := testRegistry(t)

	records := []improvements.TaskRecord{
		{
			EntityType:    "exploration",
			EntityID:      "eid",
			EntityVersion: 1,
			TaskType:      "high_bounce_rate",
			TargetType:    "state",
			TargetID:      "Introduction",
			Status:        "open",
		},
		{
			EntityType:    "exploration",
			EntityID:      "eid",
			EntityVersion: 2, // wrong version
			TaskType:      "high_bounce_rate",
			TargetType:    "state",
			TargetID:      "End",
			Status:        "open",
		},
	}

	err := r.LoadRecords(records)
	require.Error(t, err)
	assert.True(t, errors.IsMismatch(err))
	assert.Equal(t, 0, r.Len(), "a failed batch must not be partially applied")
}

func TestRegistry_StorableRecords(t *testing.T) {
	r := testRegistry(t)
	_, err := r.ScanAndTrack(testSnapshot(map[string]stats.StateStats{
		"Introduction": {TotalHitCount: 200, NumCompletions: 100},
		"End":          {TotalHitCount: 150, NumCompletions: 30},
		"Middle":       {TotalHitCount: 200, NumCompletions: 100},
	}), []string{"Introduction", "End", "Middle"})
	require.NoError(t, err)

	require.NoError(t, r.Resolve(improvements.TaskID("eid", 1, "End"), Resolver{Username: "maya"}))

	// Middle recovers and goes obsolete.
	_, err = r.RefreshAll(testSnapshot(map[string]stats.StateStats{
		"Introduction": {TotalHitCount: 200, NumCompletions: 100},
		"End":          {TotalHitCount: 150, NumCompletions: 30},
		"Middle":       {TotalHitCount: 400, NumCompletions: 398},
	}))
	require.NoError(t, err)

	records := r.StorableRecords()
	require.Len(t, records, 2, "obsolete tasks are not exported")
	assert.Equal(t, "End", records[0].TargetID)
	assert.Equal(t, "resolved", records[0].Status)
	assert.Equal(t, "Introduction", records[1].TargetID)
	assert.Equal(t, "open", records[1].Status)
}
