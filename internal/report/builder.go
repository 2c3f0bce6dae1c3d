// Package report assembles the externally visible result of a scan or
// refresh pass: one finding per open task, graded by how severe the drop-off
// is, plus aggregate counts.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/lumen/internal/domain"
	"github.com/felixgeelhaar/lumen/internal/registry"
	"github.com/felixgeelhaar/lumen/internal/stats"
)

// severityFloorPercentage is the drop-off percentage at or above which a
// finding is graded error instead of warning. Grading is presentation only;
// whether a task exists at all is decided by the improvements package.
const severityFloorPercentage = 50

// Build assembles a report from the registry's current tasks and the
// snapshot they were last evaluated against. evaluatedStates is the number
// of states the caller asked to have checked.
func Build(reg *registry.Registry, snapshot *stats.ExplorationStats, evaluatedStates int) (*Report, error) {
	fingerprint, err := stats.Fingerprint(snapshot)
	if err != nil {
		return nil, err
	}

	open := reg.QueryByStatus(domain.StatusOpen)
	summary := Summary{
		EvaluatedStates: evaluatedStates,
		FlaggedStates:   len(open),
		OpenTasks:       len(open),
		ObsoleteTasks:   len(reg.QueryByStatus(domain.StatusObsolete)),
		ResolvedTasks:   len(reg.QueryByStatus(domain.StatusResolved)),
	}

	findings := make([]Finding, 0, len(open))
	for _, task := range open {
		severity := "warning"
		if task.IssueDescriptionPercentage() >= severityFloorPercentage {
			severity = "error"
		}

		findings = append(findings, Finding{
			TaskID:     task.ID(),
			TargetID:   task.TargetID(),
			Percentage: task.IssueDescriptionPercentage(),
			Message:    task.IssueDescription(),
			Severity:   severity,
		})

		switch severity {
		case "error":
			summary.Errors++
		case "warning":
			summary.Warnings++
		}
	}

	return &Report{
		RunID:              uuid.New().String(),
		ExplorationID:      reg.ExplorationID(),
		ExplorationVersion: reg.ExplorationVersion(),
		Fingerprint:        fingerprint,
		GeneratedAt:        time.Now().UTC(),
		Findings:           findings,
		Summary:            summary,
	}, nil
}
