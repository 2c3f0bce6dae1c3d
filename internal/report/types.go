package report

import "time"

// Finding flags one state with a high bounce rate
type Finding struct {
	TaskID     string `json:"task_id" yaml:"task_id"`
	TargetID   string `json:"target_id" yaml:"target_id"`
	Percentage int    `json:"percentage" yaml:"percentage"`
	Message    string `json:"message" yaml:"message"`
	Severity   string `json:"severity" yaml:"severity"` // error, warning
}

// Report is the result of one scan or refresh pass over an exploration
type Report struct {
	RunID              string    `json:"run_id" yaml:"run_id"`
	ExplorationID      string    `json:"exp_id" yaml:"exp_id"`
	ExplorationVersion int       `json:"exp_version" yaml:"exp_version"`
	Fingerprint        string    `json:"fingerprint" yaml:"fingerprint"`
	GeneratedAt        time.Time `json:"generated_at" yaml:"generated_at"`
	Findings           []Finding `json:"findings" yaml:"findings"`
	Summary            Summary   `json:"summary" yaml:"summary"`
}

// Summary provides aggregate statistics for a report
type Summary struct {
	EvaluatedStates int `json:"evaluated_states" yaml:"evaluated_states"`
	FlaggedStates   int `json:"flagged_states" yaml:"flagged_states"`
	OpenTasks       int `json:"open_tasks" yaml:"open_tasks"`
	ObsoleteTasks   int `json:"obsolete_tasks" yaml:"obsolete_tasks"`
	ResolvedTasks   int `json:"resolved_tasks" yaml:"resolved_tasks"`
	Errors          int `json:"errors" yaml:"errors"`
	Warnings        int `json:"warnings" yaml:"warnings"`
}

// HasFindings returns true if the report flagged at least one state
func (r *Report) HasFindings() bool {
	return len(r.Findings) > 0
}

// IsClean returns true if no state was flagged
func (r *Report) IsClean() bool {
	return len(r.Findings) == 0
}
