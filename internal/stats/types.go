package stats

import "sort"

// StateStats holds the aggregate playthrough counters recorded for one state
// of an exploration version.
type StateStats struct {
	TotalAnswersCount      int `json:"total_answers_count" yaml:"total_answers_count"`
	UsefulFeedbackCount    int `json:"useful_feedback_count" yaml:"useful_feedback_count"`
	TotalHitCount          int `json:"total_hit_count" yaml:"total_hit_count"`
	FirstHitCount          int `json:"first_hit_count" yaml:"first_hit_count"`
	NumTimesSolutionViewed int `json:"num_times_solution_viewed" yaml:"num_times_solution_viewed"`
	NumCompletions         int `json:"num_completions" yaml:"num_completions"`
}

// ExplorationStats is a snapshot of aggregate usage statistics for one
// exploration version. Snapshots are treated as immutable once loaded; all
// derivations read from them without modification.
type ExplorationStats struct {
	ExplorationID      string                `json:"exp_id" yaml:"exp_id"`
	ExplorationVersion int                   `json:"exp_version" yaml:"exp_version"`
	NumStarts          int                   `json:"num_starts" yaml:"num_starts"`
	NumActualStarts    int                   `json:"num_actual_starts" yaml:"num_actual_starts"`
	NumCompletions     int                   `json:"num_completions" yaml:"num_completions"`
	StateStats         map[string]StateStats `json:"state_stats_mapping" yaml:"state_stats_mapping"`
}

// TotalStarts returns the number of learners who reached the named state.
// States absent from the snapshot count as zero.
func (s *ExplorationStats) TotalStarts(stateName string) int {
	return s.StateStats[stateName].TotalHitCount
}

// Completions returns the number of learners who completed the named state.
// States absent from the snapshot count as zero.
func (s *ExplorationStats) Completions(stateName string) int {
	return s.StateStats[stateName].NumCompletions
}

// BounceRate returns the fraction of learners who reached the named state but
// did not complete it. A state with zero starts has a zero bounce rate.
func (s *ExplorationStats) BounceRate(stateName string) float64 {
	starts := s.TotalStarts(stateName)
	if starts == 0 {
		return 0
	}
	return 1 - float64(s.Completions(stateName))/float64(starts)
}

// HasState reports whether the snapshot carries counters for the named state
func (s *ExplorationStats) HasState(stateName string) bool {
	_, ok := s.StateStats[stateName]
	return ok
}

// StateNames returns the names of all states present in the snapshot, sorted
func (s *ExplorationStats) StateNames() []string {
	names := make([]string, 0, len(s.StateStats))
	for name := range s.StateStats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
