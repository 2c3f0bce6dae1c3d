package stats

import (
	"fmt"
	"strings"
)

// Validate checks if the snapshot is internally consistent.
// Zero counts are valid everywhere; a snapshot with no per-state data at all
// is still a usable (empty) snapshot.
func (s *ExplorationStats) Validate() error {
	if strings.TrimSpace(s.ExplorationID) == "" {
		return fmt.Errorf("exploration id cannot be empty")
	}

	if s.ExplorationVersion < 1 {
		return fmt.Errorf("exploration version must be >= 1, got %d", s.ExplorationVersion)
	}

	if s.NumStarts < 0 {
		return fmt.Errorf("num_starts cannot be negative, got %d", s.NumStarts)
	}

	if s.NumActualStarts < 0 {
		return fmt.Errorf("num_actual_starts cannot be negative, got %d", s.NumActualStarts)
	}

	if s.NumCompletions < 0 {
		return fmt.Errorf("num_completions cannot be negative, got %d", s.NumCompletions)
	}

	for name, st := range s.StateStats {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("state name cannot be empty")
		}
		if err := st.Validate(); err != nil {
			return fmt.Errorf("state %q has invalid stats: %w", name, err)
		}
	}

	return nil
}

// Validate checks if the per-state counters are internally consistent
func (st StateStats) Validate() error {
	counters := []struct {
		name  string
		value int
	}{
		{"total_answers_count", st.TotalAnswersCount},
		{"useful_feedback_count", st.UsefulFeedbackCount},
		{"total_hit_count", st.TotalHitCount},
		{"first_hit_count", st.FirstHitCount},
		{"num_times_solution_viewed", st.NumTimesSolutionViewed},
		{"num_completions", st.NumCompletions},
	}

	for _, c := range counters {
		if c.value < 0 {
			return fmt.Errorf("%s cannot be negative, got %d", c.name, c.value)
		}
	}

	if st.NumCompletions > st.TotalHitCount {
		return fmt.Errorf("num_completions (%d) cannot exceed total_hit_count (%d)",
			st.NumCompletions, st.TotalHitCount)
	}

	if st.FirstHitCount > st.TotalHitCount {
		return fmt.Errorf("first_hit_count (%d) cannot exceed total_hit_count (%d)",
			st.FirstHitCount, st.TotalHitCount)
	}

	return nil
}
