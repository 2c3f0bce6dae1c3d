package stats

import (
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"
)

// Canonicalize returns a canonical JSON representation of a snapshot for
// consistent hashing. encoding/json emits object keys in sorted order, so
// building the representation from maps yields a stable byte sequence
// regardless of how the snapshot was populated.
func Canonicalize(stats *ExplorationStats) ([]byte, error) {
	data := map[string]interface{}{
		"exp_id":            stats.ExplorationID,
		"exp_version":       stats.ExplorationVersion,
		"num_starts":        stats.NumStarts,
		"num_actual_starts": stats.NumActualStarts,
		"num_completions":   stats.NumCompletions,
	}

	if len(stats.StateStats) > 0 {
		states := make(map[string]interface{}, len(stats.StateStats))
		for name, st := range stats.StateStats {
			states[name] = map[string]interface{}{
				"total_answers_count":       st.TotalAnswersCount,
				"useful_feedback_count":     st.UsefulFeedbackCount,
				"total_hit_count":           st.TotalHitCount,
				"first_hit_count":           st.FirstHitCount,
				"num_times_solution_viewed": st.NumTimesSolutionViewed,
				"num_completions":           st.NumCompletions,
			}
		}
		data["state_stats_mapping"] = states
	}

	return json.Marshal(data)
}

// Fingerprint computes the blake3 hash of a canonicalized snapshot.
// Two snapshots with identical counters always produce the same fingerprint,
// which lets callers skip re-evaluating unchanged statistics.
func Fingerprint(stats *ExplorationStats) (string, error) {
	canonical, err := Canonicalize(stats)
	if err != nil {
		return "", fmt.Errorf("canonicalize stats: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash stats: %w", err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
