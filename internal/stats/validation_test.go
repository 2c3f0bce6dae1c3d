package stats

import (
	"strings"
	"testing"
)

func TestExplorationStats_Validate(t *testing.T) {
	tests := []struct {
		name        string
		snapshot    ExplorationStats
		wantErr     bool
		errContains string
	}{
		{
			name: "valid snapshot",
			snapshot: ExplorationStats{
				ExplorationID:      "eid",
				ExplorationVersion: 1,
				NumStarts:          250,
				NumActualStarts:    230,
				NumCompletions:     180,
				StateStats: map[string]StateStats{
					"Introduction": {TotalHitCount: 200, NumCompletions: 100},
				},
			},
			wantErr: false,
		},
		{
			name: "valid snapshot with no state data",
			snapshot: ExplorationStats{
				ExplorationID:      "eid",
				ExplorationVersion: 1,
			},
			wantErr: false,
		},
		{
			name: "empty exploration id",
			snapshot: ExplorationStats{
				ExplorationID:      "  ",
				ExplorationVersion: 1,
			},
			wantErr:     true,
			errContains: "exploration id cannot be empty",
		},
		{
			name: "version below one",
			snapshot: ExplorationStats{
				ExplorationID:      "eid",
				ExplorationVersion: 0,
			},
			wantErr:     true,
			errContains: "version must be >= 1",
		},
		{
			name: "negative aggregate starts",
			snapshot: ExplorationStats{
				ExplorationID:      "eid",
				ExplorationVersion: 1,
				NumStarts:          -5,
			},
			wantErr:     true,
			errContains: "num_starts cannot be negative",
		},
		{
			name: "negative state counter",
			snapshot: ExplorationStats{
				ExplorationID:      "eid",
				ExplorationVersion: 1,
				StateStats: map[string]StateStats{
					"Introduction": {TotalHitCount: -1},
				},
			},
			wantErr:     true,
			errContains: `state "Introduction" has invalid stats`,
		},
		{
			name: "completions exceed hits",
			snapshot: ExplorationStats{
				ExplorationID:      "eid",
				ExplorationVersion: 1,
				StateStats: map[string]StateStats{
					"Introduction": {TotalHitCount: 10, NumCompletions: 11},
				},
			},
			wantErr:     true,
			errContains: "cannot exceed total_hit_count",
		},
		{
			name: "empty state name",
			snapshot: ExplorationStats{
				ExplorationID:      "eid",
				ExplorationVersion: 1,
				StateStats: map[string]StateStats{
					" ": {TotalHitCount: 10},
				},
			},
			wantErr:     true,
			errContains: "state name cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snapshot.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.errContains)
			}
		})
	}
}

func TestStateStats_Validate(t *testing.T) {
	tests := []struct {
		name    string
		stats   StateStats
		wantErr bool
	}{
		{"all zero is valid", StateStats{}, false},
		{"typical counters", StateStats{TotalAnswersCount: 40, TotalHitCount: 100, FirstHitCount: 90, NumCompletions: 80}, false},
		{"negative answers", StateStats{TotalAnswersCount: -1}, true},
		{"negative solution views", StateStats{NumTimesSolutionViewed: -3}, true},
		{"first hits exceed total hits", StateStats{TotalHitCount: 5, FirstHitCount: 6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.stats.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
