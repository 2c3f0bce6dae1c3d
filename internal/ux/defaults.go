package ux

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathDefaults provides smart defaults for common file paths
type PathDefaults struct {
	LumenDir string
}

// NewPathDefaults creates a new PathDefaults with sensible defaults
func NewPathDefaults() *PathDefaults {
	return &PathDefaults{
		LumenDir: ".lumen",
	}
}

// StatsFile returns the default path to the statistics snapshot
func (pd *PathDefaults) StatsFile() string {
	return filepath.Join(pd.LumenDir, "stats.yaml")
}

// TasksFile returns the default path to the tracked task file
func (pd *PathDefaults) TasksFile() string {
	return filepath.Join(pd.LumenDir, "tasks.yaml")
}

// ReportDir returns the default directory for saved scan reports
func (pd *PathDefaults) ReportDir() string {
	return filepath.Join(pd.LumenDir, "reports")
}

// LogFile returns the default path for file logging
func (pd *PathDefaults) LogFile() string {
	return filepath.Join(pd.LumenDir, "lumen.log")
}

// ConfigFile returns the default path to the project configuration
func (pd *PathDefaults) ConfigFile() string {
	return filepath.Join(pd.LumenDir, "config.yaml")
}

// ValidateLumenSetup checks if the .lumen directory exists
func (pd *PathDefaults) ValidateLumenSetup() error {
	if _, err := os.Stat(pd.LumenDir); os.IsNotExist(err) {
		return fmt.Errorf(".lumen directory not found. Create it and export a statistics snapshot to %s", pd.StatsFile())
	}
	return nil
}

// ValidateRequiredFile checks if a required file exists and provides helpful error
func ValidateRequiredFile(path string, fileType string, creationHint string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%s not found at: %s\n\n%s", fileType, path, creationHint)
	} else if err != nil {
		return fmt.Errorf("error accessing %s: %w", path, err)
	}
	return nil
}

// SuggestNextSteps provides contextual next steps based on what exists
func SuggestNextSteps() string {
	defaults := NewPathDefaults()

	_, hasLumen := os.Stat(defaults.LumenDir)
	_, hasStats := os.Stat(defaults.StatsFile())
	_, hasTasks := os.Stat(defaults.TasksFile())

	if os.IsNotExist(hasLumen) {
		return fmt.Sprintf("Create %s and export a statistics snapshot to %s", defaults.LumenDir, defaults.StatsFile())
	}

	if os.IsNotExist(hasStats) {
		return fmt.Sprintf("Export a statistics snapshot to %s, then run 'lumen scan'", defaults.StatsFile())
	}

	if os.IsNotExist(hasTasks) {
		return "Run 'lumen scan' to detect states with a high bounce rate"
	}

	return "Run 'lumen refresh' to re-evaluate tracked tasks against fresh statistics"
}
