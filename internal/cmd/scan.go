package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/lumen/internal/registry"
	"github.com/felixgeelhaar/lumen/internal/report"
	"github.com/felixgeelhaar/lumen/internal/stats"
	"github.com/felixgeelhaar/lumen/internal/ux"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a statistics snapshot for high bounce-rate states",
	Long: `Evaluate the states of an exploration statistics snapshot and track a
task for every state where at least 100 learners arrived and at least 20% of
them dropped off.

By default every state in the snapshot is evaluated; --states restricts the
scan to the named states. The tracked tasks are written to the task file so
later runs of 'lumen refresh' and 'lumen tasks' can pick them up.

Exit codes:
  0 - No open bounce-rate issues
  4 - Open bounce-rate issues found`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	statsPath := flagOrDefault(cmd, "stats", cfg.Paths.Stats)
	outPath := flagOrDefault(cmd, "out", cfg.Paths.Tasks)

	if err := ux.ValidateRequiredFile(statsPath, "Statistics snapshot",
		"Export exploration statistics to "+statsPath+" or point --stats at an existing snapshot"); err != nil {
		return ux.EnhanceError(err)
	}

	snapshot, err := stats.LoadStats(statsPath)
	if err != nil {
		return ux.FormatError(err, "loading statistics snapshot")
	}

	stateNames, err := cmd.Flags().GetStringSlice("states")
	if err != nil {
		return err
	}
	if len(stateNames) == 0 {
		stateNames = snapshot.StateNames()
	}

	reg, err := registry.New(snapshot.ExplorationID, snapshot.ExplorationVersion, logger)
	if err != nil {
		return err
	}
	if _, err := reg.ScanAndTrack(snapshot, stateNames); err != nil {
		return ux.FormatError(err, "scanning snapshot")
	}

	rep, err := report.Build(reg, snapshot, len(stateNames))
	if err != nil {
		return ux.FormatError(err, "building report")
	}

	if err := ux.Render(os.Stdout, cfg.Output.Format, rep); err != nil {
		return err
	}

	if err := registry.SaveTaskFile(reg, outPath); err != nil {
		return ux.FormatError(err, "writing task file")
	}
	logger.Info("task file written", "path", outPath, "tasks", reg.Len())

	if saveReport, _ := cmd.Flags().GetBool("save-report"); saveReport {
		reportPath, err := saveReportFile(rep)
		if err != nil {
			return ux.FormatError(err, "saving report")
		}
		logger.Info("report saved", "path", reportPath)
	}

	if open := len(rep.Findings); open > 0 {
		return fmt.Errorf("open bounce-rate issues found: %d", open)
	}
	return nil
}

// saveReportFile writes the report as timestamped JSON under the configured
// reports directory and returns the path.
func saveReportFile(rep *report.Report) (string, error) {
	if err := os.MkdirAll(cfg.Paths.Reports, 0755); err != nil {
		return "", fmt.Errorf("creating reports directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	path := filepath.Join(cfg.Paths.Reports, fmt.Sprintf("scan-%s.json", timestamp))

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().String("stats", "", "statistics snapshot file (default from config)")
	scanCmd.Flags().StringSlice("states", nil, "states to evaluate (default: every state in the snapshot)")
	scanCmd.Flags().String("out", "", "task file to write (default from config)")
	scanCmd.Flags().Bool("save-report", false, "save the report under the reports directory")
}
