package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/lumen/internal/domain"
	"github.com/felixgeelhaar/lumen/internal/registry"
	"github.com/felixgeelhaar/lumen/internal/stats"
	"github.com/felixgeelhaar/lumen/internal/ux"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-evaluate tracked tasks against fresh statistics",
	Long: `Load the tracked tasks and re-evaluate each one against a statistics
snapshot. Open tasks whose state no longer qualifies become obsolete and drop
out of the task file; states that newly qualify, or qualify again after an
earlier recovery, are tracked as fresh open tasks with a current drop-off
percentage. Resolved tasks are never reopened.

A snapshot identical to the one already reflected in the task file is
skipped.`,
	RunE: runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	statsPath := flagOrDefault(cmd, "stats", cfg.Paths.Stats)
	tasksPath := flagOrDefault(cmd, "tasks", cfg.Paths.Tasks)
	outPath := flagOrDefault(cmd, "out", tasksPath)

	if err := ux.ValidateRequiredFile(statsPath, "Statistics snapshot",
		"Export exploration statistics to "+statsPath+" or point --stats at an existing snapshot"); err != nil {
		return ux.EnhanceError(err)
	}
	if err := ux.ValidateRequiredFile(tasksPath, "Task file",
		"Run 'lumen scan' to create it"); err != nil {
		return ux.EnhanceError(err)
	}

	snapshot, err := stats.LoadStats(statsPath)
	if err != nil {
		return ux.FormatError(err, "loading statistics snapshot")
	}

	file, err := registry.LoadTaskFile(tasksPath)
	if err != nil {
		return ux.FormatError(err, "loading task file")
	}
	reg, err := registry.NewFromFile(file, logger)
	if err != nil {
		return ux.FormatError(err, "loading task file")
	}

	res, err := reg.RefreshAll(snapshot)
	if err != nil {
		return ux.FormatError(err, "refreshing tasks")
	}

	if res.Skipped {
		fmt.Println("Statistics unchanged since the last evaluation; task statuses kept")
		return nil
	}

	if err := registry.SaveTaskFile(reg, outPath); err != nil {
		return ux.FormatError(err, "writing task file")
	}

	fmt.Printf("Tasks: %d opened, %d obsoleted, %d unchanged, %d created\n",
		res.Opened, res.Obsoleted, res.Unchanged, res.Created)
	fmt.Printf("Open tasks: %d\n", len(reg.QueryByStatus(domain.StatusOpen)))
	fmt.Printf("Task file written: %s\n", outPath)
	return nil
}

func init() {
	rootCmd.AddCommand(refreshCmd)

	refreshCmd.Flags().String("stats", "", "statistics snapshot file (default from config)")
	refreshCmd.Flags().String("tasks", "", "task file to refresh (default from config)")
	refreshCmd.Flags().String("out", "", "task file to write (default: same as --tasks)")
}
