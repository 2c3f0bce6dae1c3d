package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/lumen/internal/improvements"
	"github.com/felixgeelhaar/lumen/internal/registry"
	"github.com/felixgeelhaar/lumen/internal/ux"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Inspect and manage tracked bounce-rate tasks",
	Long: `Work with the tasks stored in the task file.

Use 'lumen tasks list' to see what is tracked.
Use 'lumen tasks validate' to check stored records against the record contract.
Use 'lumen tasks resolve' to close out a task once the underlying issue is fixed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked tasks",
	Long: `Print the tasks stored in the task file, one line per task. The
--status flag narrows the listing to open or resolved tasks.`,
	RunE: runTasksList,
}

var tasksValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate stored task records",
	Long: `Parse every record in the task file through the record contract and
report each one that fails.

Exit codes:
  0 - All records valid
  3 - One or more records invalid`,
	RunE: runTasksValidate,
}

var tasksResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the task tracking a state",
	Long: `Mark the task tracking the given state resolved and stamp who resolved
it and when. Resolved tasks survive later refreshes untouched, whatever the
statistics say.

Examples:
  lumen tasks resolve --target Introduction --by alice
  lumen tasks resolve --target Introduction --by alice --avatar data:image/png;base64,...`,
	RunE: runTasksResolve,
}

func runTasksList(cmd *cobra.Command, args []string) error {
	tasksPath := flagOrDefault(cmd, "tasks", cfg.Paths.Tasks)
	if err := ux.ValidateRequiredFile(tasksPath, "Task file", "Run 'lumen scan' to create it"); err != nil {
		return ux.EnhanceError(err)
	}

	file, err := registry.LoadTaskFile(tasksPath)
	if err != nil {
		return ux.FormatError(err, "loading task file")
	}

	statusFilter, err := cmd.Flags().GetString("status")
	if err != nil {
		return err
	}

	records := file.Tasks
	if statusFilter != "" {
		var filtered []improvements.TaskRecord
		for _, record := range records {
			if record.Status == statusFilter {
				filtered = append(filtered, record)
			}
		}
		records = filtered
	}

	if cfg.Output.Format != ux.FormatText {
		return ux.Render(os.Stdout, cfg.Output.Format, records)
	}

	if len(records) == 0 {
		fmt.Printf("No tracked tasks in %s\n", tasksPath)
		return nil
	}

	fmt.Printf("Tasks for exploration %s v%d:\n\n", file.ExplorationID, file.ExplorationVersion)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "STATE\tSTATUS\tRESOLVED BY\tISSUE")
	for _, record := range records {
		resolvedBy := "-"
		if record.ResolverUsername != nil {
			resolvedBy = *record.ResolverUsername
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			record.TargetID, record.Status, resolvedBy, record.IssueDescription)
	}
	return w.Flush()
}

func runTasksValidate(cmd *cobra.Command, args []string) error {
	tasksPath := flagOrDefault(cmd, "tasks", cfg.Paths.Tasks)
	if err := ux.ValidateRequiredFile(tasksPath, "Task file", "Run 'lumen scan' to create it"); err != nil {
		return ux.EnhanceError(err)
	}

	file, err := registry.LoadTaskFile(tasksPath)
	if err != nil {
		return fmt.Errorf("task validation failed: %w", err)
	}

	invalid := 0
	for i, record := range file.Tasks {
		if _, err := improvements.TaskFromRecord(record); err != nil {
			fmt.Printf("❌ record %d (%s): %v\n", i, record.TargetID, err)
			invalid++
		}
	}

	if invalid > 0 {
		return fmt.Errorf("task validation failed: %d of %d records invalid", invalid, len(file.Tasks))
	}

	fmt.Printf("✅ All %d records valid\n", len(file.Tasks))
	return nil
}

func runTasksResolve(cmd *cobra.Command, args []string) error {
	tasksPath := flagOrDefault(cmd, "tasks", cfg.Paths.Tasks)
	outPath := flagOrDefault(cmd, "out", tasksPath)
	target := cmd.Flags().Lookup("target").Value.String()
	resolvedBy := cmd.Flags().Lookup("by").Value.String()
	avatar := cmd.Flags().Lookup("avatar").Value.String()

	if err := ux.ValidateRequiredFile(tasksPath, "Task file", "Run 'lumen scan' to create it"); err != nil {
		return ux.EnhanceError(err)
	}

	file, err := registry.LoadTaskFile(tasksPath)
	if err != nil {
		return ux.FormatError(err, "loading task file")
	}
	reg, err := registry.NewFromFile(file, logger)
	if err != nil {
		return ux.FormatError(err, "loading task file")
	}

	id := improvements.TaskID(reg.ExplorationID(), reg.ExplorationVersion(), target)
	if err := reg.Resolve(id, registry.Resolver{
		Username:              resolvedBy,
		ProfilePictureDataURL: avatar,
	}); err != nil {
		return err
	}

	if err := registry.SaveTaskFile(reg, outPath); err != nil {
		return ux.FormatError(err, "writing task file")
	}

	fmt.Printf("✅ Resolved bounce-rate task for state %q\n\n", target)
	fmt.Printf("Resolved by: %s\n", resolvedBy)
	fmt.Printf("Task file written: %s\n", outPath)
	return nil
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksValidateCmd)
	tasksCmd.AddCommand(tasksResolveCmd)

	tasksListCmd.Flags().String("tasks", "", "task file to read (default from config)")
	tasksListCmd.Flags().String("status", "", "only list tasks with this status (open or resolved)")

	tasksValidateCmd.Flags().String("tasks", "", "task file to validate (default from config)")

	tasksResolveCmd.Flags().String("tasks", "", "task file to update (default from config)")
	tasksResolveCmd.Flags().String("target", "", "state whose task to resolve")
	tasksResolveCmd.Flags().String("by", "", "username of the resolving user")
	tasksResolveCmd.Flags().String("avatar", "", "profile picture data URL of the resolving user")
	tasksResolveCmd.Flags().String("out", "", "task file to write (default: same as --tasks)")
	_ = tasksResolveCmd.MarkFlagRequired("target")
	_ = tasksResolveCmd.MarkFlagRequired("by")
}
