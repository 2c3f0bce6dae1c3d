package report

import (
	"fmt"
	"strings"
	"time"
)

// String renders the report as human-readable terminal output.
func (r *Report) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Bounce-rate scan for exploration %s v%d\n", r.ExplorationID, r.ExplorationVersion)
	fmt.Fprintf(&b, "Run %s at %s\n\n", r.RunID, r.GeneratedAt.Format(time.RFC3339))

	if r.IsClean() {
		b.WriteString("✅ No states with a high bounce rate\n\n")
	} else {
		fmt.Fprintf(&b, "Flagged states (%d):\n", len(r.Findings))
		for _, f := range r.Findings {
			marker := "⚠️ "
			if f.Severity == "error" {
				marker = "❌"
			}
			fmt.Fprintf(&b, "  %s %s: %s\n", marker, f.TargetID, f.Message)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Summary: %d states evaluated, %d flagged (%d errors, %d warnings)\n",
		r.Summary.EvaluatedStates, r.Summary.FlaggedStates, r.Summary.Errors, r.Summary.Warnings)
	fmt.Fprintf(&b, "Tasks: %d open, %d obsolete, %d resolved\n",
		r.Summary.OpenTasks, r.Summary.ObsoleteTasks, r.Summary.ResolvedTasks)

	return b.String()
}
