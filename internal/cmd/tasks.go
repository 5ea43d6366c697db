package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/upkeep/internal/command"
	"github.com/Iron-Ham/upkeep/internal/config"
	"github.com/Iron-Ham/upkeep/internal/task"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the maintenance tasks",
	Long: `List the maintenance tasks in report order with their phase.

Tasks matched by tasks.skip in the configuration are marked as skipped.`,
	Args: cobra.NoArgs,
	RunE: runTasks,
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}

func runTasks(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Nothing is executed; the runner only satisfies the task constructors.
	reg := task.Builtin(cfg, command.NewExecRunner(), afero.NewOsFs())
	return listTasks(cmd.OutOrStdout(), reg, cfg.Tasks.Skip)
}

// listTasks prints one line per task: name, phase, skipped flag and
// description.
func listTasks(w io.Writer, reg *task.Registry, skip []string) error {
	kept, err := reg.Without(skip)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%-12s %-11s %-8s %s\n", "NAME", "PHASE", "SKIPPED", "DESCRIPTION")
	for _, t := range reg.Tasks() {
		skipped := "no"
		if _, ok := kept.Lookup(t.Name); !ok {
			skipped = "yes"
		}
		fmt.Fprintf(w, "%-12s %-11s %-8s %s\n", t.Name, t.Phase, skipped, t.Description)
	}
	return nil
}
