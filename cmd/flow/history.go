package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/flow/internal/history"
)

func newHistoryCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "Show recorded workflow runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, root)
			if err != nil {
				return err
			}
			if app.settings.History.Path == "" {
				return newCommandError("show history", "history is disabled", fmt.Errorf("history.path is not set"), "Set history.path in the settings file.")
			}

			store, err := history.NewStore(app.settings.History.Path, app.settings.History.Limit)
			if err != nil {
				return newCommandError("show history", "loading "+app.settings.History.Path, err, "Check history file permissions and try again.")
			}

			workflow := ""
			if len(args) == 1 {
				workflow = args[0]
			}
			return renderHistory(cmd, store.List(workflow))
		},
	}

	return cmd
}

func renderHistory(cmd *cobra.Command, runs []history.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
		return nil
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "RUN\tWORKFLOW\tSTATUS\tSTARTED\tDURATION\tERROR")
	for i := len(runs) - 1; i >= 0; i-- {
		run := runs[i]
		fmt.Fprintf(writer, "%s\t%s\t%s %s\t%s\t%s\t%s\n",
			run.ID,
			run.Workflow,
			run.Status.Icon(),
			run.Status,
			run.StartedAt.Format(time.RFC3339),
			run.Duration.Round(time.Millisecond),
			valueOrFallback(run.Error, "-"),
		)
	}
	return writer.Flush()
}
