package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/flow/internal/render"
	"github.com/alexisbeaulieu97/flow/pkg/flow"
)

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <id>",
		Short: "Print the node tree of a registered workflow without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := resolveNode("describe", args[0])
			if err != nil {
				return err
			}
			if wf, ok := node.(*flow.Workflow); ok && wf.Description() != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", wf.Description())
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Description(node, render.ThemeFor(isTerminal(cmd.OutOrStdout()))))
			return nil
		},
	}

	return cmd
}
