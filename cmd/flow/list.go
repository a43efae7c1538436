package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/flow/pkg/flow"
)

type listOptions struct {
	jsonOutput bool
}

type listEntry struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type listJSONPayload struct {
	Count   int         `json:"count"`
	Entries []listEntry `json:"entries"`
}

func newListCmd() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered workflows and nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runList(cmd *cobra.Command, opts *listOptions) error {
	entries := lo.FilterMap(flow.Registered(), func(id string, _ int) (listEntry, bool) {
		node, err := flow.Resolve(id)
		if err != nil {
			return listEntry{}, false
		}
		return describeEntry(id, node), true
	})

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(listJSONPayload{Count: len(entries), Entries: entries})
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No workflows registered.")
		return nil
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tKIND\tNAME\tDESCRIPTION")
	for _, entry := range entries {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", entry.ID, entry.Kind, entry.Name, valueOrFallback(entry.Description, "-"))
	}
	return writer.Flush()
}

func describeEntry(id string, node flow.Node) listEntry {
	entry := listEntry{ID: id, Kind: "node", Name: node.Name()}
	if wf, ok := node.(*flow.Workflow); ok {
		entry.Kind = "workflow"
		entry.Description = wf.Description()
	}
	return entry
}

func valueOrFallback(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
