package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/flow/internal/history"
	"github.com/alexisbeaulieu97/flow/internal/render"
	"github.com/alexisbeaulieu97/flow/pkg/events"
	"github.com/alexisbeaulieu97/flow/pkg/flow"
	"github.com/alexisbeaulieu97/flow/pkg/metrics"
)

type runOptions struct {
	dryRun    bool
	fullTrace bool
	metrics   bool
	diff      bool
}

func newRunCmd(root *rootFlags) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <id> [key=value...]",
		Short: "Run a registered workflow",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, root)
			if err != nil {
				return err
			}
			return runWorkflow(cmd, app, opts, args[0], args[1:])
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Describe the workflow instead of running it")
	cmd.Flags().BoolVar(&opts.fullTrace, "full-trace", false, "Print every visited node and variable on failure")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Print collected metrics after the run")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "Print how the run changed the input variables")

	return cmd
}

func runWorkflow(cmd *cobra.Command, app *appContext, opts *runOptions, id string, args []string) error {
	node, err := resolveNode("run", id)
	if err != nil {
		return err
	}

	overrides, err := parseVars(args)
	if err != nil {
		return newCommandError("run", id, err, "Pass variables as key=value.")
	}
	vars := maps.Clone(app.settings.Variables)
	if vars == nil {
		vars = make(map[string]any, len(overrides))
	}
	maps.Copy(vars, overrides)
	app.log.Debug(fmt.Sprintf("resolved %s with %d variable(s)", id, len(vars)))

	out := cmd.OutOrStdout()
	if opts.dryRun {
		fmt.Fprintf(out, "Dry run of %s with %d variable(s)\n", id, len(vars))
		fmt.Fprint(out, render.Description(node, app.theme()))
		return nil
	}

	bus := events.NewBus(app.log)
	var completed atomic.Int64
	bus.Subscribe(events.NodeCompleted, func(context.Context, events.Event) error {
		completed.Add(1)
		return nil
	})

	options := []flow.Option{
		flow.WithContext(cmd.Context()),
		flow.WithEvents(bus),
		flow.WithLogger(app.log),
		flow.WithWorkers(app.settings.Parallel.Workers),
		flow.WithVariables(vars),
	}
	var registry *prometheus.Registry
	if opts.metrics || app.settings.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		options = append(options, flow.WithMetrics(metrics.New(registry)))
	}

	c := flow.NewContext(options...)
	started := time.Now()
	if wf, ok := node.(*flow.Workflow); ok {
		err = wf.ExecuteContext(c)
	} else {
		err = flow.Run(c, node)
	}
	elapsed := time.Since(started)

	if recordErr := recordRun(app, c, id, started, elapsed, err); recordErr != nil {
		app.log.Warn(fmt.Sprintf("unable to record run: %v", recordErr))
	}

	words := app.settings.Trace.SensitiveWords
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), render.Trace(c.FlowTrace(), render.Options{
			Theme:          app.theme(),
			SensitiveWords: words,
			Full:           opts.fullTrace || app.settings.Trace.Full,
		}))
		return err
	}

	fmt.Fprintf(out, "Completed %s in %s (%d nodes)\n", node.Name(), elapsed.Round(time.Millisecond), completed.Load())
	if opts.diff {
		fmt.Fprint(out, render.VarsDiff(inputVars(vars), c.State().Vars(), render.Options{Theme: app.theme(), SensitiveWords: words}))
	} else {
		for _, v := range render.MaskVars(c.State().Vars(), words) {
			fmt.Fprintf(out, "  %s = %v\n", v.Name, v.Value)
		}
	}
	if registry != nil {
		return writeMetrics(out, registry)
	}
	return nil
}

func inputVars(vars map[string]any) []flow.Var {
	return lo.MapToSlice(vars, func(name string, value any) flow.Var {
		return flow.Var{Name: name, Value: value}
	})
}

func recordRun(app *appContext, c *flow.Context, id string, started time.Time, elapsed time.Duration, runErr error) error {
	if app.settings.History.Path == "" {
		return nil
	}
	store, err := history.NewStore(app.settings.History.Path, app.settings.History.Limit)
	if err != nil {
		return err
	}

	run := history.Run{
		ID:        c.RunID(),
		Workflow:  id,
		Status:    history.StatusCompleted,
		StartedAt: started.UTC(),
		Duration:  elapsed,
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.Error = runErr.Error()
		run.FailurePath = c.FlowTrace().Path()
	}
	return store.Record(run)
}

// writeMetrics prints every collected sample as "name{labels} value".
func writeMetrics(w io.Writer, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Metrics:")
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := lo.Map(metric.GetLabel(), func(pair *dto.LabelPair, _ int) string {
				return pair.GetName() + "=" + pair.GetValue()
			})
			sort.Strings(labels)

			name := family.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}

			switch {
			case metric.GetCounter() != nil:
				fmt.Fprintf(w, "  %s %g\n", name, metric.GetCounter().GetValue())
			case metric.GetGauge() != nil:
				fmt.Fprintf(w, "  %s %g\n", name, metric.GetGauge().GetValue())
			case metric.GetHistogram() != nil:
				fmt.Fprintf(w, "  %s count=%d sum=%g\n", name, metric.GetHistogram().GetSampleCount(), metric.GetHistogram().GetSampleSum())
			}
		}
	}
	return nil
}
