// Package samples registers the example workflows shipped with the flow
// command.
package samples

import (
	"strings"

	"github.com/samber/lo"

	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
	"github.com/alexisbeaulieu97/flow/pkg/flow"
)

// Registered ids.
const (
	RoundTripID   = "samples:round_trip"
	CaptureID     = "samples:capture_errors"
	WordLengthsID = "samples:word_lengths"
	MeasureWordID = "samples:measure_word"
	DispatchID    = "samples:dispatch"
	FallbackID    = "samples:fallback"
)

// Register adds every sample workflow and worker node to the flow registry.
func Register() error {
	entries := []struct {
		id   string
		node flow.Node
	}{
		{RoundTripID, RoundTrip()},
		{CaptureID, CaptureErrors()},
		{WordLengthsID, WordLengths()},
		{MeasureWordID, MeasureWord()},
		{DispatchID, Dispatch()},
		{FallbackID, Fallback()},
	}
	for _, entry := range entries {
		if err := flow.Register(entry.id, entry.node); err != nil {
			return err
		}
	}
	return nil
}

func addNumbers(a flow.Args) (int, error) {
	return flow.Arg[int](a, "a") + flow.Arg[int](a, "b"), nil
}

// RoundTrip adds two numbers, compares them and echoes a list of errors.
func RoundTrip() *flow.Workflow {
	return flow.NewWorkflow("Round trip").
		WithDescription("Adds a and b, compares them and collects each entry of errors into messages.").
		Nodes(
			flow.DefaultVar(flow.Vars{"a": 13, "b": 42, "errors": []any{"err1", "err2"}}),
			flow.Must(flow.NewStep1(addNumbers,
				flow.Inputs(flow.InOf[int]("a").Required(), flow.InOf[int]("b").Required()),
				flow.Outputs("t"))),
			flow.IfFunc(func(c *flow.Context) bool {
				a, _ := flow.LookupAs[int](c, "a")
				b, _ := flow.LookupAs[int](c, "b")
				return a < b
			}).
				True(flow.Append("messages", "smaller")).
				False(flow.Append("messages", "larger")),
		).
		ForEach("error", "errors",
			flow.LogMessage("{error}", "info"),
			flow.Append("messages", "{error}"),
		).
		Nodes(flow.LogMessage("t = {t}", "info"))
}

func addMessage(message string) flow.Node {
	return flow.Must(flow.NewStep(func(a flow.Args) error {
		flow.Arg[*flow.List](a, "messages").Append(a.Context().Format(message))
		return nil
	}, flow.Name("Add message"), flow.Inputs(flow.ContextArg(), flow.InOf[*flow.List]("messages").Required())))
}

// CaptureErrors collects step failures and replays them as messages.
func CaptureErrors() *flow.Workflow {
	return flow.NewWorkflow("Capture errors").
		WithDescription("Runs failing steps under CaptureErrors and turns every captured error into a message.").
		SetVars(flow.Vars{
			"messages": flow.ValueFunc(func(*flow.Context) any { return flow.NewList() }),
			"arg_1":    13,
			"arg_2":    42,
		}).
		Nodes(
			flow.Must(flow.NewStep1(func(a flow.Args) (int, error) {
				return flow.Arg[int](a, "arg_1") + flow.Arg[int](a, "arg_2"), nil
			}, flow.Name("Sum arguments"), flow.Inputs(flow.InOf[int]("arg_1"), flow.InOf[int]("arg_2")), flow.Outputs("arg_t"))),
			addMessage("single"),
			addMessage("{arg_t:03d}"),
		).
		CaptureErrors("errors", flow.Failed("Error A"), flow.Failed("Error B")).
		ForEach("error", "errors",
			flow.LogMessage("{error}", "info"),
			addMessage("{error}"),
		)
}

// MeasureWord is the worker node of WordLengths.
func MeasureWord() flow.Node {
	return flow.Must(flow.NewStep1(func(a flow.Args) (int, error) {
		return len([]rune(flow.Arg[string](a, "word"))), nil
	}, flow.Name("Measure word"), flow.Inputs(flow.InOf[string]("word").Required()), flow.Outputs("length")))
}

// WordLengths measures every word of text in parallel workers.
func WordLengths() *flow.Workflow {
	return flow.NewWorkflow("Word lengths").
		WithDescription("Splits text into words and measures each word in a parallel worker.").
		Nodes(
			flow.DefaultVar(flow.Vars{"text": "the quick brown fox jumps"}),
			flow.Must(flow.NewStep1(func(a flow.Args) ([]string, error) {
				return strings.Fields(flow.Arg[string](a, "text")), nil
			}, flow.Name("Split text"), flow.Inputs(flow.InOf[string]("text").Required()), flow.Outputs("words"))),
			flow.Map("word", "words").Loop(MeasureWordID).MergeVars(flow.Merge("length", flow.MergeAppend)),
			flow.Must(flow.NewStep2(func(a flow.Args) (int, int, error) {
				lengths := lo.Map(flow.Arg[*flow.List](a, "length").Items(), func(v any, _ int) int {
					n, _ := v.(int)
					return n
				})
				return lo.Sum(lengths), lo.Max(lengths), nil
			}, flow.Name("Summarise lengths"), flow.Inputs(flow.InOf[*flow.List]("length").Required()), flow.Outputs("total, longest"))),
			flow.LogMessage("{total} letters, longest word has {longest}", "info"),
		)
}

// Dispatch picks a branch from the mode variable.
func Dispatch() *flow.Workflow {
	return flow.NewWorkflow("Dispatch").
		WithDescription("Switches on mode: greet logs a greeting, fail raises a step failure, anything else warns.").
		Nodes(
			flow.DefaultVar(flow.Vars{"mode": "greet", "name": "world"}),
			flow.Switch("mode").
				Case("greet", flow.LogMessage("hello {name}", "info"), flow.SetVar(flow.Vars{"greeting": flow.ValueFunc(func(c *flow.Context) any {
					return c.Format("hello {name}")
				})})).
				Case("fail", flow.Failed("asked to fail as {name}")).
				Default(flow.LogMessage("unknown mode {mode}", "warn")),
		)
}

// Fallback tries a primary source before a secondary one and recovers from a
// flaky step.
func Fallback() *flow.Workflow {
	return flow.NewWorkflow("Fallback").
		WithDescription("Tries the primary source then the secondary one, and recovers from a failing fetch.").
		Nodes(
			flow.DefaultVar(flow.Vars{"primary_up": false, "secondary_up": true}),
			flow.TryUntil().
				Nodes(
					flow.Group(
						flow.If("primary_up").False(flow.Failed("primary unavailable")),
						flow.SetVar(flow.Vars{"source": "primary"}),
					).Named("Use primary"),
					flow.Group(
						flow.If("secondary_up").False(flow.Failed("secondary unavailable")),
						flow.SetVar(flow.Vars{"source": "secondary"}),
					).Named("Use secondary"),
				).
				Default(flow.Fatal("no source available")),
			flow.TryExcept(flow.Failed("fetch from {source} timed out")).
				Except(flow.On(flowerrors.ErrStepFailed),
					flow.LogMessage("recovered from {exception}", "warn"),
					flow.SetVar(flow.Vars{"recovered": true}),
				).
				Finally(flow.LogMessage("done with {source}", "info")),
		)
}
