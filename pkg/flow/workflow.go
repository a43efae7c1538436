package flow

import "github.com/alexisbeaulieu97/flow/pkg/events"

// Workflow is a named sequence of nodes and the entry point for execution.
// Used as a node inside another workflow it runs in a nested scope.
type Workflow struct {
	name        string
	description string
	nodes       []Node
}

// NewWorkflow creates an empty workflow.
func NewWorkflow(name string) *Workflow {
	return &Workflow{name: name}
}

// WithDescription sets the workflow description.
func (w *Workflow) WithDescription(description string) *Workflow {
	w.description = description
	return w
}

// Description returns the workflow description.
func (w *Workflow) Description() string {
	return w.description
}

// Nodes appends nodes to the workflow.
func (w *Workflow) Nodes(nodes ...Node) *Workflow {
	w.nodes = append(w.nodes, nodes...)
	return w
}

// Nested appends nodes that run in their own scope.
func (w *Workflow) Nested(nodes ...Node) *Workflow {
	w.nodes = append(w.nodes, Nodes(nodes...))
	return w
}

// SetVars appends a SetVar node.
func (w *Workflow) SetVars(values Vars) *Workflow {
	w.nodes = append(w.nodes, SetVar(values))
	return w
}

// ForEach appends a ForEach loop over in running nodes.
func (w *Workflow) ForEach(targets, in string, nodes ...Node) *Workflow {
	w.nodes = append(w.nodes, ForEach(targets, in).Loop(nodes...))
	return w
}

// CaptureErrors appends a CaptureErrors block around nodes.
func (w *Workflow) CaptureErrors(target string, nodes ...Node) *Workflow {
	w.nodes = append(w.nodes, CaptureErrors(target, nodes...))
	return w
}

func (w *Workflow) Name() string {
	return w.name
}

func (w *Workflow) Branches() Branches {
	return sequence(w.nodes)
}

func (w *Workflow) Call(c *Context) error {
	c.Info("Workflow: `%s`", w.name)
	return c.Scope(func() error {
		return callNodes(c, w.nodes)
	})
}

// Execute runs the workflow in the root scope of a new context seeded with vars.
// The context is returned even on failure so the final state and the captured
// flow trace can be inspected.
func (w *Workflow) Execute(vars map[string]any, opts ...Option) (*Context, error) {
	c := NewContext(append([]Option{WithVariables(vars)}, opts...)...)
	return c, w.ExecuteContext(c)
}

// ExecuteContext runs the workflow in the current scope of c.
func (w *Workflow) ExecuteContext(c *Context) error {
	c.Info("Workflow: `%s`", w.name)
	c.publish(events.WorkflowStarted, w.name, nil)
	if err := callNodes(c, w.nodes); err != nil {
		c.publish(events.WorkflowFailed, w.name, err)
		return err
	}
	c.publish(events.WorkflowCompleted, w.name, nil)
	return nil
}
