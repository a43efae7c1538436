package flow

import (
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
	"github.com/alexisbeaulieu97/flow/pkg/events"
)

// Node is a unit of a workflow tree.
type Node interface {
	Name() string
	Call(c *Context) error
}

// Branch is a labelled list of child nodes. A sequence has a single branch
// with an empty label.
type Branch struct {
	Label string
	Nodes []Node
}

// Branches describes the children of a node. Nil means the node is a leaf.
type Branches []Branch

// Navigable is implemented by nodes that have children.
type Navigable interface {
	Node
	Branches() Branches
}

func sequence(nodes []Node) Branches {
	return Branches{{Nodes: nodes}}
}

type funcNode struct {
	name string
	fn   func(c *Context) error
}

// Func adapts fn into a leaf node.
func Func(name string, fn func(c *Context) error) Node {
	if fn == nil {
		panic(flowerrors.NewSetupError(name, "function is nil"))
	}
	return &funcNode{name: name, fn: fn}
}

func (n *funcNode) Name() string {
	return n.name
}

func (n *funcNode) Call(c *Context) error {
	return n.fn(c)
}

// callNode runs node with tracing, spans and metrics. The first failure
// captures the flow trace.
func callNode(c *Context, node Node) error {
	entry := c.trace(node)
	previous := c.current
	c.current = entry
	defer func() { c.current = previous }()

	parentCtx := c.ctx
	spanCtx, span := c.tracer.Start(parentCtx, node.Name(), trace.WithAttributes(
		attribute.String("flow.run_id", c.runID),
		attribute.Int("flow.depth", c.Depth()),
	))
	c.ctx = spanCtx
	defer func() { c.ctx = parentCtx }()
	defer span.End()

	c.publish(events.NodeStarted, node.Name(), nil)
	start := time.Now()
	err := node.Call(c)

	switch {
	case err != nil:
		entry.Status = StatusFailed
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.CaptureTrace(false)
		c.publish(events.NodeFailed, node.Name(), err)
	case entry.Status == StatusRunning:
		entry.Status = StatusCompleted
		c.publish(events.NodeCompleted, node.Name(), nil)
	default:
		c.publish(events.NodeSkipped, node.Name(), nil)
	}
	span.SetAttributes(attribute.String("flow.status", entry.Status.String()))
	c.metrics.ObserveNode(node.Name(), entry.Status.String(), time.Since(start))
	return err
}

// Run calls node in the current scope of c, recording it in the trace like any
// nested node.
func Run(c *Context, node Node) error {
	return callNode(c, node)
}

func callNodes(c *Context, nodes []Node) error {
	for _, node := range nodes {
		if err := callNode(c, node); err != nil {
			return err
		}
	}
	return nil
}

func isFatal(err error) bool {
	return errors.Is(err, flowerrors.ErrFatal)
}
