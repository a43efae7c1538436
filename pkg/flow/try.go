package flow

import (
	"fmt"

	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
)

// ExceptionVar holds the error caught by a TryExcept handler.
const ExceptionVar = "exception"

// TryUntilNode runs candidates in order until one completes without a
// retryable error.
type TryUntilNode struct {
	retryable  []ErrorMatcher
	candidates []Node
	fallback   Node
}

// TryUntil creates a TryUntil node. With no matchers, step failures are
// retryable.
func TryUntil(retryable ...ErrorMatcher) *TryUntilNode {
	if len(retryable) == 0 {
		retryable = []ErrorMatcher{On(flowerrors.ErrStepFailed)}
	}
	return &TryUntilNode{retryable: retryable}
}

// Nodes sets the candidates.
func (n *TryUntilNode) Nodes(nodes ...Node) *TryUntilNode {
	n.candidates = nodes
	return n
}

// Default sets the node run when every candidate failed.
func (n *TryUntilNode) Default(node Node) *TryUntilNode {
	n.fallback = node
	return n
}

func (n *TryUntilNode) Name() string {
	names := make([]string, len(n.retryable))
	for i, m := range n.retryable {
		names[i] = m.String()
	}
	return "Try until a node does not raise " + flowerrors.HumanJoin(names, "or")
}

func (n *TryUntilNode) Branches() Branches {
	branches := Branches{{Label: "", Nodes: n.candidates}}
	if n.fallback != nil {
		branches = append(branches, Branch{Label: "default", Nodes: []Node{n.fallback}})
	}
	return branches
}

func (n *TryUntilNode) Call(c *Context) error {
	c.Info("%s", n.Name())

	var lastErr error
	for attempt, candidate := range n.candidates {
		err := callNode(c, candidate)
		if err == nil {
			c.SetTraceArgs(map[string]any{"attempts": attempt + 1})
			return nil
		}
		if isFatal(err) || !matchAny(n.retryable, err) {
			return err
		}
		c.metrics.Retry(n.Name())
		c.Warn("candidate %s failed: %v", candidate.Name(), err)
		lastErr = err
	}
	c.SetTraceArgs(map[string]any{"attempts": len(n.candidates)})

	if n.fallback != nil {
		return callNode(c, n.fallback)
	}
	return lastErr
}

type handler struct {
	matcher ErrorMatcher
	nodes   []Node
}

// TryExceptNode runs its body and dispatches errors to the first matching
// handler.
type TryExceptNode struct {
	nodes    []Node
	handlers []handler
	finally  []Node
}

// TryExcept creates a TryExcept node around nodes.
func TryExcept(nodes ...Node) *TryExceptNode {
	return &TryExceptNode{nodes: nodes}
}

// Except adds a handler. Handlers are tried in the order they were added.
// Fatal errors are only caught by a handler naming flowerrors.ErrFatal
// directly through On.
func (n *TryExceptNode) Except(matcher ErrorMatcher, nodes ...Node) *TryExceptNode {
	if matcher == nil {
		panic(flowerrors.NewSetupError("Try/Except", "matcher is nil"))
	}
	n.handlers = append(n.handlers, handler{matcher: matcher, nodes: nodes})
	return n
}

// Finally sets nodes that always run after the body and any handler.
func (n *TryExceptNode) Finally(nodes ...Node) *TryExceptNode {
	n.finally = nodes
	return n
}

func (n *TryExceptNode) Name() string {
	return "Try/Except"
}

func (n *TryExceptNode) Branches() Branches {
	branches := Branches{{Label: "", Nodes: n.nodes}}
	for _, h := range n.handlers {
		branches = append(branches, Branch{Label: fmt.Sprintf("except %s", h.matcher), Nodes: h.nodes})
	}
	if n.finally != nil {
		branches = append(branches, Branch{Label: "finally", Nodes: n.finally})
	}
	return branches
}

func (n *TryExceptNode) Call(c *Context) error {
	c.Info("%s", n.Name())
	err := n.body(c)
	if len(n.finally) > 0 {
		if finallyErr := callNodes(c, n.finally); finallyErr != nil {
			return finallyErr
		}
	}
	return err
}

func (n *TryExceptNode) body(c *Context) error {
	err := callNodes(c, n.nodes)
	if err == nil {
		return nil
	}
	h, ok := n.match(err)
	if !ok {
		return err
	}
	c.Info("caught %v", err)
	c.Set(ExceptionVar, err)
	return callNodes(c, h.nodes)
}

func (n *TryExceptNode) match(err error) (handler, bool) {
	fatal := isFatal(err)
	for _, h := range n.handlers {
		if fatal {
			if tm, ok := h.matcher.(targetMatcher); !ok || !tm.explicitlyFatal() {
				continue
			}
		}
		if h.matcher.Match(err) {
			return h, true
		}
	}
	return handler{}, false
}
