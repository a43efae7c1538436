package flow

import (
	"fmt"

	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
)

// CaptureErrorsNode runs nodes inside a nested scope and records their errors
// in a *List instead of propagating them.
type CaptureErrorsNode struct {
	target  string
	nodes   []Node
	tryAll  bool
	filters []ErrorMatcher
}

// CaptureErrors records errors raised by nodes into the list held by target,
// creating it in the current scope when undefined. Every node is tried by
// default.
func CaptureErrors(target string, nodes ...Node) *CaptureErrorsNode {
	if target == "" {
		panic(flowerrors.NewSetupError("CaptureErrors", "target variable is empty"))
	}
	return &CaptureErrorsNode{target: target, nodes: nodes, tryAll: true}
}

// Add appends nodes.
func (n *CaptureErrorsNode) Add(nodes ...Node) *CaptureErrorsNode {
	n.nodes = append(n.nodes, nodes...)
	return n
}

// TryAll controls whether the remaining nodes run after an error is captured.
func (n *CaptureErrorsNode) TryAll(tryAll bool) *CaptureErrorsNode {
	n.tryAll = tryAll
	return n
}

// Only restricts capture to matching errors; others propagate.
func (n *CaptureErrorsNode) Only(matchers ...ErrorMatcher) *CaptureErrorsNode {
	n.filters = append(n.filters, matchers...)
	return n
}

func (n *CaptureErrorsNode) Name() string {
	return fmt.Sprintf("Capture errors into `%s`", n.target)
}

func (n *CaptureErrorsNode) Branches() Branches {
	return sequence(n.nodes)
}

func (n *CaptureErrorsNode) Call(c *Context) error {
	c.Info("%s", n.Name())

	var errs *List
	value, ok := c.Lookup(n.target)
	switch {
	case !ok:
		errs = NewList()
		c.Set(n.target, errs)
	default:
		if errs, ok = asList(value); !ok {
			return flowerrors.NewVariableTypeError(n.Name(), n.target, "*flow.List", value)
		}
		if _, shared := value.(*List); !shared {
			c.Set(n.target, errs)
		}
	}

	return c.Scope(func() error {
		for _, node := range n.nodes {
			err := callNode(c, node)
			if err == nil {
				continue
			}
			if isFatal(err) || (len(n.filters) > 0 && !matchAny(n.filters, err)) {
				return err
			}
			errs.Append(err)
			c.metrics.CapturedError(n.Name())
			if !n.tryAll {
				break
			}
		}
		return nil
	})
}
