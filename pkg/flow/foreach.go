package flow

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
)

// ForEachNode runs its loop body once per element of a sequence variable, each
// time inside a fresh nested scope.
type ForEachNode struct {
	targets []string
	in      string
	nodes   []Node
}

// ForEach iterates over the variable in, binding each element to targets. A
// comma separated targets list unpacks each element into that many variables.
func ForEach(targets, in string) *ForEachNode {
	names := varList(targets)
	if len(names) == 0 {
		panic(flowerrors.NewSetupError("ForEach", "no target variables given"))
	}
	if in == "" {
		panic(flowerrors.NewSetupError("ForEach", "source variable is empty"))
	}
	return &ForEachNode{targets: names, in: in}
}

// Loop sets the loop body.
func (n *ForEachNode) Loop(nodes ...Node) *ForEachNode {
	n.nodes = nodes
	return n
}

func (n *ForEachNode) targetsName() string {
	quoted := lo.Map(n.targets, func(name string, _ int) string { return "`" + name + "`" })
	if len(quoted) == 1 {
		return quoted[0]
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

func (n *ForEachNode) Name() string {
	return fmt.Sprintf("For %s in `%s`", n.targetsName(), n.in)
}

func (n *ForEachNode) Branches() Branches {
	return Branches{{Label: "loop", Nodes: n.nodes}}
}

func (n *ForEachNode) Call(c *Context) error {
	c.Info("%s", n.Name())
	elements, err := sourceElements(c, n.Name(), n.in)
	if err != nil {
		return err
	}

	for _, element := range elements {
		bindings, err := bindElement(n.Name(), n.in, n.targets, element)
		if err != nil {
			return err
		}
		c.SetTraceArgs(bindings)
		c.Info("Next %s", n.targetsName())
		err = c.Scope(func() error {
			for _, name := range n.targets {
				c.Set(name, bindings[name])
			}
			return callNodes(c, n.nodes)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// bindElement maps element onto targets, unpacking it when there is more
// than one target.
func bindElement(node, in string, targets []string, element any) (map[string]any, error) {
	if len(targets) == 1 {
		return map[string]any{targets[0]: element}, nil
	}
	values, ok := iterate(element)
	if !ok || len(values) != len(targets) {
		return nil, flowerrors.NewRuntimeError(node, fmt.Sprintf(
			"value %v from %s cannot be unpacked into %d variables", element, in, len(targets)), nil)
	}
	bindings := make(map[string]any, len(targets))
	for i, name := range targets {
		bindings[name] = values[i]
	}
	return bindings, nil
}

// sourceElements resolves the iterable variable in.
func sourceElements(c *Context, node, in string) ([]any, error) {
	source, ok := c.Lookup(in)
	if !ok {
		return nil, flowerrors.NewRuntimeError(node, fmt.Sprintf("variable %s not found in context", in), nil)
	}
	elements, ok := iterate(source)
	if !ok {
		return nil, flowerrors.NewRuntimeError(node, fmt.Sprintf("variable %s is not iterable", in), nil)
	}
	return elements, nil
}
