package flow

import (
	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
)

// ConditionalNode runs one of two branches depending on a condition.
type ConditionalNode struct {
	condition   func(c *Context) bool
	description string
	trueNodes   []Node
	falseNodes  []Node
}

// If branches on the truthiness of the named variable. An undefined variable
// is false.
func If(variable string) *ConditionalNode {
	if variable == "" {
		panic(flowerrors.NewSetupError("Conditional branch", "condition variable is empty"))
	}
	return &ConditionalNode{
		description: variable,
		condition: func(c *Context) bool {
			value, _ := c.Lookup(variable)
			return Truthy(value)
		},
	}
}

// IfFunc branches on the result of condition.
func IfFunc(condition func(c *Context) bool) *ConditionalNode {
	if condition == nil {
		panic(flowerrors.NewSetupError("Conditional branch", "condition is nil"))
	}
	return &ConditionalNode{description: "func", condition: condition}
}

// True sets the nodes run when the condition holds.
func (n *ConditionalNode) True(nodes ...Node) *ConditionalNode {
	n.trueNodes = nodes
	return n
}

// False sets the nodes run when the condition does not hold.
func (n *ConditionalNode) False(nodes ...Node) *ConditionalNode {
	n.falseNodes = nodes
	return n
}

func (n *ConditionalNode) Name() string {
	return "Conditional branch"
}

func (n *ConditionalNode) Branches() Branches {
	return Branches{
		{Label: "true", Nodes: n.trueNodes},
		{Label: "false", Nodes: n.falseNodes},
	}
}

func (n *ConditionalNode) Call(c *Context) error {
	result := n.condition(c)
	c.SetTraceArgs(map[string]any{"condition": n.description, "result": result})
	if result {
		return callNodes(c, n.trueNodes)
	}
	return callNodes(c, n.falseNodes)
}
