package flow

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/samber/lo"

	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
)

// SwitchNode runs the branch whose key equals the switch value.
type SwitchNode struct {
	condition   func(c *Context) any
	description string
	keys        []any
	cases       map[any][]Node
	defaults    []Node
}

// Switch selects a branch by the value of the named variable.
func Switch(variable string) *SwitchNode {
	if variable == "" {
		panic(flowerrors.NewSetupError("Switch", "switch variable is empty"))
	}
	return &SwitchNode{
		description: variable,
		cases:       make(map[any][]Node),
		condition: func(c *Context) any {
			value, _ := c.Lookup(variable)
			return value
		},
	}
}

// SwitchFunc selects a branch by the value returned from condition.
func SwitchFunc(condition func(c *Context) any) *SwitchNode {
	if condition == nil {
		panic(flowerrors.NewSetupError("Switch", "condition is nil"))
	}
	return &SwitchNode{description: "func", cases: make(map[any][]Node), condition: condition}
}

// Case adds a branch for key. Keys must be comparable.
func (n *SwitchNode) Case(key any, nodes ...Node) *SwitchNode {
	if key == nil || !reflect.TypeOf(key).Comparable() {
		panic(flowerrors.NewSetupError("Switch", fmt.Sprintf("case key %v is not comparable", key)))
	}
	if _, exists := n.cases[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.cases[key] = nodes
	return n
}

// Default sets the branch run when no case matches.
func (n *SwitchNode) Default(nodes ...Node) *SwitchNode {
	n.defaults = nodes
	return n
}

func (n *SwitchNode) Name() string {
	return "Switch into " + strings.Join(lo.Map(n.keys, func(key any, _ int) string {
		return fmt.Sprint(key)
	}), ", ")
}

func (n *SwitchNode) Branches() Branches {
	branches := lo.Map(n.keys, func(key any, _ int) Branch {
		return Branch{Label: fmt.Sprint(key), Nodes: n.cases[key]}
	})
	if n.defaults != nil {
		branches = append(branches, Branch{Label: "*", Nodes: n.defaults})
	}
	return branches
}

func (n *SwitchNode) Call(c *Context) error {
	value := n.condition(c)
	c.SetTraceArgs(map[string]any{"condition": n.description, "value": value})

	if value != nil && reflect.TypeOf(value).Comparable() {
		if nodes, ok := n.cases[value]; ok {
			return callNodes(c, nodes)
		}
	}
	if n.defaults != nil {
		return callNodes(c, n.defaults)
	}
	c.Warn("no branch matched %v", value)
	return nil
}
