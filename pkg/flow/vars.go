package flow

import (
	"sort"
	"strings"

	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
)

// ValueFunc computes a variable value from the running context.
type ValueFunc func(c *Context) any

// Vars maps variable names to values or ValueFuncs.
type Vars map[string]any

func (v Vars) names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (v Vars) resolve(c *Context, name string) any {
	if fn, ok := v[name].(ValueFunc); ok {
		return fn(c)
	}
	if fn, ok := v[name].(func(*Context) any); ok {
		return fn(c)
	}
	return v[name]
}

type setVarNode struct {
	values  Vars
	global  bool
	missing bool
}

// SetVar binds values in the current scope, in name order.
func SetVar(values Vars) Node {
	return &setVarNode{values: values}
}

// SetGlobalVar binds values in every scope on the stack.
func SetGlobalVar(values Vars) Node {
	return &setVarNode{values: values, global: true}
}

// DefaultVar binds values that are not already defined.
func DefaultVar(values Vars) Node {
	return &setVarNode{values: values, missing: true}
}

func (n *setVarNode) Name() string {
	names := strings.Join(n.values.names(), ", ")
	switch {
	case n.global:
		return "Set global value(s) for " + names
	case n.missing:
		return "Default value(s) for " + names
	}
	return "Set value(s) for " + names
}

func (n *setVarNode) Call(c *Context) error {
	for _, name := range n.values.names() {
		switch {
		case n.missing && c.Has(name):
			continue
		case n.global:
			c.state.SetGlobal(name, n.values.resolve(c, name))
		default:
			c.Set(name, n.values.resolve(c, name))
		}
	}
	return nil
}

type appendNode struct {
	target  string
	message string
}

// Append formats message and appends it to the *List held in target, creating
// the list when target is undefined. A plain slice in target is replaced by a
// *List holding its items.
func Append(target, message string) Node {
	return &appendNode{target: target, message: message}
}

func (n *appendNode) Name() string {
	return "Append " + quote(n.message) + " to " + n.target
}

func (n *appendNode) Call(c *Context) error {
	message := c.Format(n.message)
	value, ok := c.Lookup(n.target)
	if !ok {
		c.Set(n.target, NewList(message))
		return nil
	}
	list, ok := asList(value)
	if !ok {
		return flowerrors.NewVariableTypeError(n.Name(), n.target, "*flow.List", value)
	}
	list.Append(message)
	if _, shared := value.(*List); !shared {
		c.Set(n.target, list)
	}
	return nil
}

type logMessageNode struct {
	message string
	level   string
}

// LogMessage formats message and writes it to the log at level.
func LogMessage(message, level string) Node {
	if level == "" {
		level = "info"
	}
	return &logMessageNode{message: message, level: level}
}

func (n *logMessageNode) Name() string {
	return "Log Message " + quote(n.message)
}

func (n *logMessageNode) Call(c *Context) error {
	c.Log(n.level, c.Format(n.message))
	return nil
}

func quote(s string) string {
	return "'" + s + "'"
}
