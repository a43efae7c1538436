package flow

// GroupNode runs a list of nodes in order.
type GroupNode struct {
	name     string
	nodes    []Node
	finally  []Node
	isolate  bool
	logLevel string
}

// Group runs nodes in the caller's scope, so their writes stay visible
// afterwards.
func Group(nodes ...Node) *GroupNode {
	return &GroupNode{name: "Group", nodes: nodes}
}

// Nodes runs nodes inside a nested scope whose writes are discarded.
func Nodes(nodes ...Node) *GroupNode {
	return &GroupNode{name: "Nodes", nodes: nodes, isolate: true}
}

// Named overrides the group name.
func (g *GroupNode) Named(name string) *GroupNode {
	g.name = name
	return g
}

// Add appends nodes to the group.
func (g *GroupNode) Add(nodes ...Node) *GroupNode {
	g.nodes = append(g.nodes, nodes...)
	return g
}

// Finally sets nodes that run after the group whether or not it failed. An
// error from these nodes replaces the group's error.
func (g *GroupNode) Finally(nodes ...Node) *GroupNode {
	g.finally = nodes
	return g
}

// LogLevel filters log output at level while the group runs.
func (g *GroupNode) LogLevel(level string) *GroupNode {
	g.logLevel = level
	return g
}

func (g *GroupNode) Name() string {
	return g.name
}

func (g *GroupNode) Branches() Branches {
	nodes := append(append([]Node(nil), g.nodes...), g.finally...)
	return sequence(nodes)
}

func (g *GroupNode) Call(c *Context) error {
	run := func() error {
		return c.withLogLevel(g.logLevel, func() error {
			return runWithFinally(c, g.nodes, g.finally)
		})
	}
	if g.isolate {
		return c.Scope(run)
	}
	return run()
}

func runWithFinally(c *Context, nodes, finally []Node) error {
	err := callNodes(c, nodes)
	if len(finally) > 0 {
		if finallyErr := callNodes(c, finally); finallyErr != nil {
			return finallyErr
		}
	}
	return err
}
