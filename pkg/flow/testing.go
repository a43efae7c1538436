package flow

// CallStep runs node against a fresh context seeded with vars and returns the
// context for inspection. It is intended for unit tests of individual steps.
func CallStep(node Node, vars map[string]any, opts ...Option) (*Context, error) {
	c := NewContext(append([]Option{WithVariables(vars)}, opts...)...)
	err := Run(c, node)
	return c, err
}
