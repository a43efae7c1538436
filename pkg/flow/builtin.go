package flow

import (
	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
)

// Failed returns a step that always fails with a step failure. The message may
// reference variables with {name}.
func Failed(message string) *Step {
	return Must(NewStep(func(a Args) error {
		return flowerrors.NewStepFailedError("", a.Context().Format(message))
	}, Name("Failed"), Inputs(ContextArg())))
}

// Fatal returns a step that always fails with a fatal error. The message may
// reference variables with {name}.
func Fatal(message string) *Step {
	return Must(NewStep(func(a Args) error {
		return flowerrors.NewFatalError("", a.Context().Format(message), nil)
	}, Name("Fatal"), Inputs(ContextArg())))
}

// SkipStep returns an error that makes the running step be skipped.
func SkipStep(message string) error {
	return flowerrors.NewSkip(message)
}

// Alias reads another variable, for use as a SetVar value.
func Alias(variable string) ValueFunc {
	return func(c *Context) any {
		value, _ := c.Lookup(variable)
		return value
	}
}
