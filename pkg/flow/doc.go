// Package flow is an in-process workflow engine.
//
// A workflow is a tree of nodes executed against a scoped variable state.
// Steps declare the variables they read and write; control-flow nodes
// (Conditional, Switch, ForEach, TryUntil, TryExcept, CaptureErrors and the
// parallel Map) compose steps into larger units. Nested constructs push a
// scope so their writes do not leak to the caller.
package flow
