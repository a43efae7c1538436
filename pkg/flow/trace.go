package flow

import (
	"maps"

	"github.com/alexisbeaulieu97/flow/pkg/metrics"
)

// Status is the lifecycle state of a visited node.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusCompleted
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return metrics.StatusCompleted
	case StatusFailed:
		return metrics.StatusFailed
	case StatusSkipped:
		return metrics.StatusSkipped
	}
	return "unknown"
}

// TraceEntry records one visit of a node within a scope.
type TraceEntry struct {
	Node   string
	Args   map[string]any
	Status Status
}

// TraceScope lists the nodes visited in one scope, in visit order.
type TraceScope struct {
	entries []*TraceEntry
}

func (t *TraceScope) add(node Node) *TraceEntry {
	entry := &TraceEntry{Node: node.Name(), Status: StatusRunning}
	t.entries = append(t.entries, entry)
	return entry
}

// Entries returns a copy of the recorded visits.
func (t *TraceScope) Entries() []TraceEntry {
	out := make([]TraceEntry, len(t.entries))
	for i, entry := range t.entries {
		out[i] = TraceEntry{Node: entry.Node, Args: maps.Clone(entry.Args), Status: entry.Status}
	}
	return out
}

// Len returns the number of visits.
func (t *TraceScope) Len() int {
	return len(t.entries)
}

// ScopeSnapshot is a frozen copy of one state frame.
type ScopeSnapshot struct {
	Vars  []Var
	Trace []TraceEntry
}

// Lookup returns the named variable from the snapshot.
func (s ScopeSnapshot) Lookup(name string) (any, bool) {
	for _, v := range s.Vars {
		if v.Name == name {
			return v.Value, true
		}
	}
	return nil, false
}

// FlowTrace is the state stack captured at the first failure, outermost scope
// first.
type FlowTrace struct {
	Scopes []ScopeSnapshot
}

// Path returns the last node visited in each scope, which is the path from the
// workflow root to the failing node.
func (t *FlowTrace) Path() []string {
	if t == nil {
		return nil
	}
	var out []string
	for _, scope := range t.Scopes {
		if n := len(scope.Trace); n > 0 {
			out = append(out, scope.Trace[n-1].Node)
		}
	}
	return out
}

func snapshot(frames []*frame) *FlowTrace {
	trace := &FlowTrace{Scopes: make([]ScopeSnapshot, len(frames))}
	for i, f := range frames {
		trace.Scopes[i] = ScopeSnapshot{Vars: frameVars(f), Trace: f.trace.Entries()}
	}
	return trace
}
