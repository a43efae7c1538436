package flow

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
)

type frame struct {
	vars  *orderedmap.OrderedMap[string, any]
	trace *TraceScope
}

func newFrame() *frame {
	return &frame{vars: orderedmap.New[string, any](), trace: &TraceScope{}}
}

func (f *frame) clone() *frame {
	next := newFrame()
	for pair := f.vars.Oldest(); pair != nil; pair = pair.Next() {
		next.vars.Set(pair.Key, pair.Value)
	}
	return next
}

// State is a stack of variable frames. Reads and writes target the top frame.
// Pushing copies the top frame so a child scope starts with its parent's
// variables and discards its own writes when popped.
type State struct {
	frames []*frame
}

// NewState creates a state with a single root frame seeded from vars. Seed
// variables are inserted in name order.
func NewState(vars map[string]any) *State {
	root := newFrame()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		root.vars.Set(name, vars[name])
	}
	return &State{frames: []*frame{root}}
}

func (s *State) top() *frame {
	return s.frames[len(s.frames)-1]
}

// Depth returns the number of frames on the stack.
func (s *State) Depth() int {
	return len(s.frames)
}

// Push adds a frame holding a shallow copy of the current top frame.
func (s *State) Push() {
	s.frames = append(s.frames, s.top().clone())
}

// Pop discards the top frame. The root frame cannot be popped.
func (s *State) Pop() error {
	if len(s.frames) <= 1 {
		return flowerrors.NewEmptyScopeError()
	}
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

// Get returns the named variable or a missing variable error.
func (s *State) Get(name string) (any, error) {
	value, ok := s.top().vars.Get(name)
	if !ok {
		return nil, flowerrors.NewMissingVariableError("", name)
	}
	return value, nil
}

// Lookup returns the named variable and whether it is defined.
func (s *State) Lookup(name string) (any, bool) {
	return s.top().vars.Get(name)
}

// Has reports whether name is defined in the top frame.
func (s *State) Has(name string) bool {
	_, ok := s.top().vars.Get(name)
	return ok
}

// Set binds name in the top frame.
func (s *State) Set(name string, value any) {
	s.top().vars.Set(name, value)
}

// SetGlobal binds name in every frame.
func (s *State) SetGlobal(name string, value any) {
	for _, f := range s.frames {
		f.vars.Set(name, value)
	}
}

// Delete removes name from the top frame and reports whether it was present.
func (s *State) Delete(name string) bool {
	_, ok := s.top().vars.Delete(name)
	return ok
}

// Len returns the number of variables in the top frame.
func (s *State) Len() int {
	return s.top().vars.Len()
}

// Vars returns the variables of the top frame in insertion order.
func (s *State) Vars() []Var {
	return frameVars(s.top())
}

// Map returns a copy of the top frame.
func (s *State) Map() map[string]any {
	out := make(map[string]any, s.top().vars.Len())
	for pair := s.top().vars.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

// Var is a single named value.
type Var struct {
	Name  string
	Value any
}

func frameVars(f *frame) []Var {
	out := make([]Var, 0, f.vars.Len())
	for pair := f.vars.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Var{Name: pair.Key, Value: pair.Value})
	}
	return out
}
