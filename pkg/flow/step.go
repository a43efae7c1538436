package flow

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"unicode"

	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
)

// Param declares a variable a step reads from state.
type Param struct {
	name     string
	typ      reflect.Type
	required bool
	context  bool
}

// In declares an untyped input.
func In(name string) Param {
	return Param{name: name}
}

// InOf declares an input whose value must be assignable to T.
func InOf[T any](name string) Param {
	return Param{name: name, typ: reflect.TypeFor[T]()}
}

// ContextArg declares that the step receives the execution Context through
// Args.Context.
func ContextArg() Param {
	return Param{context: true}
}

// Required makes a missing input an error instead of leaving it to the step's
// own default.
func (p Param) Required() Param {
	p.required = true
	return p
}

// OutputSpec declares a variable a step writes to state.
type OutputSpec struct {
	name string
	typ  reflect.Type
}

// Out declares an untyped output.
func Out(name string) OutputSpec {
	return OutputSpec{name: name}
}

// OutOf declares an output whose value must be assignable to T.
func OutOf[T any](name string) OutputSpec {
	return OutputSpec{name: name, typ: reflect.TypeFor[T]()}
}

type stepConfig struct {
	name    string
	params  []Param
	outputs []OutputSpec
	ignore  []ErrorMatcher
}

// StepOption configures a Step.
type StepOption func(*stepConfig)

// Name sets the step name. Names may contain {var} placeholders which are
// formatted when the step is logged.
func Name(name string) StepOption {
	return func(cfg *stepConfig) { cfg.name = name }
}

// Inputs declares the variables the step reads.
func Inputs(params ...Param) StepOption {
	return func(cfg *stepConfig) { cfg.params = append(cfg.params, params...) }
}

// Outputs names the variables the step results are written to, in return
// order. Each argument may hold a comma separated list.
func Outputs(names ...string) StepOption {
	return func(cfg *stepConfig) {
		for _, name := range varList(names...) {
			cfg.outputs = append(cfg.outputs, Out(name))
		}
	}
}

// TypedOutputs declares outputs with expected types.
func TypedOutputs(specs ...OutputSpec) StepOption {
	return func(cfg *stepConfig) { cfg.outputs = append(cfg.outputs, specs...) }
}

// IgnoreErrors swallows matching errors raised by the step with a warning.
func IgnoreErrors(matchers ...ErrorMatcher) StepOption {
	return func(cfg *stepConfig) { cfg.ignore = append(cfg.ignore, matchers...) }
}

// Args holds the inputs resolved for one step invocation. Inputs that were not
// defined in state are absent.
type Args struct {
	values map[string]any
	ctx    *Context
}

// Get returns the named input.
func (a Args) Get(name string) (any, bool) {
	value, ok := a.values[name]
	return value, ok
}

// Has reports whether the named input was resolved.
func (a Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Context returns the execution context when the step declared ContextArg,
// otherwise nil.
func (a Args) Context() *Context {
	return a.ctx
}

// Arg returns the named input as a T, or the zero value when absent.
func Arg[T any](a Args, name string) T {
	var zero T
	return ArgOr(a, name, zero)
}

// ArgOr returns the named input as a T, or def when absent or of another type.
func ArgOr[T any](a Args, name string, def T) T {
	value, ok := a.values[name]
	if !ok {
		return def
	}
	typed, ok := value.(T)
	if !ok {
		return def
	}
	return typed
}

// Step wraps a unit of work with declared inputs and outputs.
type Step struct {
	name         string
	params       []Param
	outputs      []OutputSpec
	ignore       []ErrorMatcher
	wantsContext bool
	arity        int
	call         func(Args) ([]any, error)
}

// NewStep wraps a function without results.
func NewStep(fn func(Args) error, opts ...StepOption) (*Step, error) {
	if fn == nil {
		return nil, flowerrors.NewSetupError("Step", "function is nil")
	}
	return newStep(fn, nil, func(a Args) ([]any, error) {
		return nil, fn(a)
	}, opts)
}

// NewStep1 wraps a function with a single result.
func NewStep1[T any](fn func(Args) (T, error), opts ...StepOption) (*Step, error) {
	if fn == nil {
		return nil, flowerrors.NewSetupError("Step", "function is nil")
	}
	return newStep(fn, []reflect.Type{reflect.TypeFor[T]()}, func(a Args) ([]any, error) {
		v, err := fn(a)
		return []any{v}, err
	}, opts)
}

// NewStep2 wraps a function with two results.
func NewStep2[A, B any](fn func(Args) (A, B, error), opts ...StepOption) (*Step, error) {
	if fn == nil {
		return nil, flowerrors.NewSetupError("Step", "function is nil")
	}
	types := []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[B]()}
	return newStep(fn, types, func(a Args) ([]any, error) {
		va, vb, err := fn(a)
		return []any{va, vb}, err
	}, opts)
}

// NewStep3 wraps a function with three results.
func NewStep3[A, B, C any](fn func(Args) (A, B, C, error), opts ...StepOption) (*Step, error) {
	if fn == nil {
		return nil, flowerrors.NewSetupError("Step", "function is nil")
	}
	types := []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C]()}
	return newStep(fn, types, func(a Args) ([]any, error) {
		va, vb, vc, err := fn(a)
		return []any{va, vb, vc}, err
	}, opts)
}

// NewStepN wraps a function returning arity results as a slice. Result types
// are checked when the step runs.
func NewStepN(arity int, fn func(Args) ([]any, error), opts ...StepOption) (*Step, error) {
	if fn == nil {
		return nil, flowerrors.NewSetupError("Step", "function is nil")
	}
	if arity < 0 {
		return nil, flowerrors.NewSetupError("Step", "arity must not be negative")
	}
	return newStep(fn, make([]reflect.Type, arity), fn, opts)
}

// Must panics when err is not nil. It is meant for workflow definitions built
// at package initialisation.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func newStep(fn any, results []reflect.Type, call func(Args) ([]any, error), opts []StepOption) (*Step, error) {
	var cfg stepConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.name == "" {
		cfg.name = funcName(fn)
		if cfg.name == "Step" && len(cfg.outputs) > 0 && cfg.outputs[0].name != "" {
			cfg.name = cfg.outputs[0].name
		}
	}

	s := &Step{
		name:    cfg.name,
		outputs: cfg.outputs,
		ignore:  cfg.ignore,
		arity:   len(results),
		call:    call,
	}

	seen := make(map[string]bool, len(cfg.params))
	for _, p := range cfg.params {
		if p.context {
			if s.wantsContext {
				return nil, flowerrors.NewSetupError(s.name, "only a single context argument is allowed")
			}
			s.wantsContext = true
			continue
		}
		if p.name == "" {
			return nil, flowerrors.NewSetupError(s.name, "inputs must be bound by name")
		}
		if seen[p.name] {
			return nil, flowerrors.NewSetupError(s.name, fmt.Sprintf("input %s declared more than once", p.name))
		}
		seen[p.name] = true
		s.params = append(s.params, p)
	}

	if len(s.outputs) > 0 && len(s.outputs) != s.arity {
		return nil, flowerrors.NewSetupError(s.name, fmt.Sprintf(
			"%d output name(s) do not match %d return value(s)", len(s.outputs), s.arity))
	}
	for i, out := range s.outputs {
		if out.name == "" {
			return nil, flowerrors.NewSetupError(s.name, "outputs must be named")
		}
		if out.typ != nil && results[i] != nil && !results[i].AssignableTo(out.typ) {
			return nil, flowerrors.NewSetupError(s.name, fmt.Sprintf(
				"output %s expects %v but the step returns %v", out.name, out.typ, results[i]))
		}
	}

	return s, nil
}

// Name returns the step name.
func (s *Step) Name() string {
	return s.name
}

// InputNames lists the declared inputs.
func (s *Step) InputNames() []string {
	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.name
	}
	return names
}

// OutputNames lists the declared outputs.
func (s *Step) OutputNames() []string {
	names := make([]string, len(s.outputs))
	for i, out := range s.outputs {
		names[i] = out.name
	}
	return names
}

// Call resolves inputs, runs the unit of work and writes its outputs.
func (s *Step) Call(c *Context) error {
	args, err := s.resolve(c)
	if err != nil {
		return err
	}

	c.Info("Step `%s`", c.Format(s.name))
	results, err := s.invoke(args)
	if err != nil {
		return s.handle(c, err)
	}

	if len(s.outputs) == 0 {
		return nil
	}
	if len(results) != s.arity {
		return flowerrors.NewRuntimeError(s.name, fmt.Sprintf(
			"expected %d result(s), got %d", s.arity, len(results)), nil)
	}
	for i, out := range s.outputs {
		if out.typ != nil && !assignable(results[i], out.typ) {
			return flowerrors.NewVariableTypeError(s.name, out.name, out.typ, results[i])
		}
	}
	for i, out := range s.outputs {
		c.Set(out.name, results[i])
	}
	return nil
}

func (s *Step) resolve(c *Context) (Args, error) {
	args := Args{values: make(map[string]any, len(s.params))}
	if s.wantsContext {
		args.ctx = c
	}

	var missing []string
	for _, p := range s.params {
		value, ok := c.Lookup(p.name)
		if !ok {
			if p.required {
				missing = append(missing, p.name)
			}
			continue
		}
		if p.typ != nil && !assignable(value, p.typ) {
			return Args{}, flowerrors.NewVariableTypeError(s.name, p.name, p.typ, value)
		}
		args.values[p.name] = value
	}
	if len(missing) > 0 {
		return Args{}, flowerrors.NewMissingVariableError(s.name, missing...)
	}
	return args, nil
}

func (s *Step) invoke(args Args) (results []any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = flowerrors.NewRuntimeError(s.name, "step panicked", fmt.Errorf("%v", r))
		}
	}()
	return s.call(args)
}

func (s *Step) handle(c *Context, err error) error {
	switch {
	case isFatal(err):
		c.Error(err, "fatal error raised")
		return err
	case errors.Is(err, flowerrors.ErrSkip):
		c.Warn("skipping step: %v", err)
		if c.current != nil {
			c.current.Status = StatusSkipped
		}
		return nil
	case matchAny(s.ignore, err):
		c.Warn("ignoring error: %v", err)
		return nil
	}
	c.Error(err, "error raised")
	return err
}

func assignable(value any, typ reflect.Type) bool {
	if value == nil {
		switch typ.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return true
		}
		return false
	}
	return reflect.TypeOf(value).AssignableTo(typ)
}

// funcName derives a display name from a function, "addNumbers" becoming
// "Add Numbers". Anonymous functions are named "Step".
func funcName(fn any) string {
	pc := reflect.ValueOf(fn).Pointer()
	f := runtime.FuncForPC(pc)
	if f == nil {
		return "Step"
	}
	name := strings.ReplaceAll(f.Name(), "[...]", "")
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if trimmed := strings.TrimRight(name, "0123456789"); trimmed == "" || trimmed == "func" {
		return "Step"
	}

	var b strings.Builder
	var prev rune
	for i, r := range name {
		switch {
		case r == '_':
			r = ' '
		case i == 0 || prev == ' ':
			r = unicode.ToUpper(r)
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			b.WriteRune(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}
