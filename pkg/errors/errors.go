package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
)

// Kind classifies workflow errors. Kinds form a small hierarchy so a handler
// registered for a parent kind also matches every descendant.
type Kind int

const (
	KindWorkflow Kind = iota
	KindSetup
	KindVariable
	KindMissingVariable
	KindVariableType
	KindRuntime
	KindEmptyScope
	KindStepFailed
	KindFatal
	KindSkip
)

var kindParents = map[Kind]Kind{
	KindSetup:           KindWorkflow,
	KindVariable:        KindWorkflow,
	KindMissingVariable: KindVariable,
	KindVariableType:    KindVariable,
	KindRuntime:         KindWorkflow,
	KindEmptyScope:      KindRuntime,
	KindStepFailed:      KindWorkflow,
	KindFatal:           KindWorkflow,
	KindSkip:            KindWorkflow,
}

var kindNames = map[Kind]string{
	KindWorkflow:        "workflow error",
	KindSetup:           "setup error",
	KindVariable:        "variable error",
	KindMissingVariable: "missing variable",
	KindVariableType:    "variable type error",
	KindRuntime:         "runtime error",
	KindEmptyScope:      "empty scope",
	KindStepFailed:      "step failed",
	KindFatal:           "fatal error",
	KindSkip:            "skip step",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsA reports whether k equals other or descends from it.
func (k Kind) IsA(other Kind) bool {
	current := k
	for {
		if current == other {
			return true
		}
		parent, ok := kindParents[current]
		if !ok {
			return false
		}
		current = parent
	}
}

// Error is the single error type raised by the workflow engine.
type Error struct {
	Kind      Kind
	Node      string
	Message   string
	Variables []string
	Err       error

	sentinel bool
}

// Sentinels usable with errors.Is. Matching honours the kind hierarchy, so
// errors.Is(err, ErrWorkflow) holds for every engine error.
var (
	ErrWorkflow        = sentinel(KindWorkflow)
	ErrSetup           = sentinel(KindSetup)
	ErrVariable        = sentinel(KindVariable)
	ErrMissingVariable = sentinel(KindMissingVariable)
	ErrVariableType    = sentinel(KindVariableType)
	ErrRuntime         = sentinel(KindRuntime)
	ErrEmptyScope      = sentinel(KindEmptyScope)
	ErrStepFailed      = sentinel(KindStepFailed)
	ErrFatal           = sentinel(KindFatal)
	ErrSkip            = sentinel(KindSkip)
)

func sentinel(kind Kind) *Error {
	return &Error{Kind: kind, Message: kind.String(), sentinel: true}
}

// NewSetupError reports a malformed workflow definition.
func NewSetupError(node, message string) error {
	return &Error{Kind: KindSetup, Node: node, Message: message}
}

// NewMissingVariableError reports variables that are absent from the current scope.
func NewMissingVariableError(node string, names ...string) error {
	return &Error{
		Kind:      KindMissingVariable,
		Node:      node,
		Message:   "missing variable(s): " + HumanJoin(names, "and"),
		Variables: names,
	}
}

// NewVariableTypeError reports a variable whose value has an unexpected type.
func NewVariableTypeError(node, name string, expected, actual any) error {
	return &Error{
		Kind:      KindVariableType,
		Node:      node,
		Message:   fmt.Sprintf("variable %s expected %v, got %T", name, expected, actual),
		Variables: []string{name},
	}
}

// NewRuntimeError reports a failure of the engine itself while running a node.
func NewRuntimeError(node, message string, err error) error {
	return &Error{Kind: KindRuntime, Node: node, Message: message, Err: err}
}

// NewStepFailedError reports an expected failure of a unit of work.
func NewStepFailedError(node, message string) error {
	return &Error{Kind: KindStepFailed, Node: node, Message: message}
}

// NewFatalError reports a failure that must terminate the workflow.
func NewFatalError(node, message string, err error) error {
	return &Error{Kind: KindFatal, Node: node, Message: message, Err: err}
}

// NewSkip asks the engine to silently skip the current step.
func NewSkip(message string) error {
	return &Error{Kind: KindSkip, Message: message}
}

// NewEmptyScopeError reports an attempt to pop the last state frame.
func NewEmptyScopeError() error {
	return &Error{Kind: KindEmptyScope, Message: "unable to pop the root scope"}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if e.Node != "" {
		b.WriteString(e.Node)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches kind sentinels through the kind hierarchy.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok || !t.sentinel {
		return false
	}
	return e.Kind.IsA(t.Kind)
}

// KindOf returns the kind of the first engine error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !stdErrors.As(err, &e) {
		return 0, false
	}
	return e.Kind, true
}

// HumanJoin joins items as "a, b and c".
func HumanJoin(items []string, conjunction string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " " + conjunction + " " + items[len(items)-1]
}

// ParseError represents a settings file parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures settings validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
