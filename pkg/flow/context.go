package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/alexisbeaulieu97/flow/pkg/events"
	"github.com/alexisbeaulieu97/flow/pkg/logger"
	"github.com/alexisbeaulieu97/flow/pkg/metrics"
)

const tracerName = "github.com/alexisbeaulieu97/flow"

// Context carries the state of a single workflow execution. It is not safe for
// concurrent use; parallel workers each receive their own Context.
type Context struct {
	ctx     context.Context
	state   *State
	log     *logger.Logger
	metrics *metrics.Collector
	tracer  trace.Tracer
	runID   string
	workers int
	events  *events.Bus

	current   *TraceEntry
	flowTrace *FlowTrace
}

// Option configures a Context.
type Option func(*Context)

// WithContext sets the context used for cancellation and span propagation.
func WithContext(ctx context.Context) Option {
	return func(c *Context) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Context) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMetrics records node metrics into m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Context) {
		c.metrics = m
	}
}

// WithTracer sets the OpenTelemetry tracer used for node spans. Defaults to the
// global tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Context) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(c *Context) {
		if id != "" {
			c.runID = id
		}
	}
}

// WithEvents publishes node and workflow lifecycle events to bus.
func WithEvents(bus *events.Bus) Option {
	return func(c *Context) {
		c.events = bus
	}
}

// WithWorkers sets the worker count of parallel nodes that do not set their
// own. Values below one fall back to the CPU count.
func WithWorkers(size int) Option {
	return func(c *Context) {
		c.workers = size
	}
}

// WithVariables seeds the root scope.
func WithVariables(vars map[string]any) Option {
	return func(c *Context) {
		c.state = NewState(vars)
	}
}

// NewContext creates an execution context with a single root scope.
func NewContext(opts ...Option) *Context {
	c := &Context{
		ctx:   context.Background(),
		state: NewState(nil),
		log:   logger.Nop(),
		runID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	c.log = c.log.WithFields(map[string]any{"run_id": c.runID})
	return c
}

// worker derives a context for a parallel worker. It shares the logger, metrics,
// tracer and run ID but starts from a fresh root scope holding only vars.
func (c *Context) worker(ctx context.Context, vars map[string]any, fields map[string]any) *Context {
	return &Context{
		ctx:     ctx,
		state:   NewState(vars),
		log:     c.log.WithFields(fields),
		metrics: c.metrics,
		tracer:  c.tracer,
		runID:   c.runID,
		workers: c.workers,
		events:  c.events,
	}
}

func (c *Context) publish(eventType, node string, err error) {
	c.events.Publish(c.ctx, events.Event{Type: eventType, RunID: c.runID, Node: node, Depth: c.Depth(), Err: err})
}

// Context returns the context.Context of the running node.
func (c *Context) Context() context.Context {
	return c.ctx
}

// RunID identifies this execution in logs and spans.
func (c *Context) RunID() string {
	return c.runID
}

// State returns the scoped variable state.
func (c *Context) State() *State {
	return c.state
}

// Logger returns the execution logger.
func (c *Context) Logger() *logger.Logger {
	return c.log
}

// Depth is the number of scopes pushed above the root.
func (c *Context) Depth() int {
	return c.state.Depth() - 1
}

// Get returns the named variable or a missing variable error.
func (c *Context) Get(name string) (any, error) {
	return c.state.Get(name)
}

// Lookup returns the named variable and whether it is defined.
func (c *Context) Lookup(name string) (any, bool) {
	return c.state.Lookup(name)
}

// Has reports whether name is defined in the current scope.
func (c *Context) Has(name string) bool {
	return c.state.Has(name)
}

// Set binds name in the current scope.
func (c *Context) Set(name string, value any) {
	c.state.Set(name, value)
}

// Delete removes name from the current scope.
func (c *Context) Delete(name string) bool {
	return c.state.Delete(name)
}

// Push opens a nested scope.
func (c *Context) Push() {
	c.state.Push()
}

// Pop closes the current scope.
func (c *Context) Pop() error {
	return c.state.Pop()
}

// Scope runs fn inside a nested scope that is always closed afterwards.
func (c *Context) Scope(fn func() error) (err error) {
	c.state.Push()
	defer func() {
		if popErr := c.state.Pop(); popErr != nil && err == nil {
			err = popErr
		}
	}()
	return fn()
}

// Format substitutes {name} placeholders with variables from the current scope.
// When formatting fails a warning is logged and message is returned unchanged.
func (c *Context) Format(message string) string {
	out, err := formatMessage(message, c.state.Lookup)
	if err != nil {
		c.Warn("unable to format message %q: %v", message, err)
		return message
	}
	return out
}

func (c *Context) indent(msg string) string {
	return strings.Repeat("  ", c.Depth()) + msg
}

// Debug writes an indented debug entry.
func (c *Context) Debug(format string, args ...any) {
	c.log.Debug(c.indent(fmt.Sprintf(format, args...)))
}

// Info writes an indented informational entry.
func (c *Context) Info(format string, args ...any) {
	c.log.Info(c.indent(fmt.Sprintf(format, args...)))
}

// Warn writes an indented warning entry.
func (c *Context) Warn(format string, args ...any) {
	c.log.Warn(c.indent(fmt.Sprintf(format, args...)))
}

// Error writes an indented error entry carrying err.
func (c *Context) Error(err error, format string, args ...any) {
	c.log.Error(err, c.indent(fmt.Sprintf(format, args...)))
}

// Log writes an indented entry at the named level.
func (c *Context) Log(level string, msg string) {
	c.log.Log(level, c.indent(msg))
}

// withLogLevel runs fn with the logger filtering at level.
func (c *Context) withLogLevel(level string, fn func() error) error {
	if level == "" {
		return fn()
	}
	derived, err := c.log.WithLevel(level)
	if err != nil {
		return err
	}
	previous := c.log
	c.log = derived
	defer func() { c.log = previous }()
	return fn()
}

// SetTraceArgs attaches arguments to the trace entry of the running node.
func (c *Context) SetTraceArgs(args map[string]any) {
	if c.current != nil {
		c.current.Args = args
	}
}

func (c *Context) trace(node Node) *TraceEntry {
	return c.state.top().trace.add(node)
}

// CaptureTrace snapshots every scope into the flow trace. Unless forced an
// existing trace is kept, so the first failure wins.
func (c *Context) CaptureTrace(force bool) {
	if c.flowTrace == nil || force {
		c.flowTrace = snapshot(c.state.frames)
	}
}

// FlowTrace returns the trace captured at the first failure, or nil.
func (c *Context) FlowTrace() *FlowTrace {
	return c.flowTrace
}

// TraceScope returns the visits recorded in the current scope.
func (c *Context) TraceScope() *TraceScope {
	return c.state.top().trace
}
