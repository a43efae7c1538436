// Package events publishes workflow lifecycle events to subscribers.
package events

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/flow/pkg/logger"
)

const (
	// WorkflowStarted is emitted when a workflow begins execution.
	WorkflowStarted = "workflow.started"
	// WorkflowCompleted is emitted after a workflow finished without error.
	WorkflowCompleted = "workflow.completed"
	// WorkflowFailed is emitted when a workflow terminates with an error.
	WorkflowFailed = "workflow.failed"
	// NodeStarted is emitted before a node is called.
	NodeStarted = "node.started"
	// NodeCompleted is emitted when a node returns without error.
	NodeCompleted = "node.completed"
	// NodeFailed is emitted when a node returns an error.
	NodeFailed = "node.failed"
	// NodeSkipped is emitted when a step asked to be skipped.
	NodeSkipped = "node.skipped"

	// All subscribes a handler to every event type.
	All = "*"
)

// Event describes one lifecycle transition of a run.
type Event struct {
	Type  string
	RunID string
	Node  string
	Depth int
	Err   error
}

// Handler processes a published event. Returned errors are logged and do not
// stop delivery to the remaining handlers.
type Handler func(context.Context, Event) error

// Subscription represents a registered handler.
type Subscription interface {
	Unsubscribe()
}

// Bus delivers events synchronously to subscribers and writes each one as a
// debug log entry. It is safe for concurrent use; a nil *Bus drops events.
type Bus struct {
	log    *logger.Logger
	subs   map[string][]subscriptionEntry
	nextID int
	mu     sync.RWMutex
}

// NewBus creates a bus logging through log. A nil logger disables logging.
func NewBus(log *logger.Logger) *Bus {
	return &Bus{
		log:  log,
		subs: make(map[string][]subscriptionEntry),
	}
}

// Publish logs event and runs every handler subscribed to its type or to All.
func (b *Bus) Publish(ctx context.Context, event Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	handlers := append(append([]subscriptionEntry(nil), b.subs[event.Type]...), b.subs[All]...)
	b.mu.RUnlock()

	fields := map[string]any{"event_type": event.Type, "run_id": event.RunID, "depth": event.Depth}
	if event.Node != "" {
		fields["node"] = event.Node
	}
	if event.Err != nil {
		fields["error"] = event.Err.Error()
	}
	b.log.WithFields(fields).Debug("flow event")

	for _, entry := range handlers {
		if err := entry.handler(ctx, event); err != nil {
			b.log.WithFields(map[string]any{"event_type": event.Type}).Warn("event handler failed: " + err.Error())
		}
	}
}

// Subscribe registers handler for eventType.
func (b *Bus) Subscribe(eventType string, handler Handler) Subscription {
	if b == nil || handler == nil {
		return noopSubscription{}
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[eventType] = append(b.subs[eventType], subscriptionEntry{id: id, handler: handler})
	b.mu.Unlock()

	return subscription{
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			handlers := b.subs[eventType]
			for i, entry := range handlers {
				if entry.id == id {
					b.subs[eventType] = append(handlers[:i:i], handlers[i+1:]...)
					break
				}
			}
		},
	}
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

type subscription struct {
	cancel func()
}

func (s subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

type subscriptionEntry struct {
	id      int
	handler Handler
}
