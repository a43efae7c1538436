package flow

import (
	"fmt"
	"reflect"
	"sync"
)

// List is a shared, appendable sequence. Scopes copy the pointer rather than
// the contents, so values appended inside a nested scope remain visible to the
// scope that created the list.
type List struct {
	mu    sync.Mutex
	items []any
}

// NewList returns a list holding items.
func NewList(items ...any) *List {
	return &List{items: append([]any(nil), items...)}
}

// asList returns value as a *List. Plain slices and arrays are copied into a
// new list; strings and scalars are rejected.
func asList(value any) (*List, bool) {
	switch v := value.(type) {
	case *List:
		return v, true
	case string, nil:
		return nil, false
	}
	kind := reflect.ValueOf(value).Kind()
	if kind != reflect.Slice && kind != reflect.Array {
		return nil, false
	}
	items, _ := iterate(value)
	return NewList(items...), true
}

// Append adds values to the end of the list.
func (l *List) Append(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, values...)
}

// Len returns the number of items.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Items returns a copy of the list contents.
func (l *List) Items() []any {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]any(nil), l.items...)
}

// Strings renders every item with fmt.Sprint.
func (l *List) Strings() []string {
	items := l.Items()
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprint(item)
	}
	return out
}

// Errors returns the items that are errors.
func (l *List) Errors() []error {
	var out []error
	for _, item := range l.Items() {
		if err, ok := item.(error); ok {
			out = append(out, err)
		}
	}
	return out
}

func (l *List) String() string {
	return fmt.Sprint(l.Items())
}
