package flow

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
)

var nodeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_./-]+:[A-Za-z0-9_.-]+$`)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Node)
)

// Register makes node resolvable by id, which has the form
// "<namespace>:<name>".
func Register(id string, node Node) error {
	if node == nil {
		return flowerrors.NewSetupError(id, "node is nil")
	}
	if !nodeIDPattern.MatchString(id) {
		return flowerrors.NewSetupError(id, "node id must have the form <namespace>:<name>")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[id]; exists {
		return flowerrors.NewSetupError(id, "node already registered")
	}
	registry[id] = node
	return nil
}

// MustRegister is Register that panics on error.
func MustRegister(id string, node Node) {
	if err := Register(id, node); err != nil {
		panic(err)
	}
}

// Resolve returns the node registered under id.
func Resolve(id string) (Node, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	node, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("no node registered as %q", id)
	}
	return node, nil
}

// Registered lists the registered ids in sorted order.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResetRegistry clears node registrations (for tests).
func ResetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Node)
}
