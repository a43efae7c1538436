package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/alexisbeaulieu97/flow/internal/engine"
	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
)

// MergeMethod combines one output variable across parallel workers.
type MergeMethod int

const (
	// MergeAppend collects one value per worker.
	MergeAppend MergeMethod = iota
	// MergeExtend concatenates the sequence produced by each worker.
	MergeExtend
)

func (m MergeMethod) String() string {
	if m == MergeExtend {
		return "extend"
	}
	return "append"
}

// MergeSpec names a worker output variable and how to merge it.
type MergeSpec struct {
	Name   string
	Method MergeMethod
}

// Merge declares a merged output variable. The method defaults to MergeAppend.
func Merge(name string, method ...MergeMethod) MergeSpec {
	spec := MergeSpec{Name: name, Method: MergeAppend}
	if len(method) > 0 {
		spec.Method = method[0]
	}
	return spec
}

// MapNode runs a registered node once per element of a sequence, concurrently,
// each run against an isolated context holding only the element binding.
type MapNode struct {
	targets []string
	in      string
	nodeID  string
	merge   []MergeSpec
	workers int

	poolOnce sync.Once
	pool     *engine.Pool
}

// Map iterates over the variable in, binding each element to targets inside a
// worker.
func Map(targets, in string) *MapNode {
	names := varList(targets)
	if len(names) == 0 {
		panic(flowerrors.NewSetupError("Map", "no target variables given"))
	}
	if in == "" {
		panic(flowerrors.NewSetupError("Map", "source variable is empty"))
	}
	return &MapNode{targets: names, in: in}
}

// Loop sets the registered id of the node each worker runs.
func (n *MapNode) Loop(nodeID string) *MapNode {
	n.nodeID = nodeID
	return n
}

// MergeVars declares the worker outputs merged back into the caller's scope.
func (n *MapNode) MergeVars(specs ...MergeSpec) *MapNode {
	n.merge = append(n.merge, specs...)
	return n
}

// Workers bounds the number of concurrent workers. Defaults to the Context's
// worker count, then to the CPU count.
func (n *MapNode) Workers(size int) *MapNode {
	n.workers = size
	return n
}

func (n *MapNode) Name() string {
	return fmt.Sprintf("Map (%s) in `%s`", strings.Join(n.targets, ", "), n.in)
}

func (n *MapNode) Branches() Branches {
	node, err := Resolve(n.nodeID)
	if err != nil {
		return nil
	}
	return Branches{{Label: "loop", Nodes: []Node{node}}}
}

func (n *MapNode) getPool(c *Context) *engine.Pool {
	n.poolOnce.Do(func() {
		size := n.workers
		if size < 1 {
			size = c.workers
		}
		n.pool = engine.NewPool(size)
	})
	return n.pool
}

func (n *MapNode) Call(c *Context) error {
	c.Info("%s", n.Name())
	if n.nodeID == "" {
		return flowerrors.NewRuntimeError(n.Name(), "no node to map; call Loop with a registered node id", nil)
	}
	elements, err := sourceElements(c, n.Name(), n.in)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	collected := make([][]any, len(n.merge))

	err = n.getPool(c).Run(c.ctx, len(elements), func(ctx context.Context, idx int) error {
		c.metrics.WorkerStarted()
		defer c.metrics.WorkerFinished()

		values, err := n.runWorker(ctx, c, idx, elements[idx])
		if err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		for i, value := range values {
			collected[i] = append(collected[i], value)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, engine.ErrWorkerPanic) {
			return flowerrors.NewRuntimeError(n.Name(), "parallel worker failed", err)
		}
		return err
	}

	for i, spec := range n.merge {
		merged, err := n.mergeValues(spec, collected[i])
		if err != nil {
			return err
		}
		c.Set(spec.Name, merged)
	}
	c.SetTraceArgs(map[string]any{
		"elements": len(elements),
		"workers":  n.getPool(c).Size(),
		"merge":    n.mergeNames(),
	})
	return nil
}

func (n *MapNode) runWorker(ctx context.Context, c *Context, idx int, element any) ([]any, error) {
	bindings, err := bindElement(n.Name(), n.in, n.targets, element)
	if err != nil {
		return nil, err
	}
	worker := c.worker(ctx, bindings, map[string]any{"worker": idx})

	node, err := Resolve(n.nodeID)
	if err != nil {
		return nil, flowerrors.NewFatalError(n.Name(), "unable to import parallel node: "+n.nodeID, err)
	}
	if err := callNode(worker, node); err != nil {
		return nil, err
	}

	values := make([]any, len(n.merge))
	for i, spec := range n.merge {
		value, ok := worker.Lookup(spec.Name)
		if !ok {
			return nil, flowerrors.NewMissingVariableError(n.Name(), spec.Name)
		}
		values[i] = value
	}
	return values, nil
}

func (n *MapNode) mergeValues(spec MergeSpec, values []any) (*List, error) {
	if spec.Method == MergeAppend {
		return NewList(values...), nil
	}
	merged := NewList()
	for _, value := range values {
		items, ok := iterate(value)
		if !ok {
			return nil, flowerrors.NewRuntimeError(n.Name(), fmt.Sprintf(
				"cannot extend %s with non-sequence value %v", spec.Name, value), nil)
		}
		merged.Append(items...)
	}
	return merged, nil
}

// mergeNames lists the merged variables with their methods.
func (n *MapNode) mergeNames() []string {
	return lo.Map(n.merge, func(spec MergeSpec, _ int) string {
		return spec.Name + " (" + spec.Method.String() + ")"
	})
}
