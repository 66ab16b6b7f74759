package dag

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vk/taskgridgo/internal/model"
)

// ErrCycle reports that the step graph contains a dependency cycle.
var ErrCycle = errors.New("dependency cycle")

// ErrStepNotFound reports a dependency on a step that is not in the graph.
var ErrStepNotFound = errors.New("step not found")

// frame is one suspended visit on the explicit DFS stack.
type frame struct {
	name string
	deps []string
	next int
}

// Sort returns a total order over all step names in which every dependency
// precedes its dependents. Steps reachable only through transitive
// dependencies are ordered before the steps that need them, even when they
// are never a traversal root. A cycle (including one closed through explicit
// dependencies) yields ErrCycle; a dependency on an undeclared step yields
// ErrStepNotFound.
func Sort(graph map[string]*model.StepDefinition, isParameter func(name string) bool) ([]string, error) {
	deps := make(map[string][]string, len(graph))
	roots := make([]string, 0, len(graph))
	for name, step := range graph {
		deps[name] = Dependencies(step, isParameter)
		roots = append(roots, name)
	}
	sort.Strings(roots)

	order := make([]string, 0, len(graph))
	done := make(map[string]bool, len(graph))
	onPath := make(map[string]bool)

	for _, root := range roots {
		if done[root] {
			continue
		}

		stack := []*frame{{name: root, deps: deps[root]}}
		onPath[root] = true

		for len(stack) > 0 {
			top := stack[len(stack)-1]

			if top.next >= len(top.deps) {
				// Every dependency is ordered; the step itself follows.
				stack = stack[:len(stack)-1]
				delete(onPath, top.name)
				done[top.name] = true
				order = append(order, top.name)
				continue
			}

			dep := top.deps[top.next]
			top.next++

			if done[dep] {
				continue
			}
			if onPath[dep] {
				return nil, fmt.Errorf("%w involving step %q", ErrCycle, dep)
			}
			depDeps, ok := deps[dep]
			if !ok {
				return nil, fmt.Errorf("%w: %q (required by step %q)", ErrStepNotFound, dep, top.name)
			}
			stack = append(stack, &frame{name: dep, deps: depDeps})
			onPath[dep] = true
		}
	}

	return order, nil
}
