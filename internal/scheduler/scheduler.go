// Package scheduler linearizes a closure-limited key set into an emission
// order using Kahn's algorithm. The order guarantees that for every
// "dependent requires dependency" edge inside the set, the dependency
// precedes the dependent.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/genforge/genforge/internal/ctxlog"
	"github.com/genforge/genforge/internal/registry"
)

// CyclicDependencyError reports that the subgraph is not acyclic. Keys holds
// the full residual set left with unsatisfied dependencies, sorted, which
// covers every cycle at once rather than a single path.
type CyclicDependencyError struct {
	Keys []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency among keys: %s", strings.Join(e.Keys, ", "))
}

// Order returns a topological linearization of the given key set. Requires
// edges pointing outside the set are ignored; they were either expanded into
// the set by the resolver or deliberately excluded by the caller.
//
// The result is deterministic: ties are always broken lexically, so the
// order is a pure function of the subgraph.
func Order(ctx context.Context, reg *registry.Registry, keys map[string]struct{}) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	sorted := make([]string, 0, len(keys))
	for key := range keys {
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)

	// Forward adjacency (dependency -> dependents) and per-key indegree,
	// restricted to edges inside the set. Building from the sorted key list
	// keeps every adjacency list lexically ordered by dependent, which is
	// what makes the whole run deterministic.
	dependents := make(map[string][]string, len(keys))
	indegree := make(map[string]int, len(keys))
	for _, key := range sorted {
		instr, err := reg.Instruction(key)
		if err != nil {
			return nil, err
		}
		for _, req := range instr.Descriptor().Requires {
			if _, inSet := keys[req]; !inSet {
				continue
			}
			dependents[req] = append(dependents[req], key)
			indegree[key]++
		}
	}

	ready := make([]string, 0, len(keys))
	for _, key := range sorted {
		if indegree[key] == 0 {
			ready = append(ready, key)
		}
	}

	order := make([]string, 0, len(keys))
	for len(ready) > 0 {
		key := ready[0]
		ready = ready[1:]
		order = append(order, key)

		for _, dep := range dependents[key] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) < len(keys) {
		residual := make([]string, 0, len(keys)-len(order))
		for _, key := range sorted {
			if indegree[key] > 0 {
				residual = append(residual, key)
			}
		}
		logger.Debug("Topological sort left residual keys.", "residual", residual)
		return nil, &CyclicDependencyError{Keys: residual}
	}

	logger.Debug("Computed emission order.", "keys", len(order))
	return order, nil
}
