// Package resolver computes the transitive closure of a requested key set
// over the requires edges declared in the registry.
package resolver

import (
	"context"
	"errors"

	"github.com/genforge/genforge/internal/ctxlog"
	"github.com/genforge/genforge/internal/registry"
)

// Closure returns the set of keys reachable from seeds, inclusive of the
// seeds themselves. Any referenced key absent from the registry fails with a
// registry.UnresolvedKeyError.
//
// With includeDependencies=false the seeds are not expanded: requires edges
// are still checked for registry existence, but keys outside the seed set
// are excluded from the result and assumed to be satisfied by an earlier
// build on the same engine.
func Closure(ctx context.Context, reg *registry.Registry, seeds []string, includeDependencies bool) (map[string]struct{}, error) {
	logger := ctxlog.FromContext(ctx)
	if len(seeds) == 0 {
		return nil, errors.New("resolver: at least one seed key is required")
	}

	visited := make(map[string]struct{}, len(seeds))

	// Explicit stack instead of recursion so pathological chains cannot
	// overflow the goroutine stack.
	stack := make([]string, 0, len(seeds))
	for _, key := range seeds {
		stack = append(stack, key)
	}

	for len(stack) > 0 {
		key := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := visited[key]; ok {
			continue
		}

		instr, err := reg.Instruction(key)
		if err != nil {
			return nil, err
		}
		visited[key] = struct{}{}

		for _, req := range instr.Descriptor().Requires {
			if _, ok := visited[req]; ok {
				continue
			}
			if !includeDependencies {
				// Still insist the edge names a real instruction; the
				// target just stays out of the result set.
				if _, err := reg.Instruction(req); err != nil {
					return nil, err
				}
				continue
			}
			stack = append(stack, req)
		}
	}

	logger.Debug("Resolved key set.", "seeds", len(seeds), "closure", len(visited), "expanded", includeDependencies)
	return visited, nil
}
