package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/genforge/genforge/internal/ctxlog"
	"github.com/genforge/genforge/internal/registry"
	"github.com/genforge/genforge/internal/resolver"
	"github.com/genforge/genforge/internal/scheduler"
	"github.com/genforge/genforge/internal/unit"
)

// Engine executes builds against an immutable registry. The unit cache it
// owns lives as long as the engine and guarantees at-most-once emission per
// key across every build run on this instance.
type Engine struct {
	reg *registry.Registry

	// mu serializes builds and guards the cache map. Emission is
	// single-writer; Unit takes the read side.
	mu    sync.RWMutex
	cache map[string]unit.SourceUnit

	obsMu     sync.Mutex
	nextObsID int
	before    []beforeEntry
	after     []afterEntry
}

// New creates an engine bound to the given registry with an empty cache.
func New(reg *registry.Registry) *Engine {
	return &Engine{
		reg:   reg,
		cache: make(map[string]unit.SourceUnit),
	}
}

// Unit returns the cached unit for key, if this engine has emitted it.
func (e *Engine) Unit(key string) (unit.SourceUnit, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	u, ok := e.cache[key]
	return u, ok
}

// Build emits the requested keys and, when includeDependencies is true,
// their transitive requirements, in topological order. The returned slice
// follows that order; dependencies of a requested key appear before it.
//
// Any failure aborts the call without a partial result. Units cached before
// the failure stay cached, so a retried build resumes past them.
func (e *Engine) Build(ctx context.Context, keys []string, includeDependencies bool) ([]unit.SourceUnit, error) {
	logger := ctxlog.FromContext(ctx)

	closure, err := resolver.Closure(ctx, e.reg, keys, includeDependencies)
	if err != nil {
		return nil, err
	}

	order, err := scheduler.Order(ctx, e.reg, closure)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	units := make([]unit.SourceUnit, 0, len(order))
	for _, key := range order {
		if cached, ok := e.cache[key]; ok {
			logger.Debug("Cache hit, skipping emission.", "key", key)
			units = append(units, cached)
			continue
		}

		instr, err := e.reg.Instruction(key)
		if err != nil {
			return nil, err
		}

		if err := e.fireBeforeEmit(instr); err != nil {
			return nil, err
		}

		var u unit.SourceUnit
		switch n := instr.(type) {
		case *registry.Stub:
			u, err = n.Emit()
			if err != nil {
				return nil, fmt.Errorf("emitting stub %q: %w", key, err)
			}
		case *registry.Template:
			stubs, gatherErr := e.gatherRequired(n)
			if gatherErr != nil {
				return nil, gatherErr
			}
			u, err = n.Emit(stubs)
			if err != nil {
				return nil, fmt.Errorf("emitting template %q: %w", key, err)
			}
		default:
			return nil, fmt.Errorf("key %q has unknown instruction kind %T", key, instr)
		}

		e.cache[key] = u
		logger.Debug("Emitted unit.", "key", key, "fingerprint", u.Fingerprint)

		if err := e.fireAfterEmit(u); err != nil {
			return nil, err
		}

		units = append(units, u)
	}

	return units, nil
}

// gatherRequired collects the cached units for a template's requirements in
// declared order. The order is semantically significant: the template's
// emitter receives the units exactly as the requires list names them.
//
// All requirements are validated before any unit is handed over, so a
// structural violation surfaces before the emitter ever runs. Callers hold
// e.mu.
func (e *Engine) gatherRequired(t *registry.Template) ([]unit.SourceUnit, error) {
	desc := t.Descriptor()
	stubs := make([]unit.SourceUnit, 0, len(desc.Requires))
	for _, req := range desc.Requires {
		instr, err := e.reg.Instruction(req)
		if err != nil {
			return nil, err
		}
		if instr.Kind() != unit.KindStub {
			return nil, &RequiresTypeMismatchError{TemplateKey: desc.Key, OffendingKey: req}
		}
		u, ok := e.cache[req]
		if !ok {
			// Only reachable with includeDependencies=false: the scheduler
			// otherwise places every requirement before its dependent.
			return nil, &MissingUnitError{TemplateKey: desc.Key, Key: req}
		}
		stubs = append(stubs, u)
	}
	return stubs, nil
}
