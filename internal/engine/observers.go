package engine

import (
	"github.com/genforge/genforge/internal/registry"
	"github.com/genforge/genforge/internal/unit"
)

// BeforeEmitFunc is called with the instruction descriptor just before its
// emitter runs. A non-nil error aborts the whole build.
type BeforeEmitFunc func(instr registry.Instruction) error

// AfterEmitFunc is called with the freshly emitted unit after it has been
// cached. A non-nil error aborts the whole build.
type AfterEmitFunc func(u unit.SourceUnit) error

type beforeEntry struct {
	id int
	fn BeforeEmitFunc
}

type afterEntry struct {
	id int
	fn AfterEmitFunc
}

// OnBeforeEmit subscribes fn to the before-emit lifecycle point and returns
// a function that removes the subscription. Observers fire synchronously in
// subscription order, and only for cache misses.
func (e *Engine) OnBeforeEmit(fn BeforeEmitFunc) (remove func()) {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()

	e.nextObsID++
	id := e.nextObsID
	e.before = append(e.before, beforeEntry{id: id, fn: fn})

	return func() {
		e.obsMu.Lock()
		defer e.obsMu.Unlock()
		for i, entry := range e.before {
			if entry.id == id {
				e.before = append(e.before[:i], e.before[i+1:]...)
				return
			}
		}
	}
}

// OnAfterEmit subscribes fn to the after-emit lifecycle point and returns a
// function that removes the subscription.
func (e *Engine) OnAfterEmit(fn AfterEmitFunc) (remove func()) {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()

	e.nextObsID++
	id := e.nextObsID
	e.after = append(e.after, afterEntry{id: id, fn: fn})

	return func() {
		e.obsMu.Lock()
		defer e.obsMu.Unlock()
		for i, entry := range e.after {
			if entry.id == id {
				e.after = append(e.after[:i], e.after[i+1:]...)
				return
			}
		}
	}
}

// fireBeforeEmit dispatches the before-emit observers. The first error wins
// and is returned verbatim: a failing observer is a caller bug, not a
// condition the engine recovers from or dresses up.
func (e *Engine) fireBeforeEmit(instr registry.Instruction) error {
	e.obsMu.Lock()
	entries := make([]beforeEntry, len(e.before))
	copy(entries, e.before)
	e.obsMu.Unlock()

	for _, entry := range entries {
		if err := entry.fn(instr); err != nil {
			return err
		}
	}
	return nil
}

// fireAfterEmit dispatches the after-emit observers, same contract as
// fireBeforeEmit.
func (e *Engine) fireAfterEmit(u unit.SourceUnit) error {
	e.obsMu.Lock()
	entries := make([]afterEntry, len(e.after))
	copy(entries, e.after)
	e.obsMu.Unlock()

	for _, entry := range entries {
		if err := entry.fn(u); err != nil {
			return err
		}
	}
	return nil
}
