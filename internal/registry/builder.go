package registry

import (
	"fmt"
	"log/slog"
)

// Builder accumulates instructions and finalizes them into an immutable
// Registry. Registration mistakes (duplicate or empty keys, nil emitters)
// are programmer errors, so the Add methods panic instead of returning
// errors, mirroring how handler registration behaves elsewhere in the tree.
type Builder struct {
	nodes map[string]Instruction
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{nodes: make(map[string]Instruction)}
}

// AddStub registers a stub. It returns the builder for chaining.
func (b *Builder) AddStub(s *Stub) *Builder {
	if s.Emit == nil {
		panic(fmt.Sprintf("stub %q registered without an emit function", s.Key))
	}
	b.add(s.Key, s)
	return b
}

// AddTemplate registers a template. It returns the builder for chaining.
func (b *Builder) AddTemplate(t *Template) *Builder {
	if t.Emit == nil {
		panic(fmt.Sprintf("template %q registered without an emit function", t.Key))
	}
	b.add(t.Key, t)
	return b
}

func (b *Builder) add(key string, n Instruction) {
	if b.nodes == nil {
		panic("registry builder reused after Build")
	}
	if key == "" {
		panic("instruction registered with an empty key")
	}
	if _, exists := b.nodes[key]; exists {
		panic(fmt.Sprintf("instruction with key %q already registered", key))
	}
	slog.Debug("Registering instruction.", "key", key, "kind", n.Kind())
	b.nodes[key] = n
}

// Build finalizes the accumulated instructions into a read-only Registry.
// The builder must not be used again afterwards.
func (b *Builder) Build() *Registry {
	reg := &Registry{nodes: b.nodes}
	b.nodes = nil
	return reg
}
