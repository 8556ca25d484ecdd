package registry

import (
	"fmt"
	"sort"

	"github.com/genforge/genforge/internal/unit"
)

// EmitFunc produces a unit from nothing. It is supplied by the caller and
// treated as opaque by the engine.
type EmitFunc func() (unit.SourceUnit, error)

// CombineFunc produces a unit from the units of the stubs a template
// requires, passed in the template's declared order.
type CombineFunc func(stubs []unit.SourceUnit) (unit.SourceUnit, error)

// Meta is the descriptor shared by every instruction: its registry key, a
// free-text domain label (diagnostic only), and the ordered list of keys
// whose output must exist before this node emits.
type Meta struct {
	Key      string
	Domain   string
	Requires []string
}

// Instruction is the common interface of all registered nodes. It is sealed:
// the only implementations are Stub and Template.
type Instruction interface {
	Descriptor() Meta
	Kind() unit.Kind
}

// Stub is a leaf instruction. Mode is a free-form shape hint consumed only
// by the emitter. A stub may still declare Requires purely for sequencing.
type Stub struct {
	Meta
	Mode string
	Emit EmitFunc
}

// Template is a composite instruction. Every key in Requires must resolve
// to a Stub; the engine enforces that before calling Emit.
type Template struct {
	Meta
	Emit CombineFunc
}

func (s *Stub) Descriptor() Meta     { return s.Meta }
func (s *Stub) Kind() unit.Kind      { return unit.KindStub }
func (t *Template) Descriptor() Meta { return t.Meta }
func (t *Template) Kind() unit.Kind  { return unit.KindTemplate }

// UnresolvedKeyError reports a key that no instruction is registered under.
type UnresolvedKeyError struct {
	Key string
}

func (e *UnresolvedKeyError) Error() string {
	return fmt.Sprintf("unresolved key %q: no instruction registered", e.Key)
}

// TypeMismatchError reports a key that resolved to a different instruction
// kind than the accessor asked for.
type TypeMismatchError struct {
	Key  string
	Want unit.Kind
	Got  unit.Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("key %q is a %s, not a %s", e.Key, e.Got, e.Want)
}

// Registry is an immutable key -> Instruction lookup. It is built once via a
// Builder and safe for concurrent reads thereafter.
type Registry struct {
	nodes map[string]Instruction
}

// Instruction returns the node registered under key, or an
// UnresolvedKeyError if the key is absent.
func (r *Registry) Instruction(key string) (Instruction, error) {
	n, ok := r.nodes[key]
	if !ok {
		return nil, &UnresolvedKeyError{Key: key}
	}
	return n, nil
}

// Stub returns the stub registered under key. A key that resolves to a
// template fails with a TypeMismatchError.
func (r *Registry) Stub(key string) (*Stub, error) {
	n, err := r.Instruction(key)
	if err != nil {
		return nil, err
	}
	s, ok := n.(*Stub)
	if !ok {
		return nil, &TypeMismatchError{Key: key, Want: unit.KindStub, Got: n.Kind()}
	}
	return s, nil
}

// Template returns the template registered under key. A key that resolves
// to a stub fails with a TypeMismatchError.
func (r *Registry) Template(key string) (*Template, error) {
	n, err := r.Instruction(key)
	if err != nil {
		return nil, err
	}
	t, ok := n.(*Template)
	if !ok {
		return nil, &TypeMismatchError{Key: key, Want: unit.KindTemplate, Got: n.Kind()}
	}
	return t, nil
}

// Keys returns every registered key in lexical order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.nodes))
	for k := range r.nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered instructions.
func (r *Registry) Len() int {
	return len(r.nodes)
}
