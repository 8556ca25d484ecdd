package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genforge/genforge/internal/registry"
	"github.com/genforge/genforge/internal/unit"
)

func newStub(key string, requires ...string) *registry.Stub {
	return &registry.Stub{
		Meta: registry.Meta{Key: key, Requires: requires},
		Emit: func() (unit.SourceUnit, error) {
			return unit.New(key, key, unit.Provenance{Key: key, Kind: unit.KindStub}), nil
		},
	}
}

func keySet(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// assertTopological fails the test unless every key's requirements inside
// the set appear before the key itself.
func assertTopological(t *testing.T, reg *registry.Registry, set map[string]struct{}, order []string) {
	t.Helper()
	pos := make(map[string]int, len(order))
	for i, key := range order {
		pos[key] = i
	}
	for _, key := range order {
		instr, err := reg.Instruction(key)
		require.NoError(t, err)
		for _, req := range instr.Descriptor().Requires {
			if _, inSet := set[req]; !inSet {
				continue
			}
			assert.Less(t, pos[req], pos[key], "dependency %s must precede %s", req, key)
		}
	}
}

func TestOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("empty set yields empty order", func(t *testing.T) {
		reg := registry.NewBuilder().Build()
		order, err := Order(ctx, reg, nil)
		require.NoError(t, err)
		assert.Empty(t, order)
	})

	t.Run("diamond dependency", func(t *testing.T) {
		// D requires B and C, which both require A.
		reg := registry.NewBuilder().
			AddStub(newStub("A")).
			AddStub(newStub("B", "A")).
			AddStub(newStub("C", "A")).
			AddStub(newStub("D", "B", "C")).
			Build()

		set := keySet("A", "B", "C", "D")
		order, err := Order(ctx, reg, set)
		require.NoError(t, err)
		require.Len(t, order, 4)
		assertTopological(t, reg, set, order)
	})

	t.Run("deterministic lexical tie-breaks", func(t *testing.T) {
		// Three independent roots: any permutation would be topological,
		// but the scheduler must pick the lexical one, every time.
		reg := registry.NewBuilder().
			AddStub(newStub("c")).
			AddStub(newStub("a")).
			AddStub(newStub("b")).
			Build()

		set := keySet("a", "b", "c")
		first, err := Order(ctx, reg, set)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, first)

		for i := 0; i < 10; i++ {
			again, err := Order(ctx, reg, set)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("edges outside the set are ignored", func(t *testing.T) {
		reg := registry.NewBuilder().
			AddStub(newStub("A")).
			AddStub(newStub("B", "A")).
			Build()

		order, err := Order(ctx, reg, keySet("B"))
		require.NoError(t, err)
		assert.Equal(t, []string{"B"}, order)
	})

	t.Run("direct cycle reports both keys", func(t *testing.T) {
		reg := registry.NewBuilder().
			AddStub(newStub("A", "B")).
			AddStub(newStub("B", "A")).
			Build()

		_, err := Order(ctx, reg, keySet("A", "B"))
		var cyclic *CyclicDependencyError
		require.ErrorAs(t, err, &cyclic)
		assert.Equal(t, []string{"A", "B"}, cyclic.Keys)
	})

	t.Run("residual set covers multiple cycles and their dependents", func(t *testing.T) {
		// Two disjoint cycles plus a healthy root; only the root orders.
		reg := registry.NewBuilder().
			AddStub(newStub("ok")).
			AddStub(newStub("p", "q")).
			AddStub(newStub("q", "p")).
			AddStub(newStub("x", "y")).
			AddStub(newStub("y", "x")).
			Build()

		_, err := Order(ctx, reg, keySet("ok", "p", "q", "x", "y"))
		var cyclic *CyclicDependencyError
		require.ErrorAs(t, err, &cyclic)
		assert.Equal(t, []string{"p", "q", "x", "y"}, cyclic.Keys)
	})

	t.Run("long chain orders root first", func(t *testing.T) {
		reg := registry.NewBuilder().
			AddStub(newStub("A")).
			AddStub(newStub("B", "A")).
			AddStub(newStub("C", "B")).
			AddStub(newStub("D", "C")).
			Build()

		order, err := Order(ctx, reg, keySet("A", "B", "C", "D"))
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C", "D"}, order)
	})
}
