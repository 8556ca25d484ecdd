// Package engine orchestrates a build: it resolves the transitive closure of
// the requested keys, linearizes it topologically, and walks the order
// emitting each instruction exactly once.
//
// Every emitted unit is memoized in a cache owned by the Engine instance, so
// repeated or overlapping builds never re-emit a key and never re-fire its
// lifecycle observers. The cache also survives failed builds, which makes a
// retried build resume past everything that already succeeded.
//
// Emission within one Build call is strictly sequential: templates consume
// completed upstream stub units, emitters are assumed fast and pure, and a
// deterministic observer order matters more than the marginal throughput of
// speculative parallelism. Concurrent Build calls on one engine are
// serialized by the engine's lock to preserve at-most-once emission.
package engine
