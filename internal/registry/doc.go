// Package registry holds the closed set of instruction nodes a build can
// reference. Keys are exact strings; each key resolves to either a Stub (a
// leaf that emits a unit from nothing) or a Template (a composite that
// combines the units of the stubs it requires).
//
// A Registry is populated once through a Builder and is immutable from then
// on, which makes concurrent reads safe without locking. Validation of the
// dependency edges themselves (existence, acyclicity, stub-only template
// requirements) is deferred to resolution and orchestration time, where the
// failures can be reported against the build that triggered them.
package registry
