// Package manifest loads instruction declarations from HCL files and
// populates a registry from them.
//
// A manifest declares stubs and templates:
//
//	stub "Greeting" {
//	  domain  = "demo"
//	  mode    = "snippet"
//	  content = "hello"
//	}
//
//	template "Letter" {
//	  domain   = "demo"
//	  requires = ["Greeting"]
//	  content  = "${units.Greeting} world"
//	}
//
// Stub content must be self-contained and is evaluated once at load time.
// Template content is captured into the emitter and evaluated at emission
// time against the units of the required stubs: the `units` variable is an
// object keyed by stub key, and `contents` is a tuple of the same values in
// the declared requires order.
package manifest
