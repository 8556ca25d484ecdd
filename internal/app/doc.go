// Package app wires the manifest loader, registry, and build engine into a
// runnable application with its own isolated logger. The engine performs no
// file I/O; writing emitted units to disk happens here.
package app
