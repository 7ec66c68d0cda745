// Package observe provides observability primitives for gateway calls.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Consumers wire the observer into the gateway or
// their own call paths.
package observe
