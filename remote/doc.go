// Package remote defines the contract between the gateway and the transport
// client that actually talks to the search service.
//
// The transport itself lives outside this module; it is consumed through the
// Invoker interface. What this package owns is the error taxonomy the rest of
// the module classifies against: network and timeout failures and server-side
// errors are transient (retryable, circuit-relevant), client errors are
// terminal and never retried.
package remote
