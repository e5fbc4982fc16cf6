// Package main provides the entry point for the torctl CLI.
//
// torctl is a command-line client for the Tor control protocol.
// It sends a batch of control commands to a local Tor over one
// authenticated session, and derives human-readable views of circuits,
// streams, and SOCKS listeners from the informational queries.
//
// Usage:
//
//	torctl -c "GETCONF SocksPort"
//	torctl circuits
//
// See --help for all available options.
package main

// main is the entry point for torctl.
func main() {
	Execute()
}
