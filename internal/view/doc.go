// Package view derives human-facing listings from control port
// informational queries: the circuit view, the stream view, and the
// SOCKS listener view. Each query runs a complete command session on
// its own connection. Relay fingerprints found in listings are resolved
// to directory entries through a bounded number of concurrent ns/id
// lookups backed by a short-lived cache, so shared guards and repeated
// exits cost one lookup.
package view
