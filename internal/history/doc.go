// Package history provides SQLite-based persistence for completed
// control sessions. Every root invocation is recorded with its
// endpoint, command batch, classified outcome, and timing, so operators
// can review what was sent to Tor and when. Credentials are never
// written: the session layer strips AUTHENTICATE lines before a record
// reaches this package.
package history
