// Package model defines the core data structures shared across torctl.
//
// This package contains the following main types:
//   - Circuit, Hop, Relay: entries of the circuit-status listing and the
//     router-status records resolved for their hops
//   - Stream: entries of the stream-status listing
//   - SocksListener: entries of the net/listeners/socks listing
//   - SessionRecord: one completed control session as kept in history
//
// The view package produces these values, the report writers render them,
// and the history database stores SessionRecord. Centralizing them here
// keeps those packages free of import cycles.
//
// All models are serializable to JSON for report output and storage.
package model
