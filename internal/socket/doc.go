// Package socket resolves and discovers Tor control endpoints.
//
// A control endpoint is either a Unix socket path or a TCP address:port
// pair. Resolve turns the operator's socket specification into a typed
// Descriptor; Discover finds the endpoint of the locally running Tor by
// reading its own configuration (systemd unit files, tor --verify-config
// output, well-known torrc locations) and falls back to the conventional
// 127.0.0.1:9051 when nothing can be found.
//
// Hostnames are never resolved: TCP addresses must be dotted quads so
// that no invocation ever touches DNS.
package socket
