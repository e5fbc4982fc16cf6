package socket

import "errors"

// Endpoint resolution errors.
// These are returned by Resolve when the operator's socket specification
// cannot be turned into a usable control endpoint.
var (
	// ErrInvalidSocket is returned when a Unix socket specification does
	// not name an existing filesystem socket node, or when the
	// specification matches no recognized form at all.
	ErrInvalidSocket = errors.New("invalid control socket")

	// ErrInvalidPort is returned when the port of a TCP specification is
	// not an integer between 1 and 65535.
	ErrInvalidPort = errors.New("invalid control port")

	// ErrInvalidAddress is returned when the address of a TCP
	// specification is not a dotted-quad IPv4 address. Hostnames are
	// rejected so that no DNS lookup ever happens.
	ErrInvalidAddress = errors.New("invalid control address")
)
