package socket

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// Network kinds a Descriptor can carry.
const (
	// NetworkUnix is a Unix domain socket endpoint.
	NetworkUnix = "unix"

	// NetworkTCP is a TCP endpoint.
	NetworkTCP = "tcp"
)

// DefaultControlPort is the conventional Tor control port.
const DefaultControlPort = 9051

// defaultControlHost is assumed when a TCP specification carries no address.
const defaultControlHost = "127.0.0.1"

// Descriptor is a resolved control endpoint: a Unix socket path or a
// TCP host:port pair.
type Descriptor struct {
	// Network is NetworkUnix or NetworkTCP.
	Network string

	// Path is the socket path for Unix endpoints.
	Path string

	// Host is the IPv4 address for TCP endpoints.
	Host string

	// Port is the TCP port for TCP endpoints.
	Port int
}

// Addr returns the dial address for the descriptor's network: the socket
// path for Unix endpoints, host:port for TCP endpoints.
func (d Descriptor) Addr() string {
	if d.Network == NetworkUnix {
		return d.Path
	}
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// String renders the descriptor in resolver notation: unix:/path for
// Unix endpoints, host:port for TCP endpoints.
func (d Descriptor) String() string {
	if d.Network == NetworkUnix {
		return "unix:" + d.Path
	}
	return d.Addr()
}

// DefaultDescriptor returns the conventional control endpoint,
// TCP 127.0.0.1:9051.
func DefaultDescriptor() Descriptor {
	return Descriptor{Network: NetworkTCP, Host: defaultControlHost, Port: DefaultControlPort}
}

// Resolve turns a socket specification into a Descriptor.
//
// A specification starting with "/" or "unix:" names a Unix socket; the
// path must reference an existing filesystem socket node. A specification
// starting with a digit is a TCP endpoint of the form [address:]port,
// split on the last colon, with 127.0.0.1 assumed when the address is
// absent. The address must be a dotted quad; hostnames are rejected.
//
// An empty specification is valid and resolves to no descriptor
// (nil, nil), signalling the caller to try autodiscovery instead.
func Resolve(raw string) (*Descriptor, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "unix:") {
		return resolveUnix(strings.TrimPrefix(raw, "unix:"))
	}

	if raw[0] >= '0' && raw[0] <= '9' {
		return resolveTCP(raw)
	}

	return nil, fmt.Errorf("%w: unrecognized specification %q", ErrInvalidSocket, raw)
}

// resolveUnix validates that path names an existing socket node.
func resolveUnix(path string) (*Descriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSocket, path, err)
	}
	if info.Mode()&os.ModeSocket == 0 {
		return nil, fmt.Errorf("%w: %q is not a socket node", ErrInvalidSocket, path)
	}
	return &Descriptor{Network: NetworkUnix, Path: path}, nil
}

// resolveTCP parses an [address:]port specification.
func resolveTCP(raw string) (*Descriptor, error) {
	host, port := defaultControlHost, raw
	if i := strings.LastIndex(raw, ":"); i >= 0 {
		host, port = raw[:i], raw[i+1:]
	}

	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return nil, fmt.Errorf("%w: %q is not in 1-65535", ErrInvalidPort, port)
	}
	if err := validateQuad(host); err != nil {
		return nil, err
	}
	return &Descriptor{Network: NetworkTCP, Host: host, Port: n}, nil
}

// validateQuad checks that addr is four dot-separated decimal octets,
// each between 0 and 255.
func validateQuad(addr string) error {
	octets := strings.Split(addr, ".")
	if len(octets) != 4 {
		return fmt.Errorf("%w: %q is not a dotted quad", ErrInvalidAddress, addr)
	}
	for _, octet := range octets {
		n, err := strconv.Atoi(octet)
		if err != nil || n < 0 || n > 255 {
			return fmt.Errorf("%w: %q has octet %q outside 0-255", ErrInvalidAddress, addr, octet)
		}
	}
	return nil
}
