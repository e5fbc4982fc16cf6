package control

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/torctl/torctl/internal/socket"
)

// Transport dials control endpoints. It is injected into the session so
// tests can substitute scripted connections for a live Tor.
type Transport interface {
	// Connect opens a connection to the endpoint.
	Connect(ctx context.Context, desc socket.Descriptor) (net.Conn, error)

	// Pacing is the minimum delay the transport needs between command
	// writes. Zero means commands can be written back to back.
	Pacing() time.Duration
}

// NetTransport is the production transport on top of the net package.
// Dials carry no explicit timeout beyond the operating system's own;
// cancelling the context aborts them.
type NetTransport struct{}

// NewNetTransport returns the production transport.
func NewNetTransport() *NetTransport {
	return &NetTransport{}
}

// Connect implements Transport.
func (*NetTransport) Connect(ctx context.Context, desc socket.Descriptor) (net.Conn, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, desc.Network, desc.Addr())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConnectionRefused, desc, err)
	}
	return conn, nil
}

// Pacing implements Transport. Plain sockets need no line pacing.
func (*NetTransport) Pacing() time.Duration {
	return 0
}
