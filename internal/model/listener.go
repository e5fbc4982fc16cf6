package model

// Listener check states filled in by the SOCKS view's reachability probe.
const (
	// ListenerOK means the listener answered a SOCKS5 negotiation.
	ListenerOK = "ok"

	// ListenerUnreachable means the listener could not be dialed.
	ListenerUnreachable = "unreachable"
)

// SocksListener is one SOCKS listener advertised by the control port's
// net/listeners/socks listing.
type SocksListener struct {
	// Network is "tcp" for address:port listeners, "unix" for socket files.
	Network string `json:"network"`

	// Address is the listener endpoint: address:port or a socket path.
	Address string `json:"address"`

	// Status is the reachability probe result, empty when not probed.
	Status string `json:"status,omitempty"`
}

// String renders the listener the way Tor advertises it.
func (l SocksListener) String() string {
	if l.Network == "unix" {
		return "unix:" + l.Address
	}
	return l.Address
}
