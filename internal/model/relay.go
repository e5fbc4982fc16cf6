package model

import (
	"net"
	"strconv"
)

// Relay is a router-status entry resolved from the directory via a
// ns/id/<fingerprint> lookup.
type Relay struct {
	// Fingerprint is the relay identity fingerprint, upper-case hex.
	Fingerprint string `json:"fingerprint"`

	// Nickname is the relay's self-chosen nickname.
	Nickname string `json:"nickname"`

	// Address is the relay's advertised IPv4 address.
	Address string `json:"address,omitempty"`

	// ORPort is the relay's onion routing port.
	ORPort int `json:"or_port,omitempty"`

	// Flags are the directory flags assigned to the relay
	// (e.g. Fast, Guard, Exit, Stable).
	Flags []string `json:"flags,omitempty"`

	// Bandwidth is the consensus bandwidth estimate in KB/s.
	Bandwidth int `json:"bandwidth,omitempty"`
}

// HasFlag reports whether the relay carries the given directory flag.
// Flag names are compared exactly as the directory spells them.
func (r *Relay) HasFlag(name string) bool {
	for _, f := range r.Flags {
		if f == name {
			return true
		}
	}
	return false
}

// Endpoint returns the relay's OR endpoint as address:port, or just the
// address when no port is known.
func (r *Relay) Endpoint() string {
	if r.ORPort == 0 {
		return r.Address
	}
	return net.JoinHostPort(r.Address, strconv.Itoa(r.ORPort))
}
