package model

// CircuitStatus is the lifecycle state of a circuit as reported by the
// control port's circuit-status listing.
type CircuitStatus string

// Circuit statuses emitted by the control port.
const (
	// CircuitLaunched means the circuit ID was assigned but no hop is built.
	CircuitLaunched CircuitStatus = "LAUNCHED"

	// CircuitBuilt means all hops are in place and the circuit is usable.
	CircuitBuilt CircuitStatus = "BUILT"

	// CircuitGuardWait means the circuit is built but waiting to confirm
	// that its guard is viable.
	CircuitGuardWait CircuitStatus = "GUARD_WAIT"

	// CircuitExtended means one more hop was added to the circuit.
	CircuitExtended CircuitStatus = "EXTENDED"

	// CircuitFailed means the circuit closed unexpectedly.
	CircuitFailed CircuitStatus = "FAILED"

	// CircuitClosed means the circuit was closed normally.
	CircuitClosed CircuitStatus = "CLOSED"
)

// Circuit is one entry of the circuit-status listing: an established or
// in-progress path through the Tor network.
type Circuit struct {
	// ID is the circuit identifier, unique per Tor instance.
	ID string `json:"id"`

	// Status is the circuit lifecycle state.
	Status CircuitStatus `json:"status"`

	// Path is the ordered relay hops of the circuit. Listings truncate
	// long paths, so this may be shorter than the real circuit.
	Path []Hop `json:"path,omitempty"`

	// BuildFlags are the circuit build flags (e.g. NEED_CAPACITY).
	BuildFlags []string `json:"build_flags,omitempty"`

	// Purpose is the circuit purpose (e.g. GENERAL, HS_CLIENT_REND).
	Purpose string `json:"purpose,omitempty"`

	// TimeCreated is the creation timestamp as reported by Tor.
	TimeCreated string `json:"time_created,omitempty"`
}

// IsBuilt reports whether the circuit is fully built and usable.
func (c *Circuit) IsBuilt() bool {
	return c.Status == CircuitBuilt
}

// ExitHop returns the last hop of the path, or nil for a pathless circuit.
func (c *Circuit) ExitHop() *Hop {
	if len(c.Path) == 0 {
		return nil
	}
	return &c.Path[len(c.Path)-1]
}

// Hop is a single relay position within a circuit path.
type Hop struct {
	// Fingerprint is the relay identity fingerprint, upper-case hex
	// without the leading dollar sign.
	Fingerprint string `json:"fingerprint"`

	// Nickname is the relay nickname from the path entry, if present.
	Nickname string `json:"nickname,omitempty"`

	// Relay is the resolved router-status entry for this hop.
	// Nil when the directory lookup failed or was not attempted.
	Relay *Relay `json:"relay,omitempty"`
}
