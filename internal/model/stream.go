package model

// StreamStatus is the lifecycle state of an application stream as
// reported by the control port's stream-status listing.
type StreamStatus string

// Stream statuses emitted by the control port.
const (
	// StreamNew means a new connection request was received.
	StreamNew StreamStatus = "NEW"

	// StreamNewResolve means a new hostname resolve request was received.
	StreamNewResolve StreamStatus = "NEWRESOLVE"

	// StreamRemap means the stream address was re-mapped to another.
	StreamRemap StreamStatus = "REMAP"

	// StreamSentConnect means a connect cell was sent along the circuit.
	StreamSentConnect StreamStatus = "SENTCONNECT"

	// StreamSentResolve means a resolve cell was sent along the circuit.
	StreamSentResolve StreamStatus = "SENTRESOLVE"

	// StreamSucceeded means the stream is established end to end.
	StreamSucceeded StreamStatus = "SUCCEEDED"

	// StreamFailed means the stream failed and cannot be retried.
	StreamFailed StreamStatus = "FAILED"

	// StreamClosed means the stream closed normally.
	StreamClosed StreamStatus = "CLOSED"

	// StreamDetached was detached from its circuit and may be retried.
	StreamDetached StreamStatus = "DETACHED"
)

// Stream is one entry of the stream-status listing: an application
// connection multiplexed over a circuit.
type Stream struct {
	// ID is the stream identifier, unique per Tor instance.
	ID string `json:"id"`

	// Status is the stream lifecycle state.
	Status StreamStatus `json:"status"`

	// CircuitID is the circuit the stream is attached to.
	// "0" means the stream is unattached.
	CircuitID string `json:"circuit_id"`

	// Target is the destination as address:port.
	Target string `json:"target"`

	// Exit is the resolved exit relay of the stream's circuit.
	// Nil when the stream is unattached or the lookup failed.
	Exit *Relay `json:"exit,omitempty"`
}

// IsAttached reports whether the stream is attached to a circuit.
func (s *Stream) IsAttached() bool {
	return s.CircuitID != "" && s.CircuitID != "0"
}
