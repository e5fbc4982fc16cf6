package control

import "errors"

// Control session errors.
// These cover the failure modes of connecting to and authenticating
// against a control endpoint, so callers can react to each one
// (report remediation for missing auth, fail fast on refused sockets).
var (
	// ErrConnectionRefused is returned when the control endpoint cannot
	// be dialed. Tor may not be running, or the endpoint may be wrong.
	ErrConnectionRefused = errors.New("cannot connect to control endpoint")

	// ErrAuthNotConfigured is returned when the server advertises only
	// NULL authentication: the control port is open but no credential
	// scheme is configured, so no command session is attempted.
	ErrAuthNotConfigured = errors.New("control authentication is not configured")

	// ErrAuthFailed is returned when the server rejects AUTHENTICATE,
	// or when the PROTOCOLINFO exchange yields no usable reply.
	ErrAuthFailed = errors.New("control authentication failed")

	// ErrMissingDependency is returned when a session is constructed
	// without one of its required capabilities.
	ErrMissingDependency = errors.New("missing session dependency")
)
