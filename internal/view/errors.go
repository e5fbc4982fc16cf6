package view

import "errors"

// View derivation errors.
var (
	// ErrMissingInfo is returned when a session completes but the reply
	// does not carry the requested info key, for example a fingerprint
	// the directory does not know.
	ErrMissingInfo = errors.New("control reply is missing the requested info key")
)
