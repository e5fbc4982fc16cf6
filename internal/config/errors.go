package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration. They are
// package-level sentinels so callers can branch with errors.Is() while
// still printing a useful message.
var (
	// ErrNoCommand is returned when neither --commands nor positional
	// arguments provide a control command to send.
	ErrNoCommand = errors.New("no command specified: use --commands or pass the command as arguments")

	// ErrInvalidDelay is returned when the inter-command sleep is
	// negative. Use 0 to send commands back to back.
	ErrInvalidDelay = errors.New("invalid sleep interval: must be non-negative")

	// ErrInvalidLookupConcurrency is returned when the relay lookup
	// concurrency is not positive. Zero workers would stall every
	// circuit and stream view.
	ErrInvalidLookupConcurrency = errors.New("invalid lookup concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at
	// a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
