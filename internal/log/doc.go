// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic sanitization of control-port credentials in log output
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Security Features
//
// The SecureHandler automatically sanitizes sensitive information:
//   - AUTHENTICATE lines carrying a cookie or password payload
//   - Control cookie dumps (64 hex characters)
//   - torrc HashedControlPassword values ("16:" prefixed hex)
//   - Onion service private keys returned by ADD_ONION
//   - Any attribute whose key names a password, cookie, or credential
//
// Even in verbose mode, sensitive values are masked to prevent accidental
// exposure of secrets in logs that may be shared or stored. The session
// layer logs every control line it writes at debug level; this handler is
// what keeps those lines safe to read back.
//
// # Usage
//
//	// Create a secure logger
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Debug("wrote control line",
//	    "line", `AUTHENTICATE "opensesame"`, // masked before output
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
