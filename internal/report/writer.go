package report

import (
	"io"

	"github.com/torctl/torctl/internal/model"
)

// Writer defines the interface for view output. Implementations render
// the derived circuit, stream, and listener views in various formats.
// Using an interface keeps the same API for writing to files, stdout,
// or network connections.
type Writer interface {
	// WriteCircuits outputs the circuit view.
	// Returns the number of bytes written and any error encountered.
	WriteCircuits(circuits []model.Circuit) (int, error)

	// WriteStreams outputs the stream view.
	WriteStreams(streams []model.Stream) (int, error)

	// WriteListeners outputs the SOCKS listener view.
	WriteListeners(listeners []model.SocksListener) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file. It is a
// separate type rather than io.MultiWriter because our Writer interface
// carries views, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteCircuits outputs the circuit view to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteCircuits(circuits []model.Circuit) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteCircuits(circuits)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteStreams outputs the stream view to all configured Writers.
func (m *MultiWriter) WriteStreams(streams []model.Stream) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteStreams(streams)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteListeners outputs the listener view to all configured Writers.
func (m *MultiWriter) WriteListeners(listeners []model.SocksListener) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteListeners(listeners)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for view writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// hopName returns the best display name for a hop: the resolved relay
// nickname, then the path entry nickname, then the raw fingerprint.
func hopName(h model.Hop) string {
	if h.Relay != nil && h.Relay.Nickname != "" {
		return h.Relay.Nickname
	}
	if h.Nickname != "" {
		return h.Nickname
	}
	return h.Fingerprint
}
