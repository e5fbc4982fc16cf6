package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/torctl/torctl/internal/model"
)

// SimpleWriter outputs views in human-readable plain text format.
// This is the default writer for terminal output.
type SimpleWriter struct {
	baseWriter
	verbose bool
}

// SimpleWriterOption is a functional option for configuring SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables detailed output: build flags and creation times
// for circuits, bandwidth for relays.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that writes to the specified output.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteCircuits outputs the circuit view in plain text format.
func (w *SimpleWriter) WriteCircuits(circuits []model.Circuit) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 70) + "\n")
	sb.WriteString(fmt.Sprintf("Circuits (%d)\n", len(circuits)))
	sb.WriteString(strings.Repeat("=", 70) + "\n")

	if len(circuits) == 0 {
		sb.WriteString("No circuits are currently open.\n")
		return w.output.Write([]byte(sb.String()))
	}

	for _, c := range circuits {
		sb.WriteString(fmt.Sprintf("\nCircuit %s  %s  purpose=%s\n", c.ID, c.Status, c.Purpose))
		if w.verbose {
			if len(c.BuildFlags) > 0 {
				sb.WriteString(fmt.Sprintf("  flags:   %s\n", strings.Join(c.BuildFlags, ",")))
			}
			if c.TimeCreated != "" {
				sb.WriteString(fmt.Sprintf("  created: %s\n", c.TimeCreated))
			}
		}
		for i, hop := range c.Path {
			sb.WriteString(fmt.Sprintf("  [%d] %s", i+1, hopName(hop)))
			if hop.Relay != nil {
				sb.WriteString(fmt.Sprintf("  %s", hop.Relay.Endpoint()))
				if len(hop.Relay.Flags) > 0 {
					sb.WriteString(fmt.Sprintf("  %s", strings.Join(hop.Relay.Flags, ",")))
				}
				if w.verbose && hop.Relay.Bandwidth > 0 {
					sb.WriteString(fmt.Sprintf("  %d KB/s", hop.Relay.Bandwidth))
				}
			} else {
				sb.WriteString("  (no directory entry)")
			}
			sb.WriteString("\n")
		}
	}

	return w.output.Write([]byte(sb.String()))
}

// WriteStreams outputs the stream view in plain text format.
func (w *SimpleWriter) WriteStreams(streams []model.Stream) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 70) + "\n")
	sb.WriteString(fmt.Sprintf("Streams (%d)\n", len(streams)))
	sb.WriteString(strings.Repeat("=", 70) + "\n")

	if len(streams) == 0 {
		sb.WriteString("No streams are currently open.\n")
		return w.output.Write([]byte(sb.String()))
	}

	for _, s := range streams {
		if s.IsAttached() {
			sb.WriteString(fmt.Sprintf("\nStream %s  %s  circuit=%s\n", s.ID, s.Status, s.CircuitID))
		} else {
			sb.WriteString(fmt.Sprintf("\nStream %s  %s  (unattached)\n", s.ID, s.Status))
		}
		sb.WriteString(fmt.Sprintf("  target: %s\n", s.Target))
		if s.Exit != nil {
			sb.WriteString(fmt.Sprintf("  exit:   %s  %s\n", s.Exit.Nickname, s.Exit.Endpoint()))
		}
	}

	return w.output.Write([]byte(sb.String()))
}

// WriteListeners outputs the SOCKS listener view in plain text format.
func (w *SimpleWriter) WriteListeners(listeners []model.SocksListener) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 70) + "\n")
	sb.WriteString(fmt.Sprintf("SOCKS Listeners (%d)\n", len(listeners)))
	sb.WriteString(strings.Repeat("=", 70) + "\n")

	if len(listeners) == 0 {
		sb.WriteString("No SOCKS listeners are configured.\n")
		return w.output.Write([]byte(sb.String()))
	}

	for _, l := range listeners {
		switch l.Status {
		case model.ListenerOK:
			sb.WriteString(fmt.Sprintf("[+] %s  ok\n", l.String()))
		case model.ListenerUnreachable:
			sb.WriteString(fmt.Sprintf("[!] %s  unreachable\n", l.String()))
		default:
			sb.WriteString(fmt.Sprintf("    %s\n", l.String()))
		}
	}

	return w.output.Write([]byte(sb.String()))
}
