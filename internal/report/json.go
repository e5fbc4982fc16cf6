package report

import (
	"encoding/json"
	"io"

	"github.com/torctl/torctl/internal/model"
)

// JSONWriter outputs views in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter:   newBaseWriter(output),
		indent:       false,
		indentPrefix: "",
		indentString: "",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteCircuits outputs the circuit view as a JSON array.
// A nil slice is written as an empty array rather than null so consumers
// can always range over the result.
func (w *JSONWriter) WriteCircuits(circuits []model.Circuit) (int, error) {
	if circuits == nil {
		circuits = []model.Circuit{}
	}
	return w.writeJSON(circuits)
}

// WriteStreams outputs the stream view as a JSON array.
func (w *JSONWriter) WriteStreams(streams []model.Stream) (int, error) {
	if streams == nil {
		streams = []model.Stream{}
	}
	return w.writeJSON(streams)
}

// WriteListeners outputs the SOCKS listener view as a JSON array.
func (w *JSONWriter) WriteListeners(listeners []model.SocksListener) (int, error) {
	if listeners == nil {
		listeners = []model.SocksListener{}
	}
	return w.writeJSON(listeners)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
