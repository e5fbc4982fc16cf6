package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/torctl/torctl/internal/model"
)

// testCircuits returns a circuit view with one built and one pending circuit.
func testCircuits() []model.Circuit {
	guard := &model.Relay{
		Fingerprint: strings.Repeat("A", 40),
		Nickname:    "guard1",
		Address:     "198.51.100.10",
		ORPort:      9001,
		Flags:       []string{"Fast", "Guard", "Running"},
		Bandwidth:   12000,
	}
	middle := &model.Relay{
		Fingerprint: strings.Repeat("B", 40),
		Nickname:    "middle1",
		Address:     "203.0.113.20",
		ORPort:      443,
		Flags:       []string{"Fast", "Running"},
		Bandwidth:   8500,
	}
	exit := &model.Relay{
		Fingerprint: strings.Repeat("C", 40),
		Nickname:    "exit1",
		Address:     "192.0.2.30",
		ORPort:      9001,
		Flags:       []string{"Exit", "Fast", "Running"},
		Bandwidth:   20000,
	}

	return []model.Circuit{
		{
			ID:     "1",
			Status: model.CircuitBuilt,
			Path: []model.Hop{
				{Fingerprint: guard.Fingerprint, Nickname: guard.Nickname, Relay: guard},
				{Fingerprint: middle.Fingerprint, Nickname: middle.Nickname, Relay: middle},
				{Fingerprint: exit.Fingerprint, Nickname: exit.Nickname, Relay: exit},
			},
			BuildFlags:  []string{"NEED_CAPACITY"},
			Purpose:     "GENERAL",
			TimeCreated: "2026-03-14T09:00:00.000000",
		},
		{
			ID:     "2",
			Status: model.CircuitExtended,
			Path: []model.Hop{
				{Fingerprint: strings.Repeat("D", 40)},
			},
			Purpose: "GENERAL",
		},
	}
}

// testStreams returns a stream view with one attached and one unattached stream.
func testStreams() []model.Stream {
	return []model.Stream{
		{
			ID:        "5",
			Status:    model.StreamSucceeded,
			CircuitID: "1",
			Target:    "example.com:443",
			Exit: &model.Relay{
				Fingerprint: strings.Repeat("C", 40),
				Nickname:    "exit1",
				Address:     "192.0.2.30",
				ORPort:      9001,
			},
		},
		{
			ID:        "6",
			Status:    model.StreamNew,
			CircuitID: "0",
			Target:    "check.torproject.org:80",
		},
	}
}

// testListeners returns a listener view with probed and unprobed entries.
func testListeners() []model.SocksListener {
	return []model.SocksListener{
		{Network: "tcp", Address: "127.0.0.1:9050", Status: model.ListenerOK},
		{Network: "unix", Address: "/run/tor/socks", Status: model.ListenerUnreachable},
	}
}

// TestSimpleWriter tests the human-readable circuit view writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes circuit header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		_, err := w.WriteCircuits(testCircuits())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Circuits (2)") {
			t.Error("expected output to contain circuit count header")
		}
		if !strings.Contains(output, "Circuit 1  BUILT  purpose=GENERAL") {
			t.Error("expected output to contain circuit summary line")
		}
	})

	t.Run("resolves hop names and endpoints", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		_, err := w.WriteCircuits(testCircuits())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[1] guard1") {
			t.Error("expected output to contain first hop nickname")
		}
		if !strings.Contains(output, "198.51.100.10:9001") {
			t.Error("expected output to contain relay endpoint")
		}
		if !strings.Contains(output, "Fast,Guard,Running") {
			t.Error("expected output to contain relay flags")
		}
	})

	t.Run("marks unresolved hops", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		_, err := w.WriteCircuits(testCircuits())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, strings.Repeat("D", 40)) {
			t.Error("expected output to fall back to the raw fingerprint")
		}
		if !strings.Contains(output, "(no directory entry)") {
			t.Error("expected output to mark the unresolved hop")
		}
	})

	t.Run("verbose mode includes build detail", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))

		_, err := w.WriteCircuits(testCircuits())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "NEED_CAPACITY") {
			t.Error("expected verbose output to contain build flags")
		}
		if !strings.Contains(output, "created: 2026-03-14") {
			t.Error("expected verbose output to contain creation time")
		}
		if !strings.Contains(output, "12000 KB/s") {
			t.Error("expected verbose output to contain relay bandwidth")
		}
	})

	t.Run("hides build detail by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		_, err := w.WriteCircuits(testCircuits())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "NEED_CAPACITY") {
			t.Error("should not show build flags without verbose")
		}
		if strings.Contains(output, "KB/s") {
			t.Error("should not show bandwidth without verbose")
		}
	})

	t.Run("handles empty circuit list", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		_, err := w.WriteCircuits(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "No circuits are currently open.") {
			t.Error("expected empty-view message")
		}
	})
}

// TestSimpleWriterStreams tests the human-readable stream view writer.
func TestSimpleWriterStreams(t *testing.T) {
	t.Parallel()

	t.Run("writes attached streams", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		_, err := w.WriteStreams(testStreams())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Stream 5  SUCCEEDED  circuit=1") {
			t.Error("expected output to contain attached stream summary")
		}
		if !strings.Contains(output, "target: example.com:443") {
			t.Error("expected output to contain stream target")
		}
		if !strings.Contains(output, "exit:   exit1") {
			t.Error("expected output to contain exit relay")
		}
	})

	t.Run("marks unattached streams", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		_, err := w.WriteStreams(testStreams())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "Stream 6  NEW  (unattached)") {
			t.Error("expected output to mark the unattached stream")
		}
	})

	t.Run("handles empty stream list", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		_, err := w.WriteStreams(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "No streams are currently open.") {
			t.Error("expected empty-view message")
		}
	})
}

// TestSimpleWriterListeners tests the human-readable listener view writer.
func TestSimpleWriterListeners(t *testing.T) {
	t.Parallel()

	t.Run("marks probe results", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		_, err := w.WriteListeners(testListeners())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[+] 127.0.0.1:9050  ok") {
			t.Error("expected output to mark the reachable listener")
		}
		if !strings.Contains(output, "[!] unix:/run/tor/socks  unreachable") {
			t.Error("expected output to mark the unreachable listener")
		}
	})

	t.Run("omits markers when not probed", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		listeners := []model.SocksListener{
			{Network: "tcp", Address: "127.0.0.1:9050"},
		}
		_, err := w.WriteListeners(listeners)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "127.0.0.1:9050") {
			t.Error("expected output to contain listener address")
		}
		if strings.Contains(output, "[+]") || strings.Contains(output, "[!]") {
			t.Error("should not show probe markers for unprobed listeners")
		}
	})

	t.Run("handles empty listener list", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		_, err := w.WriteListeners(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "No SOCKS listeners are configured.") {
			t.Error("expected empty-view message")
		}
	})
}

// TestJSONWriter tests the JSON view writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		_, err := w.WriteCircuits(testCircuits())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed []model.Circuit
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if len(parsed) != 2 {
			t.Fatalf("expected 2 circuits, got %d", len(parsed))
		}
		if parsed[0].ID != "1" {
			t.Errorf("expected circuit ID %q, got %q", "1", parsed[0].ID)
		}
		if parsed[0].Path[0].Relay.Nickname != "guard1" {
			t.Errorf("expected guard nickname %q, got %q",
				"guard1", parsed[0].Path[0].Relay.Nickname)
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		_, err := w.WriteCircuits(testCircuits())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) > 1 {
			t.Errorf("expected compact output (1 line), got %d lines", len(lines))
		}
	})

	t.Run("pretty print with indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		_, err := w.WriteCircuits(testCircuits())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) < 5 {
			t.Errorf("expected multi-line output, got %d lines", len(lines))
		}
	})

	t.Run("nil view becomes empty array", func(t *testing.T) {
		t.Parallel()

		var circuits, streams, listeners bytes.Buffer
		if _, err := NewJSONWriter(&circuits).WriteCircuits(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := NewJSONWriter(&streams).WriteStreams(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := NewJSONWriter(&listeners).WriteListeners(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, buf := range []*bytes.Buffer{&circuits, &streams, &listeners} {
			if got := strings.TrimSpace(buf.String()); got != "[]" {
				t.Errorf("expected empty array, got %q", got)
			}
		}
	})

	t.Run("streams round trip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		_, err := w.WriteStreams(testStreams())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed []model.Stream
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if len(parsed) != 2 {
			t.Fatalf("expected 2 streams, got %d", len(parsed))
		}
		if parsed[0].CircuitID != "1" {
			t.Errorf("expected circuit ID %q, got %q", "1", parsed[0].CircuitID)
		}
		if parsed[1].Exit != nil {
			t.Error("expected unattached stream to have no exit relay")
		}
	})
}

// TestWithIndent tests the WithIndent JSON option.
func TestWithIndent(t *testing.T) {
	t.Parallel()

	t.Run("uses custom prefix and indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithIndent(">>", "\t"))

		_, err := w.WriteCircuits(testCircuits())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) < 5 {
			t.Errorf("expected multi-line output, got %d lines", len(lines))
		}
		if !strings.Contains(output, ">>") {
			t.Error("expected custom prefix '>>' in output")
		}
		if !strings.Contains(output, "\t") {
			t.Error("expected tab indentation in output")
		}
	})
}

// TestMarkdownWriter tests the Markdown view writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes circuit table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		_, err := w.WriteCircuits(testCircuits())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Tor Circuits") {
			t.Error("expected output to contain H1 header")
		}
		if !strings.Contains(output, "guard1, middle1, exit1") {
			t.Error("expected output to contain the circuit path")
		}
		if !strings.Contains(output, "BUILT") {
			t.Error("expected output to contain circuit status")
		}
	})

	t.Run("includes status chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		_, err := w.WriteCircuits(testCircuits())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "mermaid") {
			t.Error("expected output to contain a mermaid chart")
		}
		if !strings.Contains(output, "Circuit Status Distribution") {
			t.Error("expected output to contain the chart title")
		}
	})

	t.Run("lists distinct relays once", func(t *testing.T) {
		t.Parallel()

		shared := &model.Relay{
			Fingerprint: strings.Repeat("A", 40),
			Nickname:    "guard1",
			Address:     "198.51.100.10",
			ORPort:      9001,
		}
		circuits := []model.Circuit{
			{ID: "1", Status: model.CircuitBuilt, Path: []model.Hop{
				{Fingerprint: shared.Fingerprint, Nickname: shared.Nickname, Relay: shared},
			}},
			{ID: "2", Status: model.CircuitBuilt, Path: []model.Hop{
				{Fingerprint: shared.Fingerprint, Nickname: shared.Nickname, Relay: shared},
			}},
		}

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		_, err := w.WriteCircuits(circuits)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## Relays") {
			t.Error("expected output to contain relay section")
		}
		if got := strings.Count(output, shared.Fingerprint); got != 1 {
			t.Errorf("expected shared relay listed once, got %d occurrences", got)
		}
	})

	t.Run("warns when nothing is built", func(t *testing.T) {
		t.Parallel()

		circuits := []model.Circuit{
			{ID: "1", Status: model.CircuitExtended, Purpose: "GENERAL"},
			{ID: "2", Status: model.CircuitLaunched, Purpose: "GENERAL"},
		}

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		_, err := w.WriteCircuits(circuits)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "BUILT state") {
			t.Error("expected a warning about unbuilt circuits")
		}
	})

	t.Run("no warning when a circuit is built", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		_, err := w.WriteCircuits(testCircuits())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(buf.String(), "BUILT state") {
			t.Error("should not warn when a circuit is built")
		}
	})

	t.Run("notes empty views", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		_, err := w.WriteCircuits(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "No circuits are currently open.") {
			t.Error("expected empty-view note")
		}
	})

	t.Run("writes stream table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		_, err := w.WriteStreams(testStreams())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Tor Streams") {
			t.Error("expected output to contain H1 header")
		}
		if !strings.Contains(output, "exit1 (192.0.2.30:9001)") {
			t.Error("expected output to contain the exit relay")
		}
		if !strings.Contains(output, "example.com:443") {
			t.Error("expected output to contain the stream target")
		}
	})

	t.Run("truncates long stream targets", func(t *testing.T) {
		t.Parallel()

		streams := []model.Stream{
			{
				ID:        "7",
				Status:    model.StreamSucceeded,
				CircuitID: "1",
				Target:    strings.Repeat("x", 80) + ".example.com:443",
			},
		}

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		_, err := w.WriteStreams(streams)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "...") {
			t.Error("expected long target to be truncated")
		}
		if strings.Contains(output, strings.Repeat("x", 80)) {
			t.Error("expected full target to be cut off")
		}
	})

	t.Run("writes listener table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		_, err := w.WriteListeners(testListeners())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# SOCKS Listeners") {
			t.Error("expected output to contain H1 header")
		}
		if !strings.Contains(output, "unix:/run/tor/socks") {
			t.Error("expected output to contain the unix listener")
		}
		if !strings.Contains(output, "did not answer") {
			t.Error("expected a warning about the unreachable listener")
		}
	})
}

// TestMultiWriter tests writing to multiple outputs.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var buf1, buf2 bytes.Buffer
		w1 := NewSimpleWriter(&buf1)
		w2 := NewJSONWriter(&buf2)

		multi := NewMultiWriter(w1, w2)

		n, err := multi.WriteCircuits(testCircuits())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if buf1.Len() == 0 {
			t.Error("expected buf1 to have content")
		}
		if buf2.Len() == 0 {
			t.Error("expected buf2 to have content")
		}
		if n != buf1.Len()+buf2.Len() {
			t.Errorf("expected %d total bytes, got %d", buf1.Len()+buf2.Len(), n)
		}

		// Verify formats are different
		if strings.Contains(buf1.String(), "{") {
			t.Error("expected buf1 (simple) to not be JSON")
		}
		if !strings.Contains(buf2.String(), "{") {
			t.Error("expected buf2 (JSON) to contain JSON")
		}
	})

	t.Run("handles empty writers list", func(t *testing.T) {
		t.Parallel()

		multi := NewMultiWriter()

		n, err := multi.WriteStreams(testStreams())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 bytes written for empty writers, got %d", n)
		}
	})
}

// TestTruncateString tests the string truncation helper.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "short string unchanged", input: "circuit", maxLen: 10, expected: "circuit"},
		{name: "exact length unchanged", input: "circuit", maxLen: 7, expected: "circuit"},
		{name: "long string truncated", input: "circuit-status", maxLen: 10, expected: "circuit..."},
		{name: "tiny limit has no ellipsis", input: "circuit", maxLen: 3, expected: "cir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := truncateString(tt.input, tt.maxLen); got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}
}

// TestHopName tests the hop display-name fallback order.
func TestHopName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hop      model.Hop
		expected string
	}{
		{
			name: "prefers resolved relay nickname",
			hop: model.Hop{
				Fingerprint: strings.Repeat("A", 40),
				Nickname:    "pathname",
				Relay:       &model.Relay{Nickname: "resolved"},
			},
			expected: "resolved",
		},
		{
			name: "falls back to path nickname",
			hop: model.Hop{
				Fingerprint: strings.Repeat("A", 40),
				Nickname:    "pathname",
			},
			expected: "pathname",
		},
		{
			name: "falls back to fingerprint",
			hop: model.Hop{
				Fingerprint: strings.Repeat("A", 40),
			},
			expected: strings.Repeat("A", 40),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := hopName(tt.hop); got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}
}
