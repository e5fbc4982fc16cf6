package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/torctl/torctl/internal/model"
)

// MarkdownWriter outputs views in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteCircuits outputs the circuit view in Markdown format.
func (w *MarkdownWriter) WriteCircuits(circuits []model.Circuit) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Tor Circuits")
	md.PlainText("")

	if len(circuits) == 0 {
		md.Note("No circuits are currently open.")
		md.PlainText("")
		w.writeFooter(md)
		return len(md.String()), md.Build()
	}

	w.writeCircuitTable(md, circuits)
	w.writeStatusChart(md, circuits)
	w.writeCircuitAlert(md, circuits)
	w.writeRelayTable(md, circuits)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeCircuitTable writes one row per circuit with its relay path.
func (w *MarkdownWriter) writeCircuitTable(md *markdown.Markdown, circuits []model.Circuit) {
	rows := make([][]string, len(circuits))
	for i, c := range circuits {
		created := c.TimeCreated
		if created == "" {
			created = "-"
		}

		path := "-"
		if len(c.Path) > 0 {
			names := make([]string, len(c.Path))
			for j, hop := range c.Path {
				names[j] = hopName(hop)
			}
			path = strings.Join(names, ", ")
		}

		rows[i] = []string{c.ID, string(c.Status), c.Purpose, created, path}
	}

	md.Table(markdown.TableSet{
		Header: []string{"ID", "Status", "Purpose", "Created", "Path"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeStatusChart writes a mermaid pie chart of circuit status distribution.
func (w *MarkdownWriter) writeStatusChart(md *markdown.Markdown, circuits []model.Circuit) {
	counts := make(map[model.CircuitStatus]int)
	order := make([]model.CircuitStatus, 0, len(circuits))
	for _, c := range circuits {
		if _, ok := counts[c.Status]; !ok {
			order = append(order, c.Status)
		}
		counts[c.Status]++
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Circuit Status Distribution"),
		piechart.WithShowData(true),
	)
	for _, status := range order {
		chart.LabelAndIntValue(string(status), uint64(counts[status]))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeCircuitAlert warns when no circuit is usable.
func (w *MarkdownWriter) writeCircuitAlert(md *markdown.Markdown, circuits []model.Circuit) {
	for _, c := range circuits {
		if c.IsBuilt() {
			return
		}
	}
	md.Warningf(
		"None of the %d circuit(s) are in the BUILT state. Traffic cannot be carried until a circuit finishes building.",
		len(circuits),
	)
	md.PlainText("")
}

// writeRelayTable writes the distinct relays seen across all circuit paths.
func (w *MarkdownWriter) writeRelayTable(md *markdown.Markdown, circuits []model.Circuit) {
	seen := make(map[string]bool)
	var rows [][]string
	for _, c := range circuits {
		for _, hop := range c.Path {
			if hop.Relay == nil || seen[hop.Relay.Fingerprint] {
				continue
			}
			seen[hop.Relay.Fingerprint] = true

			r := hop.Relay
			flags := "-"
			if len(r.Flags) > 0 {
				flags = strings.Join(r.Flags, ", ")
			}
			rows = append(rows, []string{
				"`" + r.Fingerprint + "`",
				r.Nickname,
				r.Endpoint(),
				flags,
				strconv.Itoa(r.Bandwidth) + " KB/s",
			})
		}
	}
	if len(rows) == 0 {
		return
	}

	md.H2("Relays")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Fingerprint", "Nickname", "Endpoint", "Flags", "Bandwidth"},
		Rows:   rows,
	})
	md.PlainText("")
}

// WriteStreams outputs the stream view in Markdown format.
func (w *MarkdownWriter) WriteStreams(streams []model.Stream) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Tor Streams")
	md.PlainText("")

	if len(streams) == 0 {
		md.Note("No streams are currently open.")
		md.PlainText("")
		w.writeFooter(md)
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(streams))
	for i, s := range streams {
		circuit := "-"
		if s.IsAttached() {
			circuit = s.CircuitID
		}

		exit := "-"
		if s.Exit != nil {
			exit = s.Exit.Nickname + " (" + s.Exit.Endpoint() + ")"
		}

		rows[i] = []string{s.ID, string(s.Status), circuit, truncateString(s.Target, 50), exit}
	}

	md.Table(markdown.TableSet{
		Header: []string{"ID", "Status", "Circuit", "Target", "Exit"},
		Rows:   rows,
	})
	md.PlainText("")
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteListeners outputs the SOCKS listener view in Markdown format.
func (w *MarkdownWriter) WriteListeners(listeners []model.SocksListener) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("SOCKS Listeners")
	md.PlainText("")

	if len(listeners) == 0 {
		md.Note("No SOCKS listeners are configured.")
		md.PlainText("")
		w.writeFooter(md)
		return len(md.String()), md.Build()
	}

	unreachable := 0
	rows := make([][]string, len(listeners))
	for i, l := range listeners {
		status := "-"
		switch l.Status {
		case model.ListenerOK:
			status = "✅ ok"
		case model.ListenerUnreachable:
			status = "❌ unreachable"
			unreachable++
		}
		rows[i] = []string{"`" + l.String() + "`", l.Network, status}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Listener", "Network", "Status"},
		Rows:   rows,
	})
	md.PlainText("")

	if unreachable > 0 {
		md.Warningf("%d listener(s) did not answer a SOCKS5 negotiation.", unreachable)
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Generated by torctl*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
