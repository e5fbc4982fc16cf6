package control

import "strings"

// Reply line separators defined by the control protocol.
const (
	// SepTerminal marks the final line of a reply.
	SepTerminal byte = ' '

	// SepContinued marks a reply that continues on the next line.
	SepContinued byte = '-'

	// SepData marks a line followed by a data block terminated by a
	// line holding a single dot.
	SepData byte = '+'
)

// Status codes the client reacts to.
const (
	// StatusOK is the positive-completion code.
	StatusOK = 250

	// StatusAuthRequired is returned to commands sent before a
	// successful AUTHENTICATE.
	StatusAuthRequired = 514

	// StatusAuthRejected is returned when AUTHENTICATE itself fails.
	StatusAuthRejected = 515
)

// expectedOKLines is the classifier's success criterion: one positive
// line each for AUTHENTICATE, the final batch command, and QUIT.
const expectedOKLines = 3

// ReplyLine is one parsed status line: <3-digit code><separator><text>.
type ReplyLine struct {
	// StatusCode is the three-digit reply code.
	StatusCode int

	// Separator is SepTerminal, SepContinued, or SepData.
	Separator byte

	// Text is the rest of the line after the separator.
	Text string
}

// ParseReplyLine parses one raw reply line. It reports false for data
// block payload lines and anything else that does not match the status
// line framing.
func ParseReplyLine(raw string) (ReplyLine, bool) {
	raw = strings.TrimRight(raw, "\r")
	if len(raw) < 4 {
		return ReplyLine{}, false
	}

	code := 0
	for i := 0; i < 3; i++ {
		c := raw[i]
		if c < '0' || c > '9' {
			return ReplyLine{}, false
		}
		code = code*10 + int(c-'0')
	}

	sep := raw[3]
	if sep != SepTerminal && sep != SepContinued && sep != SepData {
		return ReplyLine{}, false
	}
	return ReplyLine{StatusCode: code, Separator: sep, Text: raw[4:]}, true
}

// Reply is one complete server reply: its status lines plus any data
// block payload, with the verbatim text preserved.
type Reply struct {
	// Lines are the status lines of the reply, in order.
	Lines []ReplyLine

	// Data holds the payload lines of data blocks, dot-stuffing removed.
	Data []string

	// Raw is the reply's text with line endings normalized to \n.
	Raw string
}

// Status returns the reply's final status code, or 0 for an empty reply.
func (r *Reply) Status() int {
	if len(r.Lines) == 0 {
		return 0
	}
	return r.Lines[len(r.Lines)-1].StatusCode
}

// Text returns the text of the reply's final status line.
func (r *Reply) Text() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return r.Lines[len(r.Lines)-1].Text
}

// IsOK reports whether the reply completed positively.
func (r *Reply) IsOK() bool {
	return r.Status() == StatusOK
}

// Result is the classified outcome of one drained session.
type Result struct {
	// Raw is the accumulated reply stream exactly as received.
	Raw string

	// Lines are all parsed status lines, payload lines excluded.
	Lines []ReplyLine

	// Replies are the positional reply groups: the first acknowledges
	// AUTHENTICATE, the last acknowledges QUIT, and the groups between
	// map onto the command batch in order.
	Replies []Reply
}

// Classify parses a drained reply stream into a Result. Lines that do
// not match the framing are kept in the raw text but not parsed.
func Classify(raw string) *Result {
	result := &Result{Raw: raw}

	var (
		current Reply
		rawBuf  strings.Builder
		inData  bool
	)
	flush := func() {
		if len(current.Lines) == 0 && len(current.Data) == 0 {
			return
		}
		current.Raw = rawBuf.String()
		result.Replies = append(result.Replies, current)
		current = Reply{}
		rawBuf.Reset()
	}

	lines := strings.Split(raw, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if line == "" && !inData {
			continue
		}
		rawBuf.WriteString(line)
		rawBuf.WriteByte('\n')

		if inData {
			if line == "." {
				inData = false
				continue
			}
			if strings.HasPrefix(line, "..") {
				line = line[1:]
			}
			current.Data = append(current.Data, line)
			continue
		}

		parsed, ok := ParseReplyLine(line)
		if !ok {
			continue
		}
		current.Lines = append(current.Lines, parsed)
		result.Lines = append(result.Lines, parsed)

		switch parsed.Separator {
		case SepData:
			inData = true
		case SepTerminal:
			flush()
		}
	}
	flush()
	return result
}

// OKLineCount counts raw lines whose status prefix is the positive
// completion code. The count deliberately runs over the raw stream
// rather than the parsed groups, so a data block payload line starting
// with the code inflates it.
func (r *Result) OKLineCount() int {
	count := 0
	for _, line := range strings.Split(r.Raw, "\n") {
		if strings.HasPrefix(line, "250") {
			count++
		}
	}
	return count
}

// Succeeded reports the session verdict: exactly one positive line each
// for AUTHENTICATE, the final batch command, and QUIT.
//
// Known fragility, kept for compatibility with the tool lineage this
// client follows: informational replies spanning several positive lines
// (GETINFO data blocks, batches where every command acks) change the
// count, and such sessions classify as failure even though the server
// answered positively.
func (r *Result) Succeeded() bool {
	return r.OKLineCount() == expectedOKLines
}

// Rejection returns the first authentication refusal in the stream.
func (r *Result) Rejection() (ReplyLine, bool) {
	for _, line := range r.Lines {
		if line.StatusCode == StatusAuthRejected || line.StatusCode == StatusAuthRequired {
			return line, true
		}
	}
	return ReplyLine{}, false
}

// AuthRejected reports whether the server refused authentication
// anywhere in the stream.
func (r *Result) AuthRejected() bool {
	_, rejected := r.Rejection()
	return rejected
}

// CommandReplies returns the reply groups for the command batch,
// excluding the AUTHENTICATE and QUIT acknowledgements. It returns nil
// when the stream has too few groups to carve those out.
func (r *Result) CommandReplies() []Reply {
	if len(r.Replies) < 3 {
		return nil
	}
	return r.Replies[1 : len(r.Replies)-1]
}

// BatchReply returns the user-facing reply text: the batch commands'
// replies without the AUTHENTICATE and QUIT acknowledgements. When the
// server hung up before producing that structure, the raw stream is
// returned unchanged so the operator still sees what arrived.
func (r *Result) BatchReply() string {
	replies := r.CommandReplies()
	if replies == nil {
		return r.Raw
	}
	var b strings.Builder
	for _, reply := range replies {
		b.WriteString(reply.Raw)
	}
	return b.String()
}
