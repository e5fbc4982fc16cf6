package control

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/torctl/torctl/internal/socket"
)

// linePacingFloor is the smallest inter-command delay applied when the
// transport reports any pacing requirement at all.
const linePacingFloor = time.Second

// CommandBatch is an ordered list of raw control commands.
type CommandBatch []string

// ParseBatch splits a pipe-separated command string into a batch,
// trimming whitespace and dropping empty segments.
func ParseBatch(raw string) CommandBatch {
	var batch CommandBatch
	for _, cmd := range strings.Split(raw, "|") {
		if cmd = strings.TrimSpace(cmd); cmd != "" {
			batch = append(batch, cmd)
		}
	}
	return batch
}

// Session drives one-shot command exchanges against a control endpoint:
// probe, negotiate, authenticate, write the batch, drain, classify.
// Construct it with NewSession; the zero value is not usable.
type Session struct {
	transport Transport
	codec     HexCodec
	logger    *slog.Logger
	password  string
	delay     time.Duration
	confirm   io.Reader
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPassword supplies the control password used when the server
// advertises HASHEDPASSWORD authentication.
func WithPassword(password string) SessionOption {
	return func(s *Session) { s.password = password }
}

// WithDelay sets the pause inserted after each batch command write.
func WithDelay(d time.Duration) SessionOption {
	return func(s *Session) { s.delay = d }
}

// WithConfirm makes the session block for one line from r before
// sending QUIT, so the operator can inspect server state while the
// session is still open. Normally r is stdin.
func WithConfirm(r io.Reader) SessionOption {
	return func(s *Session) { s.confirm = r }
}

// WithCodec replaces the hex codec used for cookie payloads.
func WithCodec(c HexCodec) SessionOption {
	return func(s *Session) { s.codec = c }
}

// WithLogger replaces the session logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// NewSession builds a session around the given transport.
func NewSession(transport Transport, opts ...SessionOption) (*Session, error) {
	if transport == nil {
		return nil, fmt.Errorf("%w: transport", ErrMissingDependency)
	}

	s := &Session{
		transport: transport,
		codec:     UpperHex{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.codec == nil {
		return nil, fmt.Errorf("%w: hex codec", ErrMissingDependency)
	}
	if s.logger == nil {
		return nil, fmt.Errorf("%w: logger", ErrMissingDependency)
	}
	return s, nil
}

// ProtocolInfo runs the short negotiation session: PROTOCOLINFO then
// QUIT on a fresh connection, drained fully before parsing.
func (s *Session) ProtocolInfo(ctx context.Context, desc socket.Descriptor) (*ProtocolInfoReply, error) {
	raw, err := s.exchange(ctx, desc, []string{"PROTOCOLINFO", "QUIT"}, 0, nil)
	if err != nil {
		return nil, err
	}
	return ParseProtocolInfo(Classify(raw))
}

// Run executes one command session against the endpoint.
//
// The endpoint is probed with a throwaway connection first so an
// unreachable Tor fails before any negotiation. Authentication is then
// negotiated on its own PROTOCOLINFO session, and the real connection
// carries AUTHENTICATE, the batch in order, and QUIT, written without
// reading in between; the reply stream is drained to EOF afterwards
// and classified.
//
// The returned Result is non-nil whenever any reply text arrived, even
// alongside an error, so callers can still show the operator what the
// server said.
func (s *Session) Run(ctx context.Context, desc socket.Descriptor, batch CommandBatch) (*Result, error) {
	probe, err := s.transport.Connect(ctx, desc)
	if err != nil {
		return nil, err
	}
	probe.Close()

	info, err := s.ProtocolInfo(ctx, desc)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("negotiated protocol info",
		"methods", info.Methods, "cookie_file", info.CookieFile, "tor_version", info.TorVersion)

	authLine, err := NewAuthContext(info, s.password).BuildPayload(s.codec, s.logger)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(batch)+2)
	lines = append(lines, authLine)
	lines = append(lines, batch...)
	lines = append(lines, "QUIT")

	raw, err := s.exchange(ctx, desc, lines, s.effectiveDelay(), s.confirm)
	if raw == "" && err != nil {
		return nil, err
	}

	result := Classify(raw)
	if rejection, ok := result.Rejection(); ok {
		return result, fmt.Errorf("%w: %s", ErrAuthFailed, strings.TrimSpace(rejection.Text))
	}
	return result, err
}

// effectiveDelay combines the configured delay with the transport's
// pacing requirement: any pacing at all raises the delay to at least
// one second.
func (s *Session) effectiveDelay() time.Duration {
	return paceDelay(s.delay, s.transport.Pacing())
}

// paceDelay applies the pacing rule to a configured delay.
func paceDelay(configured, pacing time.Duration) time.Duration {
	if pacing <= 0 {
		return configured
	}
	delay := configured
	if delay < linePacingFloor {
		delay = linePacingFloor
	}
	if delay < pacing {
		delay = pacing
	}
	return delay
}

// exchange writes the lines in order over one connection and drains the
// reply stream to EOF. The first line is the authentication (or the
// opening command) and the last is QUIT: the delay is inserted after
// each line between them, and when confirm is non-nil one line of input
// is awaited before the final line goes out.
//
// Whatever reply text was drained is returned even on error.
func (s *Session) exchange(ctx context.Context, desc socket.Descriptor, lines []string, delay time.Duration, confirm io.Reader) (string, error) {
	conn, err := s.transport.Connect(ctx, desc)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	for i, line := range lines {
		if confirm != nil && i == len(lines)-1 {
			s.logger.Debug("waiting for confirmation before closing the session")
			awaitLine(confirm)
		}
		if _, err := io.WriteString(conn, line+"\r\n"); err != nil {
			return "", fmt.Errorf("failed to write line %d of %d: %w", i+1, len(lines), err)
		}
		s.logger.Debug("wrote control line", "line", line)

		if delay > 0 && i > 0 && i < len(lines)-1 {
			if err := sleep(ctx, delay); err != nil {
				return "", err
			}
		}
	}

	data, err := io.ReadAll(conn)
	if err != nil {
		return string(data), fmt.Errorf("failed to drain control reply: %w", err)
	}
	return string(data), nil
}

// awaitLine blocks until one newline-terminated line or EOF arrives.
func awaitLine(r io.Reader) {
	_, _ = bufio.NewReader(r).ReadString('\n')
}

// sleep pauses for d unless the context ends first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
