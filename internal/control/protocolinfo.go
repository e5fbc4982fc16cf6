package control

import (
	"fmt"
	"strings"
)

// AuthMethod is one authentication method advertised by PROTOCOLINFO.
type AuthMethod string

// Authentication methods defined by the control protocol.
const (
	// AuthNull means the server accepts a bare AUTHENTICATE.
	AuthNull AuthMethod = "NULL"

	// AuthCookie means the server accepts the contents of its cookie
	// file, hex-encoded.
	AuthCookie AuthMethod = "COOKIE"

	// AuthSafeCookie is the HMAC challenge-response variant of cookie
	// authentication.
	AuthSafeCookie AuthMethod = "SAFECOOKIE"

	// AuthHashedPassword means the server accepts a quoted password
	// matched against its HashedControlPassword.
	AuthHashedPassword AuthMethod = "HASHEDPASSWORD"
)

// ProtocolInfoReply is the parsed PROTOCOLINFO response.
type ProtocolInfoReply struct {
	// ProtocolVersion is the protocol version field, "1" for every Tor
	// released so far.
	ProtocolVersion string

	// TorVersion is the server's version string, when advertised.
	TorVersion string

	// Methods are the advertised authentication methods.
	Methods []AuthMethod

	// CookieFile is the advertised cookie path, when cookie
	// authentication is available.
	CookieFile string
}

// Has reports whether the server advertised the given method.
func (p *ProtocolInfoReply) Has(m AuthMethod) bool {
	for _, method := range p.Methods {
		if method == m {
			return true
		}
	}
	return false
}

// NullOnly reports whether NULL is the only advertised method, meaning
// the server has no authentication configured.
func (p *ProtocolInfoReply) NullOnly() bool {
	return len(p.Methods) == 1 && p.Methods[0] == AuthNull
}

// ParseProtocolInfo extracts the PROTOCOLINFO fields from a classified
// reply. A reply without an AUTH line is unusable for negotiation and
// is rejected.
func ParseProtocolInfo(result *Result) (*ProtocolInfoReply, error) {
	reply := &ProtocolInfoReply{}
	sawAuth := false

	for _, line := range result.Lines {
		if line.StatusCode != StatusOK {
			continue
		}
		switch {
		case strings.HasPrefix(line.Text, "PROTOCOLINFO "):
			reply.ProtocolVersion = strings.TrimSpace(strings.TrimPrefix(line.Text, "PROTOCOLINFO "))
		case strings.HasPrefix(line.Text, "AUTH "):
			sawAuth = true
			if err := reply.parseAuthLine(strings.TrimPrefix(line.Text, "AUTH ")); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line.Text, "VERSION "):
			reply.TorVersion = parseTorVersion(strings.TrimPrefix(line.Text, "VERSION "))
		}
	}

	if !sawAuth {
		return nil, fmt.Errorf("%w: PROTOCOLINFO reply carries no AUTH line", ErrAuthFailed)
	}
	return reply, nil
}

// parseAuthLine consumes the keyword=value pairs of an AUTH line, e.g.
//
//	METHODS=COOKIE,SAFECOOKIE COOKIEFILE="/run/tor/control.authcookie"
//
// Unknown keywords are skipped for forward compatibility.
func (p *ProtocolInfoReply) parseAuthLine(rest string) error {
	for rest = strings.TrimLeft(rest, " "); rest != ""; rest = strings.TrimLeft(rest, " ") {
		switch {
		case strings.HasPrefix(rest, "METHODS="):
			value := strings.TrimPrefix(rest, "METHODS=")
			if i := strings.IndexByte(value, ' '); i >= 0 {
				rest = value[i+1:]
				value = value[:i]
			} else {
				rest = ""
			}
			for _, method := range strings.Split(value, ",") {
				if method != "" {
					p.Methods = append(p.Methods, AuthMethod(method))
				}
			}

		case strings.HasPrefix(rest, "COOKIEFILE="):
			value, remainder, err := readQuoted(strings.TrimPrefix(rest, "COOKIEFILE="))
			if err != nil {
				return err
			}
			p.CookieFile = value
			rest = remainder

		default:
			if i := strings.IndexByte(rest, ' '); i >= 0 {
				rest = rest[i+1:]
			} else {
				rest = ""
			}
		}
	}
	return nil
}

// parseTorVersion unwraps the quoted version from a VERSION line value,
// e.g. Tor="0.4.8.13".
func parseTorVersion(rest string) string {
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "Tor=") {
		return rest
	}
	if value, _, err := readQuoted(strings.TrimPrefix(rest, "Tor=")); err == nil {
		return value
	}
	return strings.TrimPrefix(rest, "Tor=")
}

// readQuoted reads a leading double-quoted string with backslash
// escapes and returns its contents plus the remainder of the input
// after the closing quote.
func readQuoted(s string) (string, string, error) {
	if s == "" || s[0] != '"' {
		return "", "", fmt.Errorf("%w: expected quoted string in PROTOCOLINFO reply", ErrAuthFailed)
	}

	var b strings.Builder
	escaped := false
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			b.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			return b.String(), s[i+1:], nil
		default:
			b.WriteByte(c)
		}
	}
	return "", "", fmt.Errorf("%w: unterminated quoted string in PROTOCOLINFO reply", ErrAuthFailed)
}
