package control

import (
	"fmt"
	"log/slog"
	"os"
)

// AuthContext carries everything the negotiator needs to choose an
// AUTHENTICATE payload: the server's advertised methods and cookie path
// plus the operator's password, if any.
type AuthContext struct {
	// Methods are the advertised authentication methods.
	Methods []AuthMethod

	// CookieFile is the advertised cookie path.
	CookieFile string

	// Password is the operator-supplied control password.
	Password string
}

// NewAuthContext combines a PROTOCOLINFO reply with the operator's
// password.
func NewAuthContext(info *ProtocolInfoReply, password string) AuthContext {
	return AuthContext{
		Methods:    info.Methods,
		CookieFile: info.CookieFile,
		Password:   password,
	}
}

// has reports whether the context advertises the given method.
func (a AuthContext) has(m AuthMethod) bool {
	for _, method := range a.Methods {
		if method == m {
			return true
		}
	}
	return false
}

// BuildPayload resolves the AUTHENTICATE command line for the context.
//
// The decision runs in order: a server advertising only NULL has no
// authentication configured and is rejected outright; a readable cookie
// file with COOKIE advertised wins next, its bytes hex-encoded through
// the codec; then HASHEDPASSWORD with an operator password, embedded
// verbatim in double quotes (quotes or backslashes in the password must
// already be escaped by the operator). When no row matches, a bare
// AUTHENTICATE is returned and the server's rejection surfaces after
// the session drains.
//
// SAFECOOKIE is detected but not implemented: its presence is logged
// and negotiation falls through to the plain cookie row.
func (a AuthContext) BuildPayload(codec HexCodec, logger *slog.Logger) (string, error) {
	if len(a.Methods) == 1 && a.Methods[0] == AuthNull {
		return "", fmt.Errorf("%w: enable CookieAuthentication or HashedControlPassword in torrc", ErrAuthNotConfigured)
	}

	if a.has(AuthSafeCookie) {
		logger.Debug("server offers SAFECOOKIE, not supported, trying plain cookie")
	}

	if a.CookieFile != "" && a.has(AuthCookie) {
		cookie, err := os.ReadFile(a.CookieFile)
		if err == nil {
			return "AUTHENTICATE " + codec.Encode(cookie), nil
		}
		logger.Debug("cookie file is not readable", "path", a.CookieFile, "error", err)
	}

	if a.Password != "" && a.has(AuthHashedPassword) {
		return `AUTHENTICATE "` + a.Password + `"`, nil
	}

	logger.Debug("no usable credential path, sending bare AUTHENTICATE")
	return "AUTHENTICATE", nil
}
