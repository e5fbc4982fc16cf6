package control

import (
	"encoding/hex"
	"strings"
)

// HexCodec encodes and decodes the binary payloads the control protocol
// carries as hex strings, primarily authentication cookie bytes.
// It is injected into the session so tests can substitute their own.
type HexCodec interface {
	// Encode renders data as a hex string acceptable to the server.
	Encode(data []byte) string

	// Decode parses a hex string back into bytes.
	Decode(s string) ([]byte, error)
}

// UpperHex is the production codec. It encodes upper-case, the form the
// control protocol documentation uses throughout, and decodes either
// case.
type UpperHex struct{}

// Encode implements HexCodec.
func (UpperHex) Encode(data []byte) string {
	return strings.ToUpper(hex.EncodeToString(data))
}

// Decode implements HexCodec.
func (UpperHex) Decode(s string) ([]byte, error) {
	return hex.DecodeString(s)
}
