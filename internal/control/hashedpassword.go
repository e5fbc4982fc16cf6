package control

import (
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // the torrc hashed-password format is defined over SHA-1
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/openpgp/s2k"
)

// The torrc HashedControlPassword format: a "16:" marker followed by an
// 8-byte salt, the iteration specifier 0x60, and a 20-byte iterated
// SHA-1 digest, all upper-case hex. The specifier decodes to hashing
// 65536 bytes of repeated salt-plus-password, the OpenPGP iterated and
// salted S2K scheme Tor borrowed.
const (
	hashedPasswordPrefix = "16:"
	s2kSpecifier         = 0x60
	s2kHashedBytes       = 65536
	saltLen              = 8
	digestLen            = sha1.Size
)

// HashPassword produces a torrc HashedControlPassword value for the
// given password using a random salt. Feed the result to the
// HashedControlPassword directive to enable password authentication.
func HashPassword(password string) (string, error) {
	var salt [saltLen]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return HashPasswordWithSalt(password, salt), nil
}

// HashPasswordWithSalt is HashPassword with a caller-chosen salt. The
// output is deterministic, which verification and tests rely on.
func HashPasswordWithSalt(password string, salt [saltLen]byte) string {
	digest := make([]byte, digestLen)
	s2k.Iterated(digest, sha1.New(), []byte(password), salt[:], s2kHashedBytes)

	var codec UpperHex
	return hashedPasswordPrefix +
		codec.Encode(salt[:]) +
		fmt.Sprintf("%02X", s2kSpecifier) +
		codec.Encode(digest)
}

// VerifyPassword reports whether password matches a stored
// HashedControlPassword value. Malformed values never match.
func VerifyPassword(hashed, password string) bool {
	hashed = strings.ToUpper(strings.TrimSpace(hashed))
	if !strings.HasPrefix(hashed, hashedPasswordPrefix) {
		return false
	}

	raw, err := UpperHex{}.Decode(strings.TrimPrefix(hashed, hashedPasswordPrefix))
	if err != nil || len(raw) != saltLen+1+digestLen || raw[saltLen] != s2kSpecifier {
		return false
	}

	var salt [saltLen]byte
	copy(salt[:], raw[:saltLen])
	expected := HashPasswordWithSalt(password, salt)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(hashed)) == 1
}
