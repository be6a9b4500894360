package audit

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// MinSubjectKeyLen is the shortest key NewSubjectHasher accepts.
const MinSubjectKeyLen = 32

// SubjectHasher pseudonymises personal identifiers as hex HMAC-SHA256 under a
// deployment secret. Hashes are stable for a given key and cannot be matched
// against an enumeration of the identifier space without it.
type SubjectHasher struct {
	key []byte
}

// NewSubjectHasher keys a hasher with a secret of at least MinSubjectKeyLen bytes.
func NewSubjectHasher(key []byte) (*SubjectHasher, error) {
	if len(key) < MinSubjectKeyLen {
		return nil, fmt.Errorf("subject hash key must be at least %d bytes, got %d", MinSubjectKeyLen, len(key))
	}
	return &SubjectHasher{key: bytes.Clone(key)}, nil
}

// NewEphemeralSubjectHasher keys a hasher with random bytes. Its hashes do not
// survive a restart.
func NewEphemeralSubjectHasher() *SubjectHasher {
	return &SubjectHasher{key: []byte(rand.Text() + rand.Text())}
}

// Hash normalises raw (trimmed, upper-cased) and returns its keyed digest.
// Empty input hashes to the empty string.
func (h *SubjectHasher) Hash(raw string) string {
	normalised := strings.ToUpper(strings.TrimSpace(raw))
	if normalised == "" {
		return ""
	}
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(normalised))
	return hex.EncodeToString(mac.Sum(nil))
}
