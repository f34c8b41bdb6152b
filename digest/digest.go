// Package digest provides deterministic SHA-256 content hashing for
// artifacts and idempotency keys. Raw bytes are hashed directly; structured
// values are serialized to canonical JSON first so that deep-equal values
// always produce the same digest.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
)

// Bytes returns the lowercase hex SHA-256 digest of b.
func Bytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Canonical returns the digest of v's canonical JSON serialization.
func Canonical(v any) (string, error) {
	data, err := CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	return Bytes(data), nil
}
