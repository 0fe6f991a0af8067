package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// Hash is a 40-character hex-encoded SHA-1 digest. Identical payloads always
// hash to the identical digest, which is what makes the store deduplicate.
type Hash string

const rawDigestLen = sha1.Size

// ComputeHash digests the envelope "<kind> <len>\x00<payload>". The digest
// covers the envelope, not the bare payload, so the same bytes stored under
// two kinds yield two distinct objects.
func ComputeHash(t Type, payload []byte) Hash {
	h := sha1.New()
	fmt.Fprintf(h, "%s %d\x00", t, len(payload))
	h.Write(payload)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// Valid reports whether h is a well-formed 40-character hex digest.
func (h Hash) Valid() bool {
	if len(h) != 2*rawDigestLen {
		return false
	}
	for i := 0; i < len(h); i++ {
		c := h[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

// Raw returns the 20 raw digest bytes. It panics when h is not a valid hex
// digest; digests produced by this package are always valid.
func (h Hash) Raw() []byte {
	raw, err := hex.DecodeString(string(h))
	if err != nil || len(raw) != rawDigestLen {
		panic(fmt.Sprintf("object: %q is not a digest", h))
	}
	return raw
}

// Short returns the 7-character abbreviated form used in human output.
func (h Hash) Short() string {
	if len(h) < 7 {
		return string(h)
	}
	return string(h[:7])
}
