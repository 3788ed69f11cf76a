package imagekey

import (
	"crypto/rand"
	"encoding/hex"
)

// New returns a random 128-bit identifier as 32 lowercase hex characters.
// Storage keys are built as <hex>.<ext>, so concurrent writers never collide.
func New() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// IsValid reports whether the string looks like a key produced by New.
func IsValid(value string) bool {
	if len(value) != 32 {
		return false
	}
	for _, r := range value {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
