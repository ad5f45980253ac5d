// Package sha256 fingerprints normalized text with SHA-256.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"

	"pagewatch/internal/watch"
)

// Hasher implements watch.Hasher using SHA-256. The digest is unseeded, so
// the same text fingerprints identically across runs and processes.
type Hasher struct{}

// New returns a SHA-256 hasher.
func New() *Hasher {
	return &Hasher{}
}

// Fingerprint returns the lowercase hex digest of the text.
func (h *Hasher) Fingerprint(text string) watch.Fingerprint {
	sum := sha256.Sum256([]byte(text))
	return watch.Fingerprint(hex.EncodeToString(sum[:]))
}
