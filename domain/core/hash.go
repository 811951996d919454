package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint is the hex sha256 of a table's canonical CSV encoding. Two
// versions with equal fingerprints hold identical cleaned data.
type Fingerprint string

// NewFingerprint hashes a canonical table encoding
func NewFingerprint(canonical []byte) Fingerprint {
	sum := sha256.Sum256(canonical)
	return Fingerprint(hex.EncodeToString(sum[:]))
}

func (f Fingerprint) String() string { return string(f) }
