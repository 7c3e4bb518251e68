package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"fishcrypt/internal/domain"
)

// Fingerprint returns a short hex fingerprint of a key for out-of-band
// comparison.
//
// It hashes with SHA-256 and truncates to 6 bytes (12 hex chars), which is
// enough to spot a mismatch and too little to help recover the key.
func Fingerprint(key domain.KeyMaterial) string {
	sum := sha256.Sum256(append([]byte("fishcrypt-fp:"), key[:]...))
	return hex.EncodeToString(sum[:6])
}
