package crypto

import (
	"crypto/sha256"

	"fishcrypt/internal/domain"
	"fishcrypt/internal/util/memzero"
)

// DeriveKey maps a passphrase to a 128-bit key: the first 16 bytes of
// SHA-256(passphrase). There is no salt; peers sharing a passphrase must
// arrive at the same key.
func DeriveKey(passphrase []byte) domain.KeyMaterial {
	return truncatedDigest(passphrase)
}

// DeriveSharedKey maps a DH shared secret (big-endian bytes) to a 128-bit key.
func DeriveSharedKey(secret []byte) domain.KeyMaterial {
	return truncatedDigest(secret)
}

func truncatedDigest(b []byte) domain.KeyMaterial {
	sum := sha256.Sum256(b)
	defer memzero.Zero(sum[:])
	var k domain.KeyMaterial
	copy(k[:], sum[:domain.KeySize])
	return k
}
