package crypto

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/blowfish"

	"fishcrypt/internal/domain"
)

// BlockSize is the cipher block size in bytes (64 bits).
const BlockSize = blowfish.BlockSize

// Schedule is an expanded Blowfish key. Each call on it is an independent
// single-block transform; chaining lives in the codecs.
type Schedule struct {
	c *blowfish.Cipher
}

// Expand builds the key schedule for a 128-bit key.
func Expand(key []byte) (*Schedule, error) {
	if len(key) != domain.KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", domain.ErrInvalidKeyLength, domain.KeySize, len(key))
	}
	c, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidKeyLength, err)
	}
	return &Schedule{c: c}, nil
}

// MustExpand is Expand for keys whose length is guaranteed by type. A wrong
// length here is a programming error.
func MustExpand(key domain.KeyMaterial) *Schedule {
	s, err := Expand(key.Slice())
	if err != nil {
		panic(err)
	}
	return s
}

// EncryptBlock encrypts one 8-byte block from src into dst.
func (s *Schedule) EncryptBlock(dst, src []byte) { s.c.Encrypt(dst, src) }

// DecryptBlock decrypts one 8-byte block from src into dst.
func (s *Schedule) DecryptBlock(dst, src []byte) { s.c.Decrypt(dst, src) }

// Block exposes the schedule as a cipher.Block for crypto/cipher modes.
func (s *Schedule) Block() cipher.Block { return s.c }
