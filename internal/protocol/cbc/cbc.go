package cbc

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"fishcrypt/internal/crypto"
	"fishcrypt/internal/domain"
	"fishcrypt/internal/util/memzero"
)

// Marker follows the tag and distinguishes CBC lines from ECB lines.
const Marker = '*'

// Prefix is the tag every emitted CBC line starts with.
const Prefix = "+OK *"

// Codec encrypts and decrypts CBC lines. The zero value draws IVs from
// crypto/rand.
type Codec struct {
	// Rand supplies IVs. Nil means crypto/rand.Reader.
	Rand io.Reader
}

// Encrypt is Codec{}.Encrypt.
func Encrypt(key domain.KeyMaterial, plaintext []byte) (string, error) {
	return Codec{}.Encrypt(key, plaintext)
}

// Decrypt is Codec{}.Decrypt.
func Decrypt(key domain.KeyMaterial, wire string) ([]byte, error) {
	return Codec{}.Decrypt(key, wire)
}

// Encrypt returns Prefix + base64(IV || CBC(plaintext)).
func (c Codec) Encrypt(key domain.KeyMaterial, plaintext []byte) (string, error) {
	r := c.Rand
	if r == nil {
		r = rand.Reader
	}

	buf := memzero.Acquire(padLen(len(plaintext)))
	defer buf.Release()
	padded := buf.Bytes()
	copy(padded, plaintext)

	out := make([]byte, crypto.BlockSize+len(padded))
	iv := out[:crypto.BlockSize]
	if _, err := io.ReadFull(r, iv); err != nil {
		return "", fmt.Errorf("read IV: %w", err)
	}
	sched := crypto.MustExpand(key)
	cipher.NewCBCEncrypter(sched.Block(), iv).CryptBlocks(out[crypto.BlockSize:], padded)
	return Prefix + crypto.B64(out), nil
}

// Decrypt parses a CBC line and returns the plaintext with zero padding
// removed.
func (c Codec) Decrypt(key domain.KeyMaterial, wire string) ([]byte, error) {
	body, ok := StripPrefix(wire)
	if !ok {
		return nil, fmt.Errorf("%w: missing CBC marker", domain.ErrDecode)
	}
	raw, err := crypto.UnB64(body)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", domain.ErrDecode, err)
	}
	if len(raw) < crypto.BlockSize || len(raw)%crypto.BlockSize != 0 {
		return nil, fmt.Errorf("%w: payload length %d", domain.ErrDecode, len(raw))
	}
	iv, ct := raw[:crypto.BlockSize], raw[crypto.BlockSize:]

	buf := memzero.Acquire(len(ct))
	defer buf.Release()
	pt := buf.Bytes()
	sched := crypto.MustExpand(key)
	cipher.NewCBCDecrypter(sched.Block(), iv).CryptBlocks(pt, ct)

	return append([]byte(nil), bytes.TrimRight(pt, "\x00")...), nil
}

// HasMarker reports whether wire is shaped like a CBC line.
func HasMarker(wire string) bool {
	_, ok := StripPrefix(wire)
	return ok
}

// StripPrefix removes a leading "+OK *" or "mcps *".
func StripPrefix(wire string) (string, bool) {
	for _, tag := range []string{"+OK ", "mcps "} {
		if strings.HasPrefix(wire, tag) && len(wire) > len(tag) && wire[len(tag)] == Marker {
			return wire[len(tag)+1:], true
		}
	}
	return "", false
}

func padLen(n int) int {
	if n == 0 {
		return crypto.BlockSize
	}
	if n%crypto.BlockSize == 0 {
		return n
	}
	return n + crypto.BlockSize - n%crypto.BlockSize
}
