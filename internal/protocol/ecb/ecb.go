package ecb

import (
	"bytes"
	"fmt"
	"strings"

	"fishcrypt/internal/crypto"
	"fishcrypt/internal/domain"
	"fishcrypt/internal/protocol/fish64"
	"fishcrypt/internal/util/memzero"
)

// Line tags.
const (
	TagOK   = "+OK "
	TagMCPS = "mcps "
)

// DefaultBrokenMarker is appended to text recovered from a line whose last
// group was truncated.
const DefaultBrokenMarker = "&"

// Options tune decoding.
type Options struct {
	// MarkBroken annotates a trailing partial group instead of dropping it.
	MarkBroken   bool
	BrokenMarker string
}

// Encrypt encrypts plaintext and returns tag followed by the fish64 groups.
// An empty tag means TagOK.
func Encrypt(key domain.KeyMaterial, plaintext []byte, tag string) string {
	if tag == "" {
		tag = TagOK
	}
	sched := crypto.MustExpand(key)

	buf := memzero.Acquire(padLen(len(plaintext)))
	defer buf.Release()
	padded := buf.Bytes()
	copy(padded, plaintext)

	ct := make([]byte, len(padded))
	for i := 0; i < len(padded); i += crypto.BlockSize {
		sched.EncryptBlock(ct[i:i+crypto.BlockSize], padded[i:i+crypto.BlockSize])
	}
	return tag + fish64.Encode(ct)
}

// Decrypt strips the tag, decodes every complete 12-character group and
// decrypts each block independently.
func Decrypt(key domain.KeyMaterial, wire string, opts Options) ([]byte, error) {
	body, ok := StripTag(wire)
	if !ok {
		return nil, fmt.Errorf("%w: missing ECB tag", domain.ErrDecode)
	}
	groups := len(body) / fish64.BlockChars
	if groups == 0 {
		return nil, fmt.Errorf("%w: no complete block in %d chars", domain.ErrDecode, len(body))
	}
	broken := len(body)%fish64.BlockChars != 0

	ct, err := fish64.Decode(body[:groups*fish64.BlockChars])
	if err != nil {
		return nil, err
	}

	sched := crypto.MustExpand(key)
	buf := memzero.Acquire(len(ct))
	defer buf.Release()
	pt := buf.Bytes()
	for i := 0; i < len(ct); i += crypto.BlockSize {
		sched.DecryptBlock(pt[i:i+crypto.BlockSize], ct[i:i+crypto.BlockSize])
	}

	out := append([]byte(nil), bytes.TrimRight(pt, "\x00")...)
	if broken && opts.MarkBroken {
		marker := opts.BrokenMarker
		if marker == "" {
			marker = DefaultBrokenMarker
		}
		out = append(out, marker...)
	}
	return out, nil
}

// HasTag reports whether wire starts with an ECB tag.
func HasTag(wire string) bool {
	_, ok := StripTag(wire)
	return ok
}

// StripTag removes a leading "+OK " or "mcps " tag.
func StripTag(wire string) (string, bool) {
	for _, tag := range []string{TagOK, TagMCPS} {
		if strings.HasPrefix(wire, tag) {
			return wire[len(tag):], true
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
