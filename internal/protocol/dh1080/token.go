package dh1080

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"fishcrypt/internal/domain"
)

// Kind is the token verb.
type Kind string

const (
	KindInit    Kind = "DH1080_INIT"
	KindInitCBC Kind = "DH1080_INIT_CBC"
	KindFinish  Kind = "DH1080_FINISH"
)

const (
	compatFlag = "A"
	cbcWord    = "CBC"
)

// Token is a parsed key-exchange line.
type Token struct {
	Kind   Kind
	Public *big.Int
	// Compat is set when the public value carried the trailing 'A' flag.
	Compat bool
	// CBCWord is set when the line ended in a " CBC" word.
	CBCWord bool
}

// WantsCBC reports whether the sender asked for, or advertised, the CBC
// variant.
func (t Token) WantsCBC() bool {
	return t.Kind == KindInitCBC || t.CBCWord
}

// IsToken reports whether line starts with a DH1080 verb.
func IsToken(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "DH1080_")
}

// ParseToken parses a DH1080 line. Lines that are not tokens fail with
// domain.ErrUnknownToken; a malformed public value fails with
// domain.ErrDecode.
func ParseToken(line string) (Token, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 3 {
		return Token{}, fmt.Errorf("%w: %d fields", domain.ErrUnknownToken, len(fields))
	}
	var t Token
	switch Kind(fields[0]) {
	case KindInit, KindInitCBC, KindFinish:
		t.Kind = Kind(fields[0])
	default:
		return Token{}, fmt.Errorf("%w: verb %q", domain.ErrUnknownToken, fields[0])
	}
	if len(fields) == 3 {
		if !strings.EqualFold(fields[2], cbcWord) {
			return Token{}, fmt.Errorf("%w: trailing word %q", domain.ErrUnknownToken, fields[2])
		}
		t.CBCWord = true
	}

	y, compat, err := DecodePublic(fields[1])
	if err != nil {
		return Token{}, err
	}
	t.Public, t.Compat = y, compat
	return t, nil
}

// FormatToken renders a token line. Our own tokens always carry the compat
// flag.
func FormatToken(kind Kind, public *big.Int) string {
	return string(kind) + " " + EncodePublic(public, true)
}

// EncodePublic renders y as standard base64 of its big-endian bytes,
// followed by the compat flag when requested.
func EncodePublic(y *big.Int, compat bool) string {
	s := base64.StdEncoding.EncodeToString(y.Bytes())
	if compat {
		s += compatFlag
	}
	return s
}

// DecodePublic parses a base64 public value, stripping the compat flag when
// present. Unpadded input is accepted.
func DecodePublic(s string) (*big.Int, bool, error) {
	compat := false
	if len(s)%4 == 1 && strings.HasSuffix(s, compatFlag) {
		s = s[:len(s)-1]
		compat = true
	}
	enc := base64.StdEncoding
	if len(s)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	b, err := enc.DecodeString(s)
	if err != nil {
		return nil, false, fmt.Errorf("%w: public value: %v", domain.ErrDecode, err)
	}
	if len(b) == 0 {
		return nil, false, fmt.Errorf("%w: empty public value", domain.ErrDecode)
	}
	return new(big.Int).SetBytes(b), compat, nil
}
