package types

import (
	"fmt"
	"strings"
)

// Target is a channel name or nickname a key is bound to.
type Target string

// String returns the string form of the target.
func (t Target) String() string { return string(t) }

// Normalize returns the lookup form of the target. Chat targets compare
// case-insensitively, so stores key on the lower-cased, trimmed name.
func (t Target) Normalize() Target {
	return Target(strings.ToLower(strings.TrimSpace(string(t))))
}

// CipherMode selects the codec (and wire prefix) used for a target.
type CipherMode string

const (
	ModeECB CipherMode = "ecb"
	ModeCBC CipherMode = "cbc"
)

// String returns the string form of the mode.
func (m CipherMode) String() string { return string(m) }

// Valid reports whether m is a known mode.
func (m CipherMode) Valid() bool { return m == ModeECB || m == ModeCBC }

// Other returns the alternate mode, used by the fallback path.
func (m CipherMode) Other() CipherMode {
	if m == ModeCBC {
		return ModeECB
	}
	return ModeCBC
}

// ParseCipherMode parses "ecb" or "cbc" (case-insensitive).
func ParseCipherMode(s string) (CipherMode, error) {
	m := CipherMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown cipher mode %q (want ecb or cbc)", s)
	}
	return m, nil
}

// MessageKind distinguishes normal text from actions and notices. It only
// affects the tag an ECB line carries.
type MessageKind string

const (
	KindMessage MessageKind = "message"
	KindAction  MessageKind = "action"
	KindNotice  MessageKind = "notice"
)
