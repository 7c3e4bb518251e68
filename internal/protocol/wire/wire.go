package wire

import (
	"strings"

	"fishcrypt/internal/protocol/cbc"
	"fishcrypt/internal/protocol/dh1080"
	"fishcrypt/internal/protocol/ecb"
)

// Format is the structural class of a line.
type Format int

const (
	// FormatPlain is anything this package does not recognise.
	FormatPlain Format = iota
	FormatECB
	FormatCBC
	FormatKeyExchange
)

func (f Format) String() string {
	switch f {
	case FormatECB:
		return "ecb"
	case FormatCBC:
		return "cbc"
	case FormatKeyExchange:
		return "keyx"
	default:
		return "plain"
	}
}

// Classify looks only at prefixes. The CBC marker is checked before the
// ECB tag because both start with "+OK ".
func Classify(raw string) Format {
	switch {
	case cbc.HasMarker(raw):
		return FormatCBC
	case ecb.HasTag(raw):
		return FormatECB
	case dh1080.IsToken(raw):
		return FormatKeyExchange
	default:
		return FormatPlain
	}
}

const (
	ctcpDelim   = "\x01"
	actionVerb  = "ACTION "
	actionStart = ctcpDelim + actionVerb
)

// UnwrapAction returns the body of a CTCP ACTION frame. A missing closing
// delimiter is tolerated.
func UnwrapAction(raw string) (string, bool) {
	if !strings.HasPrefix(raw, actionStart) {
		return raw, false
	}
	body := strings.TrimPrefix(raw, actionStart)
	return strings.TrimSuffix(body, ctcpDelim), true
}

// WrapAction frames body as a CTCP ACTION.
func WrapAction(body string) string {
	return actionStart + body + ctcpDelim
}
