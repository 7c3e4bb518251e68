package types

import (
	"fmt"
	"strings"
)

// ExchangeVariant is what the initiator asked for: a plain DH1080 exchange
// (ECB key) or the CBC variant.
type ExchangeVariant string

const (
	VariantPlain ExchangeVariant = "plain"
	VariantCBC   ExchangeVariant = "cbc"
)

// Valid reports whether v is a known variant.
func (v ExchangeVariant) Valid() bool { return v == VariantPlain || v == VariantCBC }

// ParseExchangeVariant parses "plain"/"ecb" or "cbc".
func ParseExchangeVariant(s string) (ExchangeVariant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "ecb":
		return VariantPlain, nil
	case "cbc":
		return VariantCBC, nil
	}
	return "", fmt.Errorf("unknown exchange variant %q", s)
}

// ExchangeState is the lifecycle state of a key-exchange session.
type ExchangeState string

const (
	StateInitiated    ExchangeState = "initiated"
	StateAwaitingPeer ExchangeState = "awaiting_peer"
	StateCompleted    ExchangeState = "completed"
	StateFailed       ExchangeState = "failed"
)

// KeyExchangeSession is the ephemeral DH1080 state for one target.
// Big integers are carried as big-endian bytes.
type KeyExchangeSession struct {
	ID         string          `json:"id"`
	Target     Target          `json:"target"`
	Private    []byte          `json:"private"`
	Public     []byte          `json:"public"`
	PeerPublic []byte          `json:"peer_public,omitempty"`
	Variant    ExchangeVariant `json:"variant"`
	State      ExchangeState   `json:"state"`
	CreatedUTC int64           `json:"created_utc"`
}
