package domain

import (
	"fmt"

	interfaces "fishcrypt/internal/domain/interfaces"
	types "fishcrypt/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Target             = types.Target
	CipherMode         = types.CipherMode
	MessageKind        = types.MessageKind
	KeyMaterial        = types.KeyMaterial
	SymmetricKey       = types.SymmetricKey
	ExchangeVariant    = types.ExchangeVariant
	ExchangeState      = types.ExchangeState
	KeyExchangeSession = types.KeyExchangeSession
	Envelope           = types.Envelope
	Incoming           = types.Incoming
	Outgoing           = types.Outgoing
	KeyInfo            = types.KeyInfo
	ExchangeOutcome    = types.ExchangeOutcome
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	KeyStore           = interfaces.KeyStore
	SessionStore       = interfaces.SessionStore
	Transport          = interfaces.Transport
	MessageService     = interfaces.MessageService
	KeyExchangeService = interfaces.KeyExchangeService
	KeyService         = interfaces.KeyService
)

// Re-exported constants.
const (
	KeySize = types.KeySize

	ModeECB = types.ModeECB
	ModeCBC = types.ModeCBC

	KindMessage = types.KindMessage
	KindAction  = types.KindAction
	KindNotice  = types.KindNotice

	VariantPlain = types.VariantPlain
	VariantCBC   = types.VariantCBC

	StateInitiated    = types.StateInitiated
	StateAwaitingPeer = types.StateAwaitingPeer
	StateCompleted    = types.StateCompleted
	StateFailed       = types.StateFailed
)

// ParseCipherMode parses "ecb" or "cbc".
func ParseCipherMode(s string) (CipherMode, error) { return types.ParseCipherMode(s) }

// ParseExchangeVariant parses "plain" or "cbc".
func ParseExchangeVariant(s string) (ExchangeVariant, error) {
	return types.ParseExchangeVariant(s)
}

// MustKeyMaterial copies b into a KeyMaterial, panicking on a wrong length.
func MustKeyMaterial(b []byte) KeyMaterial {
	if len(b) != KeySize {
		panic(fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidKeyLength, KeySize, len(b)))
	}
	var out KeyMaterial
	copy(out[:], b)
	return out
}
