package interfaces

import (
	"math/big"

	domaintypes "fishcrypt/internal/domain/types"
)

// MessageService turns inbound wire lines into text and outbound text into
// wire lines, using the key stored for each target.
type MessageService interface {
	DecodeIncoming(target domaintypes.Target, raw string) (domaintypes.Incoming, error)
	EncodeOutgoing(
		target domaintypes.Target,
		plaintext string,
		kind domaintypes.MessageKind,
	) (domaintypes.Outgoing, error)
	SelfTest(mode domaintypes.CipherMode, key domaintypes.KeyMaterial, sample string) error
}

// KeyExchangeService runs DH1080 key agreement per target.
type KeyExchangeService interface {
	// Initiate starts an exchange and returns the INIT token to send.
	Initiate(target domaintypes.Target, variant domaintypes.ExchangeVariant) (string, error)
	// HandleLine parses a received token and dispatches it.
	HandleLine(target domaintypes.Target, line string) (domaintypes.ExchangeOutcome, error)

	OnReceiveInit(
		target domaintypes.Target,
		peerPublic *big.Int,
		variant domaintypes.ExchangeVariant,
	) (domaintypes.ExchangeOutcome, error)
	OnReceiveFinish(
		target domaintypes.Target,
		peerPublic *big.Int,
		peerSupportsCBC bool,
	) (domaintypes.ExchangeOutcome, error)
}

// KeyService manages stored keys on behalf of the user.
type KeyService interface {
	SetKey(target domaintypes.Target, secret string, mode domaintypes.CipherMode) (domaintypes.KeyInfo, error)
	DeleteKey(target domaintypes.Target) error
	SetEnabled(target domaintypes.Target, enabled bool) error
	Describe(target domaintypes.Target) (domaintypes.KeyInfo, error)
	List() ([]domaintypes.KeyInfo, error)
}
