package interfaces

import domaintypes "fishcrypt/internal/domain/types"

// KeyStore persists the active symmetric key for each target.
//
// Implementations normalise targets (see types.Target.Normalize) so that
// "#Chan" and "#chan" share one entry. Replacing a key is atomic from the
// caller's view.
type KeyStore interface {
	GetKey(target domaintypes.Target) (domaintypes.SymmetricKey, bool, error)
	SetKey(target domaintypes.Target, key domaintypes.SymmetricKey) error
	DeleteKey(target domaintypes.Target) error

	// Disabled targets keep their key but pass traffic through unencrypted.
	IsDisabled(target domaintypes.Target) (bool, error)
	SetDisabled(target domaintypes.Target, disabled bool) error

	ListTargets() ([]domaintypes.Target, error)
}

// SessionStore persists pending DH1080 key-exchange sessions, one per target.
type SessionStore interface {
	SaveSession(session domaintypes.KeyExchangeSession) error
	LoadSession(target domaintypes.Target) (domaintypes.KeyExchangeSession, bool, error)
	DeleteSession(target domaintypes.Target) error
}
