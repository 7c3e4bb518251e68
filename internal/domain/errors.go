package domain

import "errors"

// Error kinds. Failures wrap one of these with context; test with errors.Is.
var (
	// ErrInvalidKeyLength is a caller contract violation: the cipher engine
	// was handed a key of the wrong size.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrDecode covers malformed wire input: unknown alphabet symbol, bad
	// base64, wrong length or missing marker.
	ErrDecode = errors.New("decode error")

	// ErrDecryptionFailed means no mode produced a valid plaintext.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidPublicValue rejects DH public values outside (1, P-1).
	ErrInvalidPublicValue = errors.New("invalid DH public value")

	// ErrSessionMismatch is a FINISH with no matching pending INIT.
	ErrSessionMismatch = errors.New("no matching key-exchange session")

	// ErrUnsupportedVariant rejects an unknown exchange variant.
	ErrUnsupportedVariant = errors.New("unsupported key-exchange variant")

	// ErrUnknownToken means the line is not a DH1080 token.
	ErrUnknownToken = errors.New("not a key-exchange token")

	// ErrNoKey means no key is stored for the target.
	ErrNoKey = errors.New("no key for target")

	// ErrSelfTestFailed means an encode/decode round trip did not match.
	ErrSelfTestFailed = errors.New("self-test failed")
)
