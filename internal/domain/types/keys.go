package types

// KeySize is the symmetric key length in bytes (128 bits).
const KeySize = 16

// KeyMaterial is the raw 128-bit symmetric key.
type KeyMaterial [KeySize]byte

// Slice returns the key as a []byte.
func (k KeyMaterial) Slice() []byte { return k[:] }

// String never prints key bytes.
func (k KeyMaterial) String() string { return "KeyMaterial(redacted)" }

// GoString never prints key bytes.
func (k KeyMaterial) GoString() string { return k.String() }

// IsZero reports whether the key is all zero bytes.
func (k KeyMaterial) IsZero() bool { return k == KeyMaterial{} }

// SymmetricKey is the active key for one target plus the mode it is used in.
type SymmetricKey struct {
	Material KeyMaterial `json:"material"`
	Mode     CipherMode  `json:"mode"`
}

// String never prints key bytes.
func (k SymmetricKey) String() string {
	return "SymmetricKey(" + k.Mode.String() + ", redacted)"
}
