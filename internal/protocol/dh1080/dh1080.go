package dh1080

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"fishcrypt/internal/crypto"
	"fishcrypt/internal/domain"
	"fishcrypt/internal/util/memzero"
)

// KeyPair is one side's ephemeral exponent and public value.
type KeyPair struct {
	Private *big.Int
	Public  *big.Int
}

// GenerateKeyPair draws a private exponent in [2, P-2] from r (crypto/rand
// when nil) and computes g^x mod P.
func GenerateKeyPair(r io.Reader) (KeyPair, error) {
	if r == nil {
		r = rand.Reader
	}
	// [0, P-3) shifted by 2.
	span := new(big.Int).Sub(prime, big.NewInt(3))
	x, err := rand.Int(r, span)
	if err != nil {
		return KeyPair{}, fmt.Errorf("dh1080: draw exponent: %w", err)
	}
	x.Add(x, big.NewInt(2))
	return KeyPair{Private: x, Public: new(big.Int).Exp(generator, x, prime)}, nil
}

// PublicFor recomputes the public value of a stored exponent.
func PublicFor(private *big.Int) *big.Int {
	return new(big.Int).Exp(generator, private, prime)
}

// ValidatePublic checks 1 < y < P-1.
func ValidatePublic(y *big.Int) error {
	if y == nil || y.Cmp(one) <= 0 || y.Cmp(primeLess) >= 0 {
		return fmt.Errorf("%w: outside (1, P-1)", domain.ErrInvalidPublicValue)
	}
	return nil
}

// SharedSecret computes peer^private mod P after validating peer.
func SharedSecret(private, peer *big.Int) (*big.Int, error) {
	if err := ValidatePublic(peer); err != nil {
		return nil, err
	}
	return new(big.Int).Exp(peer, private, prime), nil
}

// DeriveKey runs the agreement and hashes the secret's big-endian bytes down
// to a symmetric key.
func DeriveKey(private, peer *big.Int) (domain.KeyMaterial, error) {
	s, err := SharedSecret(private, peer)
	if err != nil {
		return domain.KeyMaterial{}, err
	}
	buf := memzero.Hold(s.Bytes())
	defer buf.Release()
	s.SetInt64(0)
	return crypto.DeriveSharedKey(buf.Bytes()), nil
}
