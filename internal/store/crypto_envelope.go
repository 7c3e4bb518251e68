package store

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	// The current supported version of the encrypted blob format stored on disk.
	envelopeFormatVersion = 1
	saltSize              = 16
)

var (
	// ErrWrongPassphrase is returned when the passphrase is incorrect or the
	// ciphertext has been modified.
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted key store")
)

// ScryptParams are the cost parameters for the at-rest KDF.
type ScryptParams struct {
	N int `json:"n" yaml:"n"`
	R int `json:"r" yaml:"r"`
	P int `json:"p" yaml:"p"`
}

// DefaultScryptParams returns the production cost parameters.
func DefaultScryptParams() ScryptParams { return ScryptParams{N: 1 << 15, R: 8, P: 1} }

func (p ScryptParams) orDefault() ScryptParams {
	if p.N == 0 {
		return DefaultScryptParams()
	}
	if p.R == 0 {
		p.R = 8
	}
	if p.P == 0 {
		p.P = 1
	}
	return p
}

// blob is the on-disk JSON structure holding the ciphertext and KDF parameters.
type blob struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

// sealBlob derives a key from passphrase and seals raw into a JSON blob.
func sealBlob(passphrase string, raw []byte, params ScryptParams) ([]byte, error) {
	params = params.orDefault()
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	aead, err := deriveAEAD(passphrase, salt, params)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte // zero nonce; salt-bound key is fresh per blob
	ct := aead.Seal(nil, nonce[:], raw, salt)

	return json.Marshal(blob{
		V:      envelopeFormatVersion,
		Salt:   salt,
		N:      params.N,
		R:      params.R,
		P:      params.P,
		Cipher: ct,
	})
}

// openBlob opens the JSON blob using a key derived from passphrase.
func openBlob(passphrase string, b []byte) ([]byte, error) {
	var bl blob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, fmt.Errorf("parse key store: %w", err)
	}
	if bl.V > envelopeFormatVersion {
		return nil, fmt.Errorf("unsupported key store version %d", bl.V)
	}
	aead, err := deriveAEAD(passphrase, bl.Salt, ScryptParams{N: bl.N, R: bl.R, P: bl.P})
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], bl.Cipher, bl.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}

func deriveAEAD(passphrase string, salt []byte, params ScryptParams) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, params.N, params.R, params.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("derive store key: %w", err)
	}
	return chacha20poly1305.New(key)
}

// rowSealer seals individual records under one derived key with a random
// nonce per record. The record's primary key is bound as associated data.
type rowSealer struct {
	aead cipher.AEAD
}

func newRowSealer(passphrase string, salt []byte, params ScryptParams) (*rowSealer, error) {
	aead, err := deriveAEAD(passphrase, salt, params)
	if err != nil {
		return nil, err
	}
	return &rowSealer{aead: aead}, nil
}

func (s *rowSealer) seal(pt []byte, ad string) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(pt)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, pt, []byte(ad)), nil
}

func (s *rowSealer) open(b []byte, ad string) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(b) < n+s.aead.Overhead() {
		return nil, ErrWrongPassphrase
	}
	pt, err := s.aead.Open(nil, b[:n], b[n:], []byte(ad))
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}
