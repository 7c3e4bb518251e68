package store

import (
	"path/filepath"
	"sync"

	"fishcrypt/internal/domain"
)

const keysFilename = "keys.enc"

// KeyFileStore persists target keys in a passphrase-sealed file under dir.
type KeyFileStore struct {
	mu   sync.Mutex
	file sealedFile[keyRecord]
}

// NewKeyFileStore returns a KeyFileStore rooted at dir. The file is read
// lazily on first use, so a wrong passphrase surfaces as ErrWrongPassphrase
// from the first call.
func NewKeyFileStore(dir, passphrase string, params ScryptParams) *KeyFileStore {
	return &KeyFileStore{file: sealedFile[keyRecord]{
		path:       filepath.Join(dir, keysFilename),
		passphrase: passphrase,
		params:     params,
	}}
}

// GetKey returns the stored key for target.
func (s *KeyFileStore) GetKey(target domain.Target) (domain.SymmetricKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys, err := s.file.load()
	if err != nil {
		return domain.SymmetricKey{}, false, err
	}
	return keys[target.Normalize()].key()
}

// SetKey replaces the key for target, keeping its disabled flag.
func (s *KeyFileStore) SetKey(target domain.Target, key domain.SymmetricKey) error {
	return s.update(func(keys map[domain.Target]keyRecord, t domain.Target) {
		keys[t] = recordFor(key, keys[t].Disabled)
	}, target)
}

// DeleteKey forgets target entirely.
func (s *KeyFileStore) DeleteKey(target domain.Target) error {
	return s.update(func(keys map[domain.Target]keyRecord, t domain.Target) {
		delete(keys, t)
	}, target)
}

// IsDisabled reports the disabled flag for target.
func (s *KeyFileStore) IsDisabled(target domain.Target) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys, err := s.file.load()
	if err != nil {
		return false, err
	}
	return keys[target.Normalize()].Disabled, nil
}

// SetDisabled sets the disabled flag for target.
func (s *KeyFileStore) SetDisabled(target domain.Target, disabled bool) error {
	return s.update(func(keys map[domain.Target]keyRecord, t domain.Target) {
		rec := keys[t]
		rec.Disabled = disabled
		keys[t] = rec
	}, target)
}

// ListTargets returns every target holding a key, sorted.
func (s *KeyFileStore) ListTargets() ([]domain.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys, err := s.file.load()
	if err != nil {
		return nil, err
	}
	return sortedTargets(keys, hasMaterial), nil
}

func (s *KeyFileStore) update(fn func(map[domain.Target]keyRecord, domain.Target), target domain.Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys, err := s.file.load()
	if err != nil {
		return err
	}
	fn(keys, target.Normalize())
	return s.file.save()
}

// Compile-time assertion that KeyFileStore implements domain.KeyStore.
var _ domain.KeyStore = (*KeyFileStore)(nil)
