package store

import (
	"encoding/json"

	"fishcrypt/internal/domain"
	"fishcrypt/internal/util/memzero"
)

// sealedFile is a passphrase-sealed JSON map on disk, decrypted once and
// cached. Callers hold their own lock.
type sealedFile[T any] struct {
	path       string
	passphrase string
	params     ScryptParams

	loaded bool
	data   map[domain.Target]T
}

func (f *sealedFile[T]) load() (map[domain.Target]T, error) {
	if f.loaded {
		return f.data, nil
	}
	data := make(map[domain.Target]T)
	b, err := readFile(f.path)
	if err != nil {
		return nil, err
	}
	if b != nil {
		raw, err := openBlob(f.passphrase, b)
		if err != nil {
			return nil, err
		}
		err = memzero.With(raw, func(raw []byte) error { return json.Unmarshal(raw, &data) })
		if err != nil {
			return nil, err
		}
	}
	f.data, f.loaded = data, true
	return data, nil
}

// save writes the cache back. On failure the cache is dropped so the next
// call reloads what is actually on disk.
func (f *sealedFile[T]) save() error {
	if err := f.write(); err != nil {
		f.loaded, f.data = false, nil
		return err
	}
	return nil
}

func (f *sealedFile[T]) write() error {
	raw, err := json.Marshal(f.data)
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)
	b, err := sealBlob(f.passphrase, raw, f.params)
	if err != nil {
		return err
	}
	return writeFile(f.path, b, 0o600)
}
