package keys

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"fishcrypt/internal/crypto"
	"fishcrypt/internal/domain"
	"fishcrypt/internal/util/memzero"
)

// ErrEmptySecret is returned when a key string is empty after its mode
// prefix is removed.
var ErrEmptySecret = errors.New("empty key")

// Service implements domain.KeyService over a KeyStore.
type Service struct {
	store       domain.KeyStore
	defaultMode domain.CipherMode
	log         *zap.Logger
}

// New constructs a key Service. defaultMode applies when neither the key
// string nor the caller names a mode.
func New(store domain.KeyStore, defaultMode domain.CipherMode, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if !defaultMode.Valid() {
		defaultMode = domain.ModeCBC
	}
	return &Service{store: store, defaultMode: defaultMode, log: log.Named("keys")}
}

// SplitModePrefix strips a leading "cbc:" or "ecb:" from secret and returns
// the mode it names, or "" when there is none.
func SplitModePrefix(secret string) (string, domain.CipherMode) {
	for _, m := range []domain.CipherMode{domain.ModeCBC, domain.ModeECB} {
		p := m.String() + ":"
		if len(secret) >= len(p) && strings.EqualFold(secret[:len(p)], p) {
			return secret[len(p):], m
		}
	}
	return secret, ""
}

// SetKey derives a key from secret and stores it for target. A mode prefix
// in secret wins over mode; an empty mode falls back to the default.
func (s *Service) SetKey(target domain.Target, secret string, mode domain.CipherMode) (domain.KeyInfo, error) {
	t := target.Normalize()
	if t == "" {
		return domain.KeyInfo{}, errors.New("empty target")
	}
	secret, prefixed := SplitModePrefix(secret)
	switch {
	case prefixed != "":
		mode = prefixed
	case mode == "":
		mode = s.defaultMode
	case !mode.Valid():
		return domain.KeyInfo{}, fmt.Errorf("unknown cipher mode %q", mode)
	}
	if secret == "" {
		return domain.KeyInfo{}, ErrEmptySecret
	}

	buf := memzero.Hold([]byte(secret))
	defer buf.Release()
	key := domain.SymmetricKey{Material: crypto.DeriveKey(buf.Bytes()), Mode: mode}
	if err := s.store.SetKey(t, key); err != nil {
		return domain.KeyInfo{}, err
	}

	info, err := s.describe(t, key)
	if err != nil {
		return domain.KeyInfo{}, err
	}
	s.log.Info("key set",
		zap.String("target", t.String()),
		zap.Stringer("mode", mode),
		zap.String("fingerprint", info.Fingerprint))
	return info, nil
}

// DeleteKey removes the key for target.
func (s *Service) DeleteKey(target domain.Target) error {
	t := target.Normalize()
	_, ok, err := s.store.GetKey(t)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNoKey, t)
	}
	if err := s.store.DeleteKey(t); err != nil {
		return err
	}
	s.log.Info("key deleted", zap.String("target", t.String()))
	return nil
}

// SetEnabled turns encryption for target on or off without touching its key.
func (s *Service) SetEnabled(target domain.Target, enabled bool) error {
	t := target.Normalize()
	if err := s.store.SetDisabled(t, !enabled); err != nil {
		return err
	}
	s.log.Info("encryption toggled", zap.String("target", t.String()), zap.Bool("enabled", enabled))
	return nil
}

// Describe reports mode, fingerprint and disabled flag for target.
func (s *Service) Describe(target domain.Target) (domain.KeyInfo, error) {
	t := target.Normalize()
	key, ok, err := s.store.GetKey(t)
	if err != nil {
		return domain.KeyInfo{}, err
	}
	if !ok {
		return domain.KeyInfo{}, fmt.Errorf("%w: %s", domain.ErrNoKey, t)
	}
	return s.describe(t, key)
}

// List describes every stored key, sorted by target.
func (s *Service) List() ([]domain.KeyInfo, error) {
	targets, err := s.store.ListTargets()
	if err != nil {
		return nil, err
	}
	out := make([]domain.KeyInfo, 0, len(targets))
	for _, t := range targets {
		info, err := s.Describe(t)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

func (s *Service) describe(t domain.Target, key domain.SymmetricKey) (domain.KeyInfo, error) {
	disabled, err := s.store.IsDisabled(t)
	if err != nil {
		return domain.KeyInfo{}, err
	}
	return domain.KeyInfo{
		Target:      t,
		Mode:        key.Mode,
		Fingerprint: crypto.Fingerprint(key.Material),
		Disabled:    disabled,
	}, nil
}

// Compile-time assertion that Service implements domain.KeyService.
var _ domain.KeyService = (*Service)(nil)
