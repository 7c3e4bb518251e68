package store

import (
	"fmt"
	"sort"

	"fishcrypt/internal/domain"
)

// keyRecord is one target's entry. A record can exist with only the
// disabled flag set.
type keyRecord struct {
	Material []byte            `json:"material,omitempty"`
	Mode     domain.CipherMode `json:"mode,omitempty"`
	Disabled bool              `json:"disabled,omitempty"`
}

func (r keyRecord) key() (domain.SymmetricKey, bool, error) {
	if len(r.Material) == 0 {
		return domain.SymmetricKey{}, false, nil
	}
	if len(r.Material) != domain.KeySize {
		return domain.SymmetricKey{}, false, fmt.Errorf("%w: stored key has %d bytes", domain.ErrInvalidKeyLength, len(r.Material))
	}
	var k domain.SymmetricKey
	copy(k.Material[:], r.Material)
	k.Mode = r.Mode
	return k, true, nil
}

func recordFor(key domain.SymmetricKey, disabled bool) keyRecord {
	return keyRecord{
		Material: append([]byte(nil), key.Material[:]...),
		Mode:     key.Mode,
		Disabled: disabled,
	}
}

func sortedTargets[T any](m map[domain.Target]T, keep func(T) bool) []domain.Target {
	out := make([]domain.Target, 0, len(m))
	for t, v := range m {
		if keep(v) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func hasMaterial(r keyRecord) bool { return len(r.Material) > 0 }

func cloneSession(s domain.KeyExchangeSession) domain.KeyExchangeSession {
	s.Private = append([]byte(nil), s.Private...)
	s.Public = append([]byte(nil), s.Public...)
	if s.PeerPublic != nil {
		s.PeerPublic = append([]byte(nil), s.PeerPublic...)
	}
	return s
}
