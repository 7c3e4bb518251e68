package store

import (
	"sync"

	"fishcrypt/internal/domain"
)

// MemoryStore keeps keys and sessions in process memory. Nothing survives a
// restart.
type MemoryStore struct {
	mu       sync.Mutex
	keys     map[domain.Target]keyRecord
	sessions map[domain.Target]domain.KeyExchangeSession
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		keys:     make(map[domain.Target]keyRecord),
		sessions: make(map[domain.Target]domain.KeyExchangeSession),
	}
}

func (s *MemoryStore) GetKey(target domain.Target) (domain.SymmetricKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[target.Normalize()].key()
}

func (s *MemoryStore) SetKey(target domain.Target, key domain.SymmetricKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := target.Normalize()
	s.keys[t] = recordFor(key, s.keys[t].Disabled)
	return nil
}

func (s *MemoryStore) DeleteKey(target domain.Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, target.Normalize())
	return nil
}

func (s *MemoryStore) IsDisabled(target domain.Target) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[target.Normalize()].Disabled, nil
}

func (s *MemoryStore) SetDisabled(target domain.Target, disabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := target.Normalize()
	rec := s.keys[t]
	rec.Disabled = disabled
	s.keys[t] = rec
	return nil
}

func (s *MemoryStore) ListTargets() ([]domain.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedTargets(s.keys, hasMaterial), nil
}

func (s *MemoryStore) SaveSession(session domain.KeyExchangeSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.Target = session.Target.Normalize()
	s.sessions[session.Target] = cloneSession(session)
	return nil
}

func (s *MemoryStore) LoadSession(target domain.Target) (domain.KeyExchangeSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[target.Normalize()]
	if !ok {
		return domain.KeyExchangeSession{}, false, nil
	}
	return cloneSession(sess), true, nil
}

func (s *MemoryStore) DeleteSession(target domain.Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, target.Normalize())
	return nil
}

var (
	_ domain.KeyStore     = (*MemoryStore)(nil)
	_ domain.SessionStore = (*MemoryStore)(nil)
)
