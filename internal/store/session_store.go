package store

import (
	"path/filepath"
	"sync"

	"fishcrypt/internal/domain"
)

const sessionsFilename = "sessions.enc"

// SessionFileStore persists pending DH1080 sessions to disk. Sessions hold
// private exponents, so the file is sealed like the key store.
type SessionFileStore struct {
	mu   sync.Mutex
	file sealedFile[domain.KeyExchangeSession]
}

// NewSessionFileStore returns a SessionFileStore rooted at dir.
func NewSessionFileStore(dir, passphrase string, params ScryptParams) *SessionFileStore {
	return &SessionFileStore{file: sealedFile[domain.KeyExchangeSession]{
		path:       filepath.Join(dir, sessionsFilename),
		passphrase: passphrase,
		params:     params,
	}}
}

// SaveSession writes the session record for its target, replacing any
// earlier one.
func (s *SessionFileStore) SaveSession(session domain.KeyExchangeSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.file.load()
	if err != nil {
		return err
	}
	session.Target = session.Target.Normalize()
	sessions[session.Target] = cloneSession(session)
	return s.file.save()
}

// LoadSession retrieves the stored session for target.
func (s *SessionFileStore) LoadSession(target domain.Target) (domain.KeyExchangeSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.file.load()
	if err != nil {
		return domain.KeyExchangeSession{}, false, err
	}
	session, ok := sessions[target.Normalize()]
	if !ok {
		return domain.KeyExchangeSession{}, false, nil
	}
	return cloneSession(session), true, nil
}

// DeleteSession removes the session for target. A missing session is not an
// error.
func (s *SessionFileStore) DeleteSession(target domain.Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.file.load()
	if err != nil {
		return err
	}
	t := target.Normalize()
	if _, ok := sessions[t]; !ok {
		return nil
	}
	delete(sessions, t)
	return s.file.save()
}

// Compile-time assertion that SessionFileStore implements domain.SessionStore.
var _ domain.SessionStore = (*SessionFileStore)(nil)
