package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"fishcrypt/internal/domain"
	"fishcrypt/internal/util/memzero"
)

const checkPlaintext = "fishcrypt-store-check"

// SQLiteStore keeps keys and sessions in a single SQLite database. Key
// material and session records are sealed per row; targets, modes and
// flags are stored in the clear so they can be listed without the
// passphrase-derived key doing extra work.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	sealer *rowSealer
	mu     sync.Mutex
}

// OpenSQLite opens or creates the database at path. The first open records
// a fresh salt and the scrypt parameters; later opens must use the same
// passphrase or fail with ErrWrongPassphrase.
func OpenSQLite(path, passphrase string, params ScryptParams) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	if err := s.unlock(passphrase, params.orDefault()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		version INTEGER NOT NULL,
		salt BLOB NOT NULL,
		scrypt_n INTEGER NOT NULL,
		scrypt_r INTEGER NOT NULL,
		scrypt_p INTEGER NOT NULL,
		check_value BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS keys (
		target TEXT PRIMARY KEY,
		sealed BLOB,
		mode TEXT NOT NULL DEFAULT '',
		disabled INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		target TEXT PRIMARY KEY,
		id TEXT NOT NULL,
		state TEXT NOT NULL,
		sealed BLOB NOT NULL,
		created_utc INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) unlock(passphrase string, params ScryptParams) error {
	var (
		salt  []byte
		check []byte
		p     ScryptParams
	)
	err := s.db.QueryRow(`SELECT salt, scrypt_n, scrypt_r, scrypt_p, check_value FROM meta WHERE id = 1`).
		Scan(&salt, &p.N, &p.R, &p.P, &check)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.initMeta(passphrase, params)
	case err != nil:
		return fmt.Errorf("read store metadata: %w", err)
	}

	sealer, err := newRowSealer(passphrase, salt, p)
	if err != nil {
		return err
	}
	pt, err := sealer.open(check, "meta")
	if err != nil || string(pt) != checkPlaintext {
		return ErrWrongPassphrase
	}
	s.sealer = sealer
	return nil
}

func (s *SQLiteStore) initMeta(passphrase string, params ScryptParams) error {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return err
	}
	sealer, err := newRowSealer(passphrase, salt, params)
	if err != nil {
		return err
	}
	check, err := sealer.seal([]byte(checkPlaintext), "meta")
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO meta (id, version, salt, scrypt_n, scrypt_r, scrypt_p, check_value) VALUES (1, ?, ?, ?, ?, ?, ?)`,
		envelopeFormatVersion, salt, params.N, params.R, params.P, check,
	)
	if err != nil {
		return fmt.Errorf("write store metadata: %w", err)
	}
	s.sealer = sealer
	return nil
}

// GetKey returns the stored key for target.
func (s *SQLiteStore) GetKey(target domain.Target) (domain.SymmetricKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := target.Normalize()
	var (
		sealed []byte
		mode   string
	)
	err := s.db.QueryRow(`SELECT sealed, mode FROM keys WHERE target = ?`, t.String()).Scan(&sealed, &mode)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && sealed == nil) {
		return domain.SymmetricKey{}, false, nil
	}
	if err != nil {
		return domain.SymmetricKey{}, false, fmt.Errorf("query key: %w", err)
	}
	material, err := s.sealer.open(sealed, "key:"+t.String())
	if err != nil {
		return domain.SymmetricKey{}, false, err
	}
	defer memzero.Zero(material)
	return keyRecord{Material: material, Mode: domain.CipherMode(mode)}.key()
}

// SetKey replaces the key for target, keeping its disabled flag.
func (s *SQLiteStore) SetKey(target domain.Target, key domain.SymmetricKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := target.Normalize()
	sealed, err := s.sealer.seal(key.Material.Slice(), "key:"+t.String())
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO keys (target, sealed, mode, disabled, updated_at) VALUES (?, ?, ?, 0, ?)
		ON CONFLICT(target) DO UPDATE SET
			sealed = excluded.sealed,
			mode = excluded.mode,
			updated_at = excluded.updated_at`,
		t.String(), sealed, string(key.Mode), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("store key: %w", err)
	}
	return nil
}

// DeleteKey forgets target entirely.
func (s *SQLiteStore) DeleteKey(target domain.Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM keys WHERE target = ?`, target.Normalize().String()); err != nil {
		return fmt.Errorf("delete key: %w", err)
	}
	return nil
}

// IsDisabled reports the disabled flag for target.
func (s *SQLiteStore) IsDisabled(target domain.Target) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var disabled bool
	err := s.db.QueryRow(`SELECT disabled FROM keys WHERE target = ?`, target.Normalize().String()).Scan(&disabled)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query disabled flag: %w", err)
	}
	return disabled, nil
}

// SetDisabled sets the disabled flag for target.
func (s *SQLiteStore) SetDisabled(target domain.Target, disabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO keys (target, sealed, mode, disabled, updated_at) VALUES (?, NULL, '', ?, ?)
		ON CONFLICT(target) DO UPDATE SET
			disabled = excluded.disabled,
			updated_at = excluded.updated_at`,
		target.Normalize().String(), disabled, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("set disabled flag: %w", err)
	}
	return nil
}

// ListTargets returns every target holding a key, sorted.
func (s *SQLiteStore) ListTargets() ([]domain.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT target FROM keys WHERE sealed IS NOT NULL ORDER BY target`)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var out []domain.Target
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, domain.Target(t))
	}
	return out, rows.Err()
}

// SaveSession writes the session record for its target.
func (s *SQLiteStore) SaveSession(session domain.KeyExchangeSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.Target = session.Target.Normalize()
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)
	sealed, err := s.sealer.seal(raw, "session:"+session.Target.String())
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO sessions (target, id, state, sealed, created_utc) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(target) DO UPDATE SET
			id = excluded.id,
			state = excluded.state,
			sealed = excluded.sealed,
			created_utc = excluded.created_utc`,
		session.Target.String(), session.ID, string(session.State), sealed, session.CreatedUTC,
	)
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// LoadSession retrieves the stored session for target.
func (s *SQLiteStore) LoadSession(target domain.Target) (domain.KeyExchangeSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := target.Normalize()
	var sealed []byte
	err := s.db.QueryRow(`SELECT sealed FROM sessions WHERE target = ?`, t.String()).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.KeyExchangeSession{}, false, nil
	}
	if err != nil {
		return domain.KeyExchangeSession{}, false, fmt.Errorf("query session: %w", err)
	}
	raw, err := s.sealer.open(sealed, "session:"+t.String())
	if err != nil {
		return domain.KeyExchangeSession{}, false, err
	}
	defer memzero.Zero(raw)
	var session domain.KeyExchangeSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return domain.KeyExchangeSession{}, false, fmt.Errorf("decode session: %w", err)
	}
	return session, true, nil
}

// DeleteSession removes the session for target.
func (s *SQLiteStore) DeleteSession(target domain.Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE target = ?`, target.Normalize().String()); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

var (
	_ domain.KeyStore     = (*SQLiteStore)(nil)
	_ domain.SessionStore = (*SQLiteStore)(nil)
)
