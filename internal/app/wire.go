package app

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"fishcrypt/internal/domain"
	"fishcrypt/internal/relay"
	keyxsvc "fishcrypt/internal/services/keyexchange"
	keysvc "fishcrypt/internal/services/keys"
	messagesvc "fishcrypt/internal/services/message"
	"fishcrypt/internal/store"
)

// Wire bundles all stores, services and clients for the CLI.
type Wire struct {
	Keys      domain.KeyStore
	Sessions  domain.SessionStore
	Messages  *messagesvc.Service
	KeyX      *keyxsvc.Service
	KeyMgr    *keysvc.Service
	Transport domain.Transport

	closers []func() error
}

// NewWire constructs the dependency graph from cfg. passphrase seals the
// stores at rest; httpClient may be nil.
func NewWire(cfg *Config, passphrase string, httpClient *http.Client, log *zap.Logger) (*Wire, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Wire{}

	switch cfg.Store.Backend {
	case BackendMemory:
		ms := store.NewMemoryStore()
		w.Keys, w.Sessions = ms, ms
	case BackendSQLite:
		db, err := store.OpenSQLite(cfg.SQLitePath(), passphrase, cfg.ScryptParams())
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		w.Keys, w.Sessions = db, db
		w.closers = append(w.closers, db.Close)
	case BackendFile:
		w.Keys = store.NewKeyFileStore(cfg.Home, passphrase, cfg.ScryptParams())
		w.Sessions = store.NewSessionFileStore(cfg.Home, passphrase, cfg.ScryptParams())
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	w.Messages = messagesvc.New(w.Keys, cfg.MessageOptions(), log)
	w.KeyX = keyxsvc.New(w.Keys, w.Sessions, cfg.KeyXOptions(), log)
	w.KeyMgr = keysvc.New(w.Keys, cfg.DefaultMode(), log)
	w.Transport = relay.NewHTTP(cfg.Relay.URL, httpClient, cfg.GetRelayTimeout())

	log.Debug("wired",
		zap.String("home", cfg.Home),
		zap.String("backend", cfg.Store.Backend),
		zap.String("relay", cfg.Relay.URL))
	return w, nil
}

// Close releases store handles.
func (w *Wire) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	w.closers = nil
	return first
}
