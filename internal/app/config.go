package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"fishcrypt/internal/domain"
	"fishcrypt/internal/logging"
	"fishcrypt/internal/services/keyexchange"
	"fishcrypt/internal/services/message"
	"fishcrypt/internal/store"
)

// ConfigFilename is the config file name inside the home directory.
const ConfigFilename = "config.yaml"

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds runtime options loaded from <home>/config.yaml.
type Config struct {
	// Home is the data directory. It is not read from the file.
	Home string `yaml:"-"`

	Store    StoreConfig    `yaml:"store"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	KeyX     KeyXConfig     `yaml:"keyx"`
	Logging  logging.Config `yaml:"logging"`
	Relay    RelayConfig    `yaml:"relay"`
}

// StoreConfig selects the key/session store.
type StoreConfig struct {
	Backend    string `yaml:"backend"`     // file, sqlite, memory
	SQLitePath string `yaml:"sqlite_path"` // relative paths resolve under Home
	ScryptN    int    `yaml:"scrypt_n"`
}

// DispatchConfig tunes the message dispatcher.
type DispatchConfig struct {
	AutoLearn       bool   `yaml:"auto_learn"`
	PersistLearned  bool   `yaml:"persist_learned"`
	MarkBroken      bool   `yaml:"mark_broken"`
	BrokenMarker    string `yaml:"broken_marker"`
	PlainPrefix     string `yaml:"plain_prefix"`
	DecryptedPrefix string `yaml:"decrypted_prefix"`
	DefaultMode     string `yaml:"default_mode"`
}

// KeyXConfig tunes DH1080 exchanges.
type KeyXConfig struct {
	DefaultVariant string `yaml:"default_variant"`
	SessionTTL     string `yaml:"session_ttl"`
}

// RelayConfig points at the relay transport.
type RelayConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

// DefaultHome returns $FISHCRYPT_HOME or ~/.fishcrypt.
func DefaultHome() string {
	if h := os.Getenv("FISHCRYPT_HOME"); h != "" {
		return h
	}
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".fishcrypt")
	}
	return ".fishcrypt"
}

// DefaultConfig returns the built-in settings rooted at home.
func DefaultConfig(home string) *Config {
	return &Config{
		Home: home,
		Store: StoreConfig{
			Backend:    BackendFile,
			SQLitePath: "fishcrypt.db",
			ScryptN:    store.DefaultScryptParams().N,
		},
		Dispatch: DispatchConfig{
			AutoLearn:      true,
			PersistLearned: true,
			MarkBroken:     true,
			BrokenMarker:   "&",
			PlainPrefix:    "+p ",
			DefaultMode:    string(domain.ModeCBC),
		},
		KeyX: KeyXConfig{
			DefaultVariant: string(domain.VariantCBC),
			SessionTTL:     "10m",
		},
		Logging: logging.DefaultConfig(),
		Relay: RelayConfig{
			URL:     "http://127.0.0.1:8080",
			Timeout: "10s",
		},
	}
}

// Load reads the config file at path over the defaults for home. A missing
// file yields the defaults. Environment overrides apply either way.
func Load(home, path string) (*Config, error) {
	cfg := DefaultConfig(home)
	if path == "" {
		path = filepath.Join(home, ConfigFilename)
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("FISHCRYPT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if url := os.Getenv("FISHCRYPT_RELAY_URL"); url != "" {
		c.Relay.URL = url
	}
	if backend := os.Getenv("FISHCRYPT_STORE_BACKEND"); backend != "" {
		c.Store.Backend = backend
	}
}

// Validate checks enumerations and durations.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	if _, err := domain.ParseCipherMode(c.Dispatch.DefaultMode); err != nil {
		return fmt.Errorf("dispatch.default_mode: %w", err)
	}
	if _, err := domain.ParseExchangeVariant(c.KeyX.DefaultVariant); err != nil {
		return fmt.Errorf("keyx.default_variant: %w", err)
	}
	if _, err := time.ParseDuration(c.KeyX.SessionTTL); err != nil {
		return fmt.Errorf("keyx.session_ttl: %w", err)
	}
	if _, err := time.ParseDuration(c.Relay.Timeout); err != nil {
		return fmt.Errorf("relay.timeout: %w", err)
	}
	return nil
}

// GetSessionTTL returns keyx.session_ttl, or 10m when unparsable.
func (c *Config) GetSessionTTL() time.Duration {
	d, err := time.ParseDuration(c.KeyX.SessionTTL)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// GetRelayTimeout returns relay.timeout, or 10s when unparsable.
func (c *Config) GetRelayTimeout() time.Duration {
	d, err := time.ParseDuration(c.Relay.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// DefaultMode returns dispatch.default_mode.
func (c *Config) DefaultMode() domain.CipherMode {
	m, err := domain.ParseCipherMode(c.Dispatch.DefaultMode)
	if err != nil {
		return domain.ModeCBC
	}
	return m
}

// MessageOptions maps the dispatch section onto the dispatcher options.
func (c *Config) MessageOptions() message.Options {
	d := c.Dispatch
	return message.Options{
		AutoLearn:       d.AutoLearn,
		PersistLearned:  d.PersistLearned,
		MarkBroken:      d.MarkBroken,
		BrokenMarker:    d.BrokenMarker,
		PlainPrefix:     d.PlainPrefix,
		DecryptedPrefix: d.DecryptedPrefix,
	}
}

// KeyXOptions maps the keyx section onto the key-exchange options.
func (c *Config) KeyXOptions() keyexchange.Options {
	v, err := domain.ParseExchangeVariant(c.KeyX.DefaultVariant)
	if err != nil {
		v = domain.VariantCBC
	}
	return keyexchange.Options{DefaultVariant: v, SessionTTL: c.GetSessionTTL()}
}

// ScryptParams returns the at-rest KDF parameters.
func (c *Config) ScryptParams() store.ScryptParams {
	p := store.DefaultScryptParams()
	if c.Store.ScryptN > 0 {
		p.N = c.Store.ScryptN
	}
	return p
}

// SQLitePath resolves store.sqlite_path against Home.
func (c *Config) SQLitePath() string {
	if filepath.IsAbs(c.Store.SQLitePath) {
		return c.Store.SQLitePath
	}
	return filepath.Join(c.Home, c.Store.SQLitePath)
}
