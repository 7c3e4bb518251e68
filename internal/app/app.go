package app

import (
	"go.uber.org/zap"

	"fishcrypt/internal/logging"
)

// Options are the command-line overrides applied on top of the config file.
type Options struct {
	Home       string
	ConfigPath string
	Passphrase string
	RelayURL   string
	Verbose    bool
}

// App is a loaded configuration, its logger and the wired services.
type App struct {
	Config *Config
	Log    *zap.Logger
	*Wire
}

// New loads configuration, builds the logger and wires the services.
func New(opts Options) (*App, error) {
	home := opts.Home
	if home == "" {
		home = DefaultHome()
	}
	cfg, err := Load(home, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.RelayURL != "" {
		cfg.Relay.URL = opts.RelayURL
	}

	log, err := logging.New(cfg.Logging, opts.Verbose)
	if err != nil {
		return nil, err
	}
	w, err := NewWire(cfg, opts.Passphrase, nil, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return &App{Config: cfg, Log: log, Wire: w}, nil
}

// Close releases stores and flushes the logger.
func (a *App) Close() error {
	err := a.Wire.Close()
	_ = a.Log.Sync()
	return err
}
