// Package app loads configuration and wires application dependencies for
// the CLI.
//
// Config comes from <home>/config.yaml over built-in defaults, then
// FISHCRYPT_* environment variables, then command-line flags. NewWire builds
// the selected store backend, the message, key-exchange and key services,
// and the relay transport, exposing them via the Wire struct.
package app
