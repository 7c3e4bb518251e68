// Package commands defines the fishcrypt CLI.
//
// Commands
//
//   - setkey <target> <key>     Derive and store a key (prefix cbc: or ecb: to pick the mode)
//   - delkey <target>           Remove a key
//   - key <target>              Show mode, fingerprint and state of a key
//   - keys                      List stored keys
//   - enable/disable <target>   Toggle encryption without losing the key
//   - encrypt <target> <text>   Print the wire line for text
//   - decrypt <target> <line>   Print the text of a wire line
//   - keyx init|handle|status   Run a DH1080 exchange by hand
//   - selftest                  Round-trip both cipher modes
//   - send <to> <text>          Encrypt and deliver through the relay
//   - recv                      Fetch, decrypt and answer key exchanges
//
// The root command loads configuration and wires the stores and services
// before any subcommand runs, and releases them afterwards.
package commands
