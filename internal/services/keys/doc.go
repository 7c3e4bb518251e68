// Package keys manages stored keys on the user's behalf: setting one from a
// passphrase, removing it, toggling encryption and describing it without
// revealing key bytes.
package keys
