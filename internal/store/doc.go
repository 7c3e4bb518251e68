// Package store provides the KeyStore and SessionStore backends.
//
// Three backends are available:
//   - MemoryStore keeps everything in process memory.
//   - KeyFileStore and SessionFileStore write passphrase-sealed JSON files
//     (keys.enc, sessions.enc) under the configured home directory.
//   - SQLiteStore keeps both in one database with each key and session
//     sealed per row.
//
// Sealing uses scrypt to derive a ChaCha20-Poly1305 key from the user's
// passphrase. All stores normalise targets before lookup and are safe for
// concurrent use.
package store
