// Package crypto exposes the minimal primitives used by fishcrypt.
//
// Contents
//
//   - Blowfish block engine keyed with a 128-bit key (Expand, MustExpand,
//     Schedule.EncryptBlock/DecryptBlock)
//   - Passphrase and shared-secret key derivation (DeriveKey, DeriveSharedKey)
//   - Short key fingerprints for display/logging (Fingerprint)
//   - Standard base64 helpers (B64, UnB64)
//
// # Notes
//
// The engine performs single-block transforms only. ECB and CBC framing
// live in internal/protocol. Key derivation is a bare digest with no salt;
// that is a wire compatibility requirement, not an oversight.
package crypto
