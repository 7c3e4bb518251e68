// Package dh1080 implements the DH1080 key agreement used by FiSH-family
// chat encryption.
//
// # Group
//
// The group is a fixed 1080-bit safe prime with generator 2. It is a legacy
// constant shared by every peer; changing it breaks interoperability.
//
// # Tokens
//
// Public values travel in single-line tokens:
//
//	DH1080_INIT <b64>[A]
//	DH1080_INIT_CBC <b64>[A]
//	DH1080_FINISH <b64>[A]
//
// The base64 is the standard alphabet over the big-endian public value. A
// trailing 'A' after a full base64 quantum flags a peer that understands
// the CBC variant. A trailing " CBC" word is accepted with the same meaning.
//
// # Validation
//
// Peer values must satisfy 1 < y < P-1. Anything else is rejected with
// domain.ErrInvalidPublicValue before any exponentiation.
package dh1080
