// Package cbc implements the chained-mode line format: "+OK *" followed by
// standard padded base64 of IV || ciphertext.
//
// A fresh random 8-byte IV is drawn for every line, so encrypting the same
// text twice yields different lines. Plaintext is zero-padded to the block
// size and trailing zero bytes are stripped on decode.
package cbc
