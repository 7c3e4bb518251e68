// Package ecb implements the legacy codebook-mode line format.
//
// A line is a tag ("+OK " or "mcps ") followed by one 12-character fish64
// group per 8-byte block. Blocks are encrypted independently, so identical
// plaintext blocks produce identical groups; peers depend on that.
//
// Plaintext is zero-padded to a multiple of 8 bytes and trailing zero bytes
// are stripped on decode, so plaintext that itself ends in NUL bytes does not
// round-trip exactly.
package ecb
