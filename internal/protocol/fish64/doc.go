// Package fish64 implements the 64-symbol text encoding used by legacy ECB
// lines.
//
// Each 8-byte cipher block becomes 12 characters: the block is split into a
// left and right 32-bit big-endian half, the right half is emitted first, and
// each half is written as six symbols, least-significant 6 bits first. The
// two high bits of the sixth symbol are always zero for canonical input.
//
// The alphabet and its inverse table are package-level constants, built once
// at init and never mutated.
package fish64
