package fish64

import (
	"encoding/binary"
	"fmt"

	"fishcrypt/internal/domain"
)

// Alphabet is the 64-symbol table, in encoder order.
const Alphabet = "./0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	// BlockChars is the encoded length of one 8-byte block.
	BlockChars = 12
	// BlockBytes is the decoded length of one block.
	BlockBytes = 8

	halfChars = BlockChars / 2
	invalid   = 0xff
)

var decodeMap = func() (m [256]byte) {
	for i := range m {
		m[i] = invalid
	}
	for i := 0; i < len(Alphabet); i++ {
		m[Alphabet[i]] = byte(i)
	}
	return m
}()

// EncodeSymbol maps a 6-bit value to its symbol. Only the low 6 bits of v
// are used.
func EncodeSymbol(v byte) byte { return Alphabet[v&0x3f] }

// DecodeSymbol maps a symbol back to its 6-bit value.
func DecodeSymbol(c byte) (byte, bool) {
	v := decodeMap[c]
	return v, v != invalid
}

// EncodeBlock writes the 12-character encoding of an 8-byte block into dst.
func EncodeBlock(dst, block []byte) {
	_ = dst[BlockChars-1]
	left := binary.BigEndian.Uint32(block[0:4])
	right := binary.BigEndian.Uint32(block[4:8])
	encodeHalf(dst[:halfChars], right)
	encodeHalf(dst[halfChars:], left)
}

// DecodeBlock parses 12 characters into an 8-byte block in dst.
func DecodeBlock(dst []byte, src string) error {
	if len(src) != BlockChars {
		return fmt.Errorf("%w: block must be %d chars, got %d", domain.ErrDecode, BlockChars, len(src))
	}
	right, err := decodeHalf(src[:halfChars])
	if err != nil {
		return err
	}
	left, err := decodeHalf(src[halfChars:])
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint32(dst[0:4], left)
	binary.BigEndian.PutUint32(dst[4:8], right)
	return nil
}

// Encode encodes whole blocks; len(src) must be a multiple of 8.
func Encode(src []byte) string {
	out := make([]byte, len(src)/BlockBytes*BlockChars)
	for i := 0; i+BlockBytes <= len(src); i += BlockBytes {
		EncodeBlock(out[i/BlockBytes*BlockChars:], src[i:i+BlockBytes])
	}
	return string(out)
}

// Decode decodes whole blocks; len(src) must be a multiple of 12.
func Decode(src string) ([]byte, error) {
	if len(src)%BlockChars != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d", domain.ErrDecode, len(src), BlockChars)
	}
	out := make([]byte, len(src)/BlockChars*BlockBytes)
	for i := 0; i < len(src); i += BlockChars {
		if err := DecodeBlock(out[i/BlockChars*BlockBytes:], src[i:i+BlockChars]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func encodeHalf(dst []byte, v uint32) {
	for i := 0; i < halfChars; i++ {
		dst[i] = EncodeSymbol(byte(v))
		v >>= 6
	}
}

func decodeHalf(s string) (uint32, error) {
	var v uint64
	for i := 0; i < halfChars; i++ {
		d, ok := DecodeSymbol(s[i])
		if !ok {
			return 0, fmt.Errorf("%w: symbol %q outside alphabet", domain.ErrDecode, s[i])
		}
		v |= uint64(d) << (6 * i)
	}
	if v > 0xffffffff {
		return 0, fmt.Errorf("%w: non-canonical block half", domain.ErrDecode)
	}
	return uint32(v), nil
}
