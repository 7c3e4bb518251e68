package fish64_test

import (
	"bytes"
	"errors"
	"testing"

	"fishcrypt/internal/domain"
	"fishcrypt/internal/protocol/fish64"
)

func TestSymbol_RoundTripAllValues(t *testing.T) {
	for v := 0; v < 64; v++ {
		c := fish64.EncodeSymbol(byte(v))
		got, ok := fish64.DecodeSymbol(c)
		if !ok || got != byte(v) {
			t.Fatalf("value %d -> %q -> %d (ok=%v)", v, c, got, ok)
		}
	}
}

func TestSymbol_RejectsOutsideAlphabet(t *testing.T) {
	for c := 0; c < 256; c++ {
		_, ok := fish64.DecodeSymbol(byte(c))
		want := bytes.IndexByte([]byte(fish64.Alphabet), byte(c)) >= 0
		if ok != want {
			t.Fatalf("symbol %q: ok=%v, want %v", c, ok, want)
		}
	}
}

func TestBlock_LayoutAndRoundTrip(t *testing.T) {
	// Right half first, low bits first: value 1 is '/', zero is '.'.
	block := []byte{0, 0, 0, 0, 0, 0, 0, 1}
	got := fish64.Encode(block)
	if got != "/..........." {
		t.Fatalf("Encode = %q", got)
	}

	cases := [][]byte{
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
	}
	for _, c := range cases {
		enc := fish64.Encode(c)
		if len(enc) != len(c)/8*12 {
			t.Fatalf("len(%q) = %d", enc, len(enc))
		}
		dec, err := fish64.Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%q): %v", enc, err)
		}
		if !bytes.Equal(dec, c) {
			t.Fatalf("round trip %x -> %x", c, dec)
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	cases := map[string]string{
		"bad symbol":    "*...........",
		"short":         "...........",
		"non-canonical": ".....Z......",
	}
	for name, in := range cases {
		if _, err := fish64.Decode(in); !errors.Is(err, domain.ErrDecode) {
			t.Fatalf("%s: got %v, want ErrDecode", name, err)
		}
	}
}
