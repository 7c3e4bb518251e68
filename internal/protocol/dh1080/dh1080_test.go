package dh1080_test

import (
	"bytes"
	"errors"
	"math/big"
	"strings"
	"testing"

	"fishcrypt/internal/domain"
	"fishcrypt/internal/protocol/dh1080"
)

func TestGroup_SafePrime(t *testing.T) {
	p := dh1080.Prime()
	if p.BitLen() != dh1080.Bits {
		t.Fatalf("bit length = %d", p.BitLen())
	}
	if !p.ProbablyPrime(20) {
		t.Fatal("P is not prime")
	}
	q := new(big.Int).Rsh(p, 1)
	if !q.ProbablyPrime(20) {
		t.Fatal("(P-1)/2 is not prime")
	}
	if dh1080.Generator().Int64() != 2 {
		t.Fatal("generator is not 2")
	}
}

func TestGroup_AccessorsReturnCopies(t *testing.T) {
	p := dh1080.Prime()
	p.SetInt64(7)
	if dh1080.Prime().BitLen() != dh1080.Bits {
		t.Fatal("mutating the returned prime changed the group")
	}
}

func TestSharedSecret_Agrees(t *testing.T) {
	for i := 0; i < 4; i++ {
		a, err := dh1080.GenerateKeyPair(nil)
		if err != nil {
			t.Fatalf("GenerateKeyPair: %v", err)
		}
		b, err := dh1080.GenerateKeyPair(nil)
		if err != nil {
			t.Fatalf("GenerateKeyPair: %v", err)
		}
		sa, err := dh1080.SharedSecret(a.Private, b.Public)
		if err != nil {
			t.Fatalf("SharedSecret a: %v", err)
		}
		sb, err := dh1080.SharedSecret(b.Private, a.Public)
		if err != nil {
			t.Fatalf("SharedSecret b: %v", err)
		}
		if sa.Cmp(sb) != 0 {
			t.Fatal("shared secrets differ")
		}

		ka, _ := dh1080.DeriveKey(a.Private, b.Public)
		kb, _ := dh1080.DeriveKey(b.Private, a.Public)
		if ka != kb || ka.IsZero() {
			t.Fatal("derived keys differ or are empty")
		}
	}
}

func TestGenerateKeyPair_LowestExponent(t *testing.T) {
	kp, err := dh1080.GenerateKeyPair(bytes.NewReader(make([]byte, 512)))
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if kp.Private.Int64() != 2 || kp.Public.Int64() != 4 {
		t.Fatalf("got x=%v y=%v, want 2 and 4", kp.Private, kp.Public)
	}
	if dh1080.PublicFor(kp.Private).Cmp(kp.Public) != 0 {
		t.Fatal("PublicFor disagrees")
	}
}

func TestGenerateKeyPair_ShortRandom(t *testing.T) {
	if _, err := dh1080.GenerateKeyPair(bytes.NewReader([]byte{1, 2})); err == nil {
		t.Fatal("expected error from exhausted reader")
	}
}

func TestValidatePublic(t *testing.T) {
	p := dh1080.Prime()
	bad := map[string]*big.Int{
		"zero":     big.NewInt(0),
		"one":      big.NewInt(1),
		"negative": big.NewInt(-5),
		"P-1":      new(big.Int).Sub(p, big.NewInt(1)),
		"P":        p,
		"P+5":      new(big.Int).Add(p, big.NewInt(5)),
		"nil":      nil,
	}
	for name, y := range bad {
		if err := dh1080.ValidatePublic(y); !errors.Is(err, domain.ErrInvalidPublicValue) {
			t.Fatalf("%s: got %v", name, err)
		}
	}
	for _, y := range []*big.Int{big.NewInt(2), new(big.Int).Sub(p, big.NewInt(2))} {
		if err := dh1080.ValidatePublic(y); err != nil {
			t.Fatalf("%v rejected: %v", y, err)
		}
	}

	kp, _ := dh1080.GenerateKeyPair(nil)
	if _, err := dh1080.SharedSecret(kp.Private, big.NewInt(1)); !errors.Is(err, domain.ErrInvalidPublicValue) {
		t.Fatalf("SharedSecret accepted 1: %v", err)
	}
}

func TestToken_RoundTrip(t *testing.T) {
	y := new(big.Int).Sub(dh1080.Prime(), big.NewInt(2))
	for _, kind := range []dh1080.Kind{dh1080.KindInit, dh1080.KindInitCBC, dh1080.KindFinish} {
		line := dh1080.FormatToken(kind, y)
		pub := strings.TrimPrefix(line, string(kind)+" ")
		if len(pub) != 181 || !strings.HasSuffix(pub, "A") {
			t.Fatalf("%s: public field %d chars", kind, len(pub))
		}
		tok, err := dh1080.ParseToken(line)
		if err != nil {
			t.Fatalf("ParseToken(%q): %v", kind, err)
		}
		if tok.Kind != kind || !tok.Compat || tok.Public.Cmp(y) != 0 {
			t.Fatalf("%s: got %+v", kind, tok)
		}
		if tok.WantsCBC() != (kind == dh1080.KindInitCBC) {
			t.Fatalf("%s: WantsCBC = %v", kind, tok.WantsCBC())
		}
	}
}

func TestToken_LegacyAndCBCWord(t *testing.T) {
	y := big.NewInt(0x123456)
	legacy := "DH1080_FINISH " + dh1080.EncodePublic(y, false)
	tok, err := dh1080.ParseToken(legacy)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if tok.Compat || tok.WantsCBC() || tok.Public.Cmp(y) != 0 {
		t.Fatalf("legacy token parsed as %+v", tok)
	}

	tok, err = dh1080.ParseToken("DH1080_INIT " + dh1080.EncodePublic(y, true) + " CBC")
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if !tok.CBCWord || !tok.WantsCBC() || tok.Kind != dh1080.KindInit {
		t.Fatalf("CBC word not honoured: %+v", tok)
	}
}

func TestToken_Unpadded(t *testing.T) {
	// Unpadded base64 of 0x1234.
	tok, err := dh1080.ParseToken("DH1080_INIT EjQ")
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if tok.Public.Int64() != 0x1234 {
		t.Fatalf("got %x", tok.Public)
	}
}

func TestToken_Errors(t *testing.T) {
	unknown := []string{
		"hello world",
		"DH1080_INIT",
		"DH1080_BOGUS AAAA",
		"DH1080_INIT AAAA ECB",
		"DH1080_INIT AAAA CBC extra",
	}
	for _, line := range unknown {
		if _, err := dh1080.ParseToken(line); !errors.Is(err, domain.ErrUnknownToken) {
			t.Fatalf("%q: got %v", line, err)
		}
	}
	for _, line := range []string{"DH1080_INIT !!!!", "DH1080_FINISH A"} {
		if _, err := dh1080.ParseToken(line); !errors.Is(err, domain.ErrDecode) {
			t.Fatalf("%q: got %v", line, err)
		}
	}
	if !dh1080.IsToken("  DH1080_FINISH abc") || dh1080.IsToken("+OK abc") {
		t.Fatal("IsToken misclassified")
	}
}
