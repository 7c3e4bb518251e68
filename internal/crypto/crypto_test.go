package crypto_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"fishcrypt/internal/crypto"
	"fishcrypt/internal/domain"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex: %v", err)
	}
	return b
}

func TestExpand_RejectsWrongLength(t *testing.T) {
	for _, n := range []int{0, 8, 15, 17, 56} {
		if _, err := crypto.Expand(make([]byte, n)); !errors.Is(err, domain.ErrInvalidKeyLength) {
			t.Fatalf("len %d: got %v, want ErrInvalidKeyLength", n, err)
		}
	}
}

func TestSchedule_KnownAnswer(t *testing.T) {
	key := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	s, err := crypto.Expand(key)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	pt := mustHex(t, "0123456789abcdef")
	want := mustHex(t, "5b2c1ca4d5528ad2")

	got := make([]byte, crypto.BlockSize)
	s.EncryptBlock(got, pt)
	if !bytes.Equal(got, want) {
		t.Fatalf("encrypt = %x, want %x", got, want)
	}
	back := make([]byte, crypto.BlockSize)
	s.DecryptBlock(back, got)
	if !bytes.Equal(back, pt) {
		t.Fatalf("decrypt = %x, want %x", back, pt)
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	got := crypto.DeriveKey([]byte("MyKey"))
	want := mustHex(t, "347b261d0165818507e780223d9fcbd6")
	if !bytes.Equal(got.Slice(), want) {
		t.Fatalf("DeriveKey = %x, want %x", got.Slice(), want)
	}
	if crypto.DeriveKey([]byte("MyKey")) != got {
		t.Fatal("DeriveKey not deterministic")
	}
	if crypto.DeriveKey([]byte("mykey")) == got {
		t.Fatal("different passphrases produced the same key")
	}
}

func TestFingerprint_DoesNotLeakKey(t *testing.T) {
	k := crypto.DeriveKey([]byte("MyKey"))
	fp := crypto.Fingerprint(k)
	if len(fp) != 12 {
		t.Fatalf("fingerprint length %d", len(fp))
	}
	if bytes.Contains([]byte(hex.EncodeToString(k.Slice())), []byte(fp)) {
		t.Fatal("fingerprint is a substring of the key")
	}
	if k.String() != "KeyMaterial(redacted)" {
		t.Fatalf("String leaked: %s", k.String())
	}
}
