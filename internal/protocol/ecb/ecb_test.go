package ecb_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"strings"
	"testing"

	"fishcrypt/internal/crypto"
	"fishcrypt/internal/domain"
	"fishcrypt/internal/protocol/ecb"
)

func TestEncrypt_KnownAnswer(t *testing.T) {
	key := crypto.DeriveKey([]byte("MyKey"))

	wire := ecb.Encrypt(key, []byte("hello world"), ecb.TagOK)
	if wire != "+OK VKneU./M.Aw/mogZw0Hl0Vx." {
		t.Fatalf("Encrypt = %q", wire)
	}
	if body := strings.TrimPrefix(wire, ecb.TagOK); len(body) != 24 {
		t.Fatalf("want 24 chars (2 blocks), got %d", len(body))
	}

	pt, err := ecb.Decrypt(key, wire, ecb.Options{})
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(pt) != "hello world" {
		t.Fatalf("got %q", pt)
	}
}

func TestEncrypt_IdenticalBlocksIdenticalGroups(t *testing.T) {
	key := crypto.DeriveKey([]byte("MyKey"))
	wire := ecb.Encrypt(key, []byte("AAAAAAAAAAAAAAAA"), "")
	if wire != "+OK 4EH2U0ohlie04EH2U0ohlie0" {
		t.Fatalf("Encrypt = %q", wire)
	}
	body := strings.TrimPrefix(wire, ecb.TagOK)
	if body[:12] != body[12:] {
		t.Fatalf("blocks are chained: %q", body)
	}
}

func TestRoundTrip_RandomInputs(t *testing.T) {
	var key domain.KeyMaterial
	for n := 0; n < 70; n++ {
		if _, err := rand.Read(key[:]); err != nil {
			t.Fatalf("rand: %v", err)
		}
		pt := make([]byte, n)
		if _, err := rand.Read(pt); err != nil {
			t.Fatalf("rand: %v", err)
		}
		for _, tag := range []string{ecb.TagOK, ecb.TagMCPS} {
			wire := ecb.Encrypt(key, pt, tag)
			if !strings.HasPrefix(wire, tag) {
				t.Fatalf("missing tag %q in %q", tag, wire)
			}
			got, err := ecb.Decrypt(key, wire, ecb.Options{})
			if err != nil {
				t.Fatalf("n=%d: Decrypt: %v", n, err)
			}
			// Trailing zero bytes are absorbed by padding removal.
			if want := bytes.TrimRight(pt, "\x00"); !bytes.Equal(got, want) {
				t.Fatalf("n=%d: got %x, want %x", n, got, want)
			}
		}
	}
}

func TestDecrypt_BrokenTrailingGroup(t *testing.T) {
	key := crypto.DeriveKey([]byte("MyKey"))
	wire := ecb.Encrypt(key, []byte("hello world"), ecb.TagOK)
	truncated := wire[:len(wire)-5] // one full group + 7 chars

	got, err := ecb.Decrypt(key, truncated, ecb.Options{})
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(got) != "hello wo" {
		t.Fatalf("dropped fragment: got %q", got)
	}

	got, err = ecb.Decrypt(key, truncated, ecb.Options{MarkBroken: true})
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(got) != "hello wo&" {
		t.Fatalf("marked fragment: got %q", got)
	}

	got, err = ecb.Decrypt(key, truncated, ecb.Options{MarkBroken: true, BrokenMarker: " [broken]"})
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(got) != "hello wo [broken]" {
		t.Fatalf("custom marker: got %q", got)
	}
}

func TestDecrypt_Errors(t *testing.T) {
	key := crypto.DeriveKey([]byte("MyKey"))
	cases := map[string]string{
		"no tag":         "VKneU./M.Aw/mogZw0Hl0Vx.",
		"short":          "+OK VKneU./M.Aw",
		"bad symbol":     "+OK VKneU./M.Aw*mogZw0Hl0Vx.",
		"cbc line":       "+OK *AQIDBAUGBwheJ/FIwXF9pJStz1QJ0Cqw",
		"empty after ok": "+OK ",
	}
	for name, in := range cases {
		if _, err := ecb.Decrypt(key, in, ecb.Options{}); !errors.Is(err, domain.ErrDecode) {
			t.Fatalf("%s: got %v, want ErrDecode", name, err)
		}
	}
}
