package memzero_test

import (
	"errors"
	"testing"

	"fishcrypt/internal/util/memzero"
)

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func TestZero(t *testing.T) {
	b := []byte("secret material")
	memzero.Zero(b)
	if !allZero(b) {
		t.Fatalf("buffer not wiped: %v", b)
	}
	memzero.Zero(nil) // must not panic
}

func TestWith_WipesOnError(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	wantErr := errors.New("boom")
	err := memzero.With(buf, func(b []byte) error {
		if b[0] != 1 {
			t.Fatalf("fn saw wiped buffer")
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want %v", err, wantErr)
	}
	if !allZero(buf) {
		t.Fatalf("buffer not wiped after error")
	}
}

func TestWith_WipesOnPanic(t *testing.T) {
	buf := []byte{9, 9, 9}
	func() {
		defer func() { _ = recover() }()
		_ = memzero.With(buf, func([]byte) error { panic("early exit") })
	}()
	if !allZero(buf) {
		t.Fatalf("buffer not wiped after panic")
	}
}

func TestBuffer_Release(t *testing.T) {
	raw := []byte{7, 7, 7}
	s := memzero.Hold(raw)
	s.Release()
	s.Release()
	if !allZero(raw) || s.Bytes() != nil {
		t.Fatalf("release did not wipe: %v", raw)
	}
	if got := len(memzero.Acquire(16).Bytes()); got != 16 {
		t.Fatalf("Acquire len = %d", got)
	}
}
