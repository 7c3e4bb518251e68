package memzero

import (
	"crypto/subtle"
	"runtime"
)

// Zero overwrites b with zeros in a constant-time friendly way.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
	runtime.KeepAlive(b)
}

// With hands buf to fn and zeroes it on every exit path, including a panic
// inside fn.
func With(buf []byte, fn func([]byte) error) error {
	defer Zero(buf)
	return fn(buf)
}

// Buffer is a scoped sensitive buffer. Acquire one, defer Release, and the
// contents are wiped however the function returns.
type Buffer struct {
	b []byte
}

// Acquire allocates a zeroed sensitive buffer of n bytes.
func Acquire(n int) *Buffer { return &Buffer{b: make([]byte, n)} }

// Hold wraps an existing slice so it is wiped on Release.
func Hold(b []byte) *Buffer { return &Buffer{b: b} }

// Bytes returns the underlying slice. It is nil after Release.
func (s *Buffer) Bytes() []byte { return s.b }

// Release zeroes and drops the buffer. Safe to call more than once.
func (s *Buffer) Release() {
	Zero(s.b)
	s.b = nil
}
