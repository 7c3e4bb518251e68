package crypto

import "encoding/base64"

// B64 returns standard padded base64 without newlines.
func B64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// UnB64 decodes standard padded base64.
func UnB64(s string) ([]byte, error) { return base64.StdEncoding.DecodeString(s) }
