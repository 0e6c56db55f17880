// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

// Package security provides the redacting Secret wrapper used for passwords
// and decrypted private keys while they live in memory.
package security

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
)

// Secret is a thin wrapper around a byte slice intended to hold sensitive
// material (private keys, passwords). Formatting and JSON marshaling redact
// the contents so a Secret cannot leak through logs or error messages.
type Secret []byte

const redacted = "[SECRET]"

// String redacts the secret for fmt.Print* convenience.
func (s Secret) String() string { return redacted }

// Format implements fmt.Formatter to ensure `%v`, `%#v`, `%x` and friends are redacted.
func (s Secret) Format(f fmt.State, c rune) {
	_, _ = io.WriteString(f, redacted)
}

// GoString keeps %#v redacted for callers that bypass Format.
func (s Secret) GoString() string { return redacted }

// Bytes returns a copy of the underlying bytes. Callers are responsible for
// zeroing sensitive copies when done.
func (s Secret) Bytes() []byte {
	out := make([]byte, len(s))
	copy(out, s)
	return out
}

// Len reports the length of the secret without exposing it.
func (s Secret) Len() int { return len(s) }

// IsEmpty reports whether the secret holds no bytes.
func (s Secret) IsEmpty() bool { return len(s) == 0 }

// Zero overwrites the underlying byte slice with zeros.
func (s *Secret) Zero() {
	if s == nil || *s == nil {
		return
	}
	for i := range *s {
		(*s)[i] = 0
	}
}

// Wipe zeroes b in place.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Hex returns the lowercase hex encoding of the secret. The result is itself
// sensitive; it exists for the explicit export-key flow only.
func (s Secret) Hex() string { return hex.EncodeToString(s) }

// Equal compares two secrets byte by byte.
func (s Secret) Equal(o Secret) bool {
	if len(s) != len(o) {
		return false
	}
	var diff byte
	for i := range s {
		diff |= s[i] ^ o[i]
	}
	return diff == 0
}

// MarshalJSON redacts secrets in JSON marshaling.
func (s Secret) MarshalJSON() ([]byte, error) { return json.Marshal(redacted) }

// FromString creates a Secret from a string input (callers should zero any
// intermediate []byte they create from user input).
func FromString(in string) Secret { return Secret([]byte(in)) }

// FromBytes creates a Secret from bytes (it makes a copy).
func FromBytes(in []byte) Secret {
	out := make([]byte, len(in))
	copy(out, in)
	return Secret(out)
}
