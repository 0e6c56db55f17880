// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package keywrap

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"testing"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	if _, err := rand.Read(k); err != nil {
		t.Fatalf("rand: %v", err)
	}
	return k
}

func TestWrapUnwrap_RoundTrip(t *testing.T) {
	cases := [][]byte{randomKey(t), []byte("x"), bytes.Repeat([]byte{0xab}, 16), []byte(`{"address":"0x00"}`)}
	for _, plain := range cases {
		w, err := Wrap(plain, []byte("correct horse battery staple"))
		if err != nil {
			t.Fatalf("wrap: %v", err)
		}
		if len(w.IVHex) != 32 {
			t.Fatalf("expected 32 hex chars of iv, got %d", len(w.IVHex))
		}
		got, err := Unwrap(w.CiphertextHex, w.IVHex, []byte("correct horse battery staple"))
		if err != nil {
			t.Fatalf("unwrap: %v", err)
		}
		if !bytes.Equal(got, plain) {
			t.Fatalf("round trip mismatch: got %x want %x", got, plain)
		}
	}
}

func TestWrap_FreshIVPerCall(t *testing.T) {
	k := randomKey(t)
	a, err := Wrap(k, []byte("pw-one-123"))
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	b, err := Wrap(k, []byte("pw-one-123"))
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if a.IVHex == b.IVHex || a.CiphertextHex == b.CiphertextHex {
		t.Fatalf("expected distinct iv and ciphertext per wrap")
	}
}

func TestUnwrapKey_WrongPassword(t *testing.T) {
	k := randomKey(t)
	w, err := Wrap(k, []byte("Tr0ub4dor&3"))
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	for _, pw := range []string{"Tr0ub4dor&4", "", "tr0ub4dor&3", "Tr0ub4dor&3 "} {
		got, err := UnwrapKey(w.CiphertextHex, w.IVHex, []byte(pw), len(k))
		if !errors.Is(err, ErrDecryption) {
			t.Fatalf("password %q: expected ErrDecryption, got key=%x err=%v", pw, got, err)
		}
		if err.Error() != "failed to decrypt: check your password" {
			t.Fatalf("decryption error must not leak details: %q", err.Error())
		}
	}
	got, err := UnwrapKey(w.CiphertextHex, w.IVHex, []byte("Tr0ub4dor&3"), len(k))
	if err != nil || !bytes.Equal(got, k) {
		t.Fatalf("expected correct password to unwrap, err=%v", err)
	}
}

func TestUnwrap_CorruptRecord(t *testing.T) {
	w, err := Wrap([]byte("payload"), []byte("secret-pass"))
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	cases := []struct {
		name   string
		ct, iv string
	}{
		{"missing ciphertext", "", w.IVHex},
		{"missing iv", w.CiphertextHex, ""},
		{"short iv", w.CiphertextHex, "00ff"},
		{"non-hex iv", w.CiphertextHex, "zz" + w.IVHex[2:]},
		{"partial block", w.CiphertextHex[:len(w.CiphertextHex)-2], w.IVHex},
		{"non-hex ciphertext", "q" + w.CiphertextHex[1:], w.IVHex},
	}
	for _, tc := range cases {
		if _, err := Unwrap(tc.ct, tc.iv, []byte("secret-pass")); !errors.Is(err, ErrCorruptRecord) {
			t.Fatalf("%s: expected ErrCorruptRecord, got %v", tc.name, err)
		}
		if err := ValidateShape(tc.ct, tc.iv); !errors.Is(err, ErrCorruptRecord) {
			t.Fatalf("%s: ValidateShape expected ErrCorruptRecord, got %v", tc.name, err)
		}
	}
	if err := ValidateShape(w.CiphertextHex, w.IVHex); err != nil {
		t.Fatalf("valid shape rejected: %v", err)
	}
}

func TestWrap_IVIsSalt(t *testing.T) {
	fixed := bytes.Repeat([]byte{7}, IVSize)
	prev := Rand
	Rand = bytes.NewReader(fixed)
	defer func() { Rand = prev }()

	w, err := Wrap([]byte("k"), []byte("password1"))
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if w.IVHex != hex.EncodeToString(fixed) {
		t.Fatalf("iv not taken from Rand: %s", w.IVHex)
	}
	key, err := deriveKey([]byte("password1"), fixed)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if len(key) != KeySize {
		t.Fatalf("expected %d byte key, got %d", KeySize, len(key))
	}
}

func TestPadUnpad(t *testing.T) {
	for n := 0; n <= 33; n++ {
		in := bytes.Repeat([]byte{1}, n)
		p := pad(in, IVSize)
		if len(p)%IVSize != 0 || len(p) <= n {
			t.Fatalf("bad padded length %d for %d", len(p), n)
		}
		out, ok := unpad(p, IVSize)
		if !ok || !bytes.Equal(out, in) {
			t.Fatalf("unpad failed for %d", n)
		}
	}
	bad := bytes.Repeat([]byte{0}, IVSize)
	if _, ok := unpad(bad, IVSize); ok {
		t.Fatalf("zero padding must be rejected")
	}
}
