// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

// Package keywrap encrypts raw key material under a password.
//
// Every Wrap draws a fresh 16-byte IV. The IV is also the scrypt salt used to
// derive the 32-byte AES-256 key, and the payload is encrypted in CBC mode
// with PKCS#7 padding. Ciphertext and IV are returned hex encoded, which is
// the shape persisted in the wallet file.
package keywrap

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	// IVSize is the AES block size; the IV doubles as the KDF salt.
	IVSize = aes.BlockSize
	// KeySize selects AES-256.
	KeySize = 32

	scryptN = 16384
	scryptR = 8
	scryptP = 1
)

var (
	// ErrDecryption is the only error a wrong password produces. It never says
	// which step failed.
	ErrDecryption = errors.New("failed to decrypt: check your password")
	// ErrCorruptRecord reports missing or malformed ciphertext/IV fields.
	ErrCorruptRecord = errors.New("corrupt encrypted record")
)

// Wrapped is the persisted form of an encrypted payload.
type Wrapped struct {
	CiphertextHex string
	IVHex         string
}

// Rand is the CSPRNG used for IVs. Tests may replace it.
var Rand io.Reader = rand.Reader

// Wrap encrypts plaintext under password.
func Wrap(plaintext, password []byte) (Wrapped, error) {
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(Rand, iv); err != nil {
		return Wrapped{}, fmt.Errorf("generate iv: %w", err)
	}

	key, err := deriveKey(password, iv)
	if err != nil {
		return Wrapped{}, err
	}
	defer zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return Wrapped{}, fmt.Errorf("init cipher: %w", err)
	}

	padded := pad(plaintext, IVSize)
	defer zero(padded)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return Wrapped{
		CiphertextHex: hex.EncodeToString(out),
		IVHex:         hex.EncodeToString(iv),
	}, nil
}

// Unwrap reverses Wrap. Structural problems yield ErrCorruptRecord; any
// failure after key derivation yields ErrDecryption.
func Unwrap(ciphertextHex, ivHex string, password []byte) ([]byte, error) {
	if ciphertextHex == "" || ivHex == "" {
		return nil, fmt.Errorf("%w: missing ciphertext or iv", ErrCorruptRecord)
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != IVSize {
		return nil, fmt.Errorf("%w: iv must be %d hex-encoded bytes", ErrCorruptRecord, IVSize)
	}
	ct, err := hex.DecodeString(ciphertextHex)
	if err != nil || len(ct) == 0 || len(ct)%IVSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not a whole number of blocks", ErrCorruptRecord)
	}

	key, err := deriveKey(password, iv)
	if err != nil {
		return nil, err
	}
	defer zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ct)
	plain, ok := unpad(out, IVSize)
	if !ok {
		zero(out)
		return nil, ErrDecryption
	}
	return plain, nil
}

// UnwrapKey is Unwrap for fixed-size key material. A plaintext of any other
// length is treated as a wrong password, which makes an accidental padding
// match with a wrong key indistinguishable from any other failure.
func UnwrapKey(ciphertextHex, ivHex string, password []byte, size int) ([]byte, error) {
	plain, err := Unwrap(ciphertextHex, ivHex, password)
	if err != nil {
		return nil, err
	}
	if len(plain) != size {
		zero(plain)
		return nil, ErrDecryption
	}
	return plain, nil
}

// ValidateShape checks the hex fields without decrypting.
func ValidateShape(ciphertextHex, ivHex string) error {
	if ciphertextHex == "" || ivHex == "" {
		return fmt.Errorf("%w: missing ciphertext or iv", ErrCorruptRecord)
	}
	if iv, err := hex.DecodeString(ivHex); err != nil || len(iv) != IVSize {
		return fmt.Errorf("%w: malformed iv", ErrCorruptRecord)
	}
	if ct, err := hex.DecodeString(ciphertextHex); err != nil || len(ct) == 0 || len(ct)%IVSize != 0 {
		return fmt.Errorf("%w: malformed ciphertext", ErrCorruptRecord)
	}
	return nil
}

func deriveKey(password, salt []byte) ([]byte, error) {
	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, KeySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

func pad(b []byte, size int) []byte {
	n := size - len(b)%size
	out := make([]byte, len(b)+n)
	copy(out, b)
	copy(out[len(b):], bytes.Repeat([]byte{byte(n)}, n))
	return out
}

// unpad validates PKCS#7 padding in constant time relative to the pad bytes.
func unpad(b []byte, size int) ([]byte, bool) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, false
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size {
		return nil, false
	}
	var bad byte
	for _, c := range b[len(b)-n:] {
		bad |= c ^ byte(n)
	}
	if bad != 0 {
		return nil, false
	}
	return b[:len(b)-n], true
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
