// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"

	"github.com/toeirei/keywallet/internal/crypto/keywrap"
)

// MaxNameLength bounds wallet names and address book labels.
const MaxNameLength = 64

// NormalizeName trims name and checks it is usable as a map key. field is
// used in the error ("wallet name", "label").
func NormalizeName(field, name string) (string, error) {
	n := strings.TrimSpace(name)
	var reasons []string
	if n == "" {
		reasons = append(reasons, "must not be empty")
	}
	if utf8.RuneCountInString(n) > MaxNameLength {
		reasons = append(reasons, fmt.Sprintf("must be at most %d characters", MaxNameLength))
	}
	if strings.IndexFunc(n, unicode.IsControl) >= 0 {
		reasons = append(reasons, "must not contain control characters")
	}
	if len(reasons) > 0 {
		return "", NewValidationError(field, reasons...)
	}
	return n, nil
}

// IsAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsAddress(s string) bool {
	return len(s) == 42 && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) && common.IsHexAddress(s)
}

// NormalizeAddress validates s and returns its checksummed form.
func NormalizeAddress(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !IsAddress(s) {
		return "", NewValidationError("address", "must be 0x followed by 40 hex characters")
	}
	return common.HexToAddress(s).Hex(), nil
}

// Validate checks the structural invariants of a loaded store. Violations
// wrap keywrap.ErrCorruptRecord.
func (s *WalletStore) Validate() error {
	var errs []error
	seen := map[string]string{}
	for _, name := range s.Names() {
		r := s.Wallets[name]
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("wallet with empty name"))
		}
		if !IsAddress(r.Address) {
			errs = append(errs, fmt.Errorf("wallet %q: malformed address", name))
		} else if other, dup := seen[strings.ToLower(r.Address)]; dup {
			errs = append(errs, fmt.Errorf("wallets %q and %q share address %s", other, name, r.Address))
		} else {
			seen[strings.ToLower(r.Address)] = name
		}
		if err := keywrap.ValidateShape(r.EncryptedPrivateKey, r.IV); err != nil {
			errs = append(errs, fmt.Errorf("wallet %q: %v", name, err))
		}
	}
	// a pointer left behind in a store without wallets is stale, not corrupt
	if s.CurrentWallet != "" && len(s.Wallets) > 0 {
		if _, ok := s.Wallets[s.CurrentWallet]; !ok {
			errs = append(errs, fmt.Errorf("current wallet %q does not exist", s.CurrentWallet))
		}
	}
	for _, label := range s.Labels() {
		if err := s.AddressBook[label].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("address book entry %q: %v", label, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", keywrap.ErrCorruptRecord, errors.Join(errs...))
}

// Validate checks that the entry is in exactly one state.
func (e AddressEntry) Validate() error {
	if e.Encrypted {
		if e.Address != "" || e.Label != "" || e.Notes != "" {
			return fmt.Errorf("encrypted entry carries plaintext fields")
		}
		return keywrap.ValidateShape(e.EncryptedData, e.IV)
	}
	if e.EncryptedData != "" || e.IV != "" {
		return fmt.Errorf("plaintext entry carries ciphertext fields")
	}
	if !IsAddress(e.Address) {
		return fmt.Errorf("malformed address")
	}
	return nil
}
