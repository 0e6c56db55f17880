// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateName is returned when a wallet name is already taken.
	ErrDuplicateName = errors.New("wallet name already exists")
	// ErrDuplicateAddress is returned when a wallet for the same address exists.
	ErrDuplicateAddress = errors.New("a wallet with this address already exists")
	// ErrDuplicateLabel is returned when an address book label is already taken.
	ErrDuplicateLabel = errors.New("address book label already exists")
	// ErrNotFound is returned for unknown wallet names and address book labels.
	ErrNotFound = errors.New("not found")
	// ErrEmptyStore is returned when an operation needs at least one wallet.
	ErrEmptyStore = errors.New("no wallets found")
	// ErrNoWallet is returned when no current wallet is set.
	ErrNoWallet = errors.New("no current wallet selected")
	// ErrNoOtherWallet is returned by switch when there is nothing to switch to.
	ErrNoOtherWallet = errors.New("no other wallet to switch to")
	// ErrDeleteProtected is returned when deleting the current wallet.
	ErrDeleteProtected = errors.New("cannot delete the current wallet; switch to another wallet first")
	// ErrEntryEncrypted is returned when a plaintext operation hits an encrypted entry.
	ErrEntryEncrypted = errors.New("address book entry is encrypted")
	// ErrEntryNotEncrypted is returned when decrypting a plaintext entry.
	ErrEntryNotEncrypted = errors.New("address book entry is not encrypted")
	// ErrAborted is returned when the user declines a confirmation.
	ErrAborted = errors.New("operation cancelled")
)

// ValidationError lists every rule an input violated.
type ValidationError struct {
	Field   string
	Reasons []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, strings.Join(e.Reasons, "; "))
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field string, reasons ...string) *ValidationError {
	return &ValidationError{Field: field, Reasons: reasons}
}
