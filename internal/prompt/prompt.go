// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

// Package prompt supplies passwords, names and confirmations to the wallet
// services. The services only see the Prompter interface, so they run the
// same way behind a terminal, a pipe or a test script.
package prompt

import (
	"errors"

	"github.com/toeirei/keywallet/internal/security"
)

var (
	// ErrNoAnswer is returned when input is exhausted.
	ErrNoAnswer = errors.New("no answer available")
	// ErrPasswordMismatch is returned when a new password and its
	// confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// Prompter acquires interactive input.
type Prompter interface {
	// Password asks for an existing password.
	Password(label string) (security.Secret, error)
	// NewPassword asks for a password that is about to protect something and
	// may ask for it twice.
	NewPassword(label string) (security.Secret, error)
	// Input asks for a line of free text.
	Input(label string) (string, error)
	// Confirm asks a yes/no question; an empty answer selects defaultYes.
	Confirm(question string, defaultYes bool) (bool, error)
}
