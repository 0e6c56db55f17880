// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

// Package core holds the wallet lifecycle. The interfaces here are the side
// effect boundaries the manager depends on; store.Gateway, policy.Evaluator
// and prompt.Prompter are the production implementations.
package core

import (
	"crypto/ecdsa"
	"time"

	"github.com/toeirei/keywallet/internal/model"
	"github.com/toeirei/keywallet/internal/policy"
	"github.com/toeirei/keywallet/internal/security"
)

// Gateway loads and saves the whole wallet document.
type Gateway interface {
	Load() (*model.WalletStore, error)
	Save(*model.WalletStore) error
}

// PasswordPolicy decides whether a new password is acceptable.
type PasswordPolicy interface {
	Evaluate(password string, userInputs ...string) policy.Result
}

// KeyGenerator produces fresh secp256k1 keys.
type KeyGenerator interface {
	GenerateKey() (*ecdsa.PrivateKey, error)
}

// Clock provides an abstraction over time.Now for testability.
type Clock interface {
	Now() time.Time
}

// Keystore is what other commands (balance, transfer, contract calls) may use.
// They never see ciphertext and never write the wallet file themselves.
type Keystore interface {
	ListWalletNames() ([]string, error)
	GetCurrentAddress() (string, error)
	AddressOf(name string) (string, error)
	Unlock(name string, password security.Secret) (security.Secret, error)
	SigningKey(name string, password security.Secret) (*ecdsa.PrivateKey, error)
}

var _ Keystore = (*WalletManager)(nil)
