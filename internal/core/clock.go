// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"crypto/ecdsa"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Tests use it for backup names.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

type secp256k1Generator struct{}

func (secp256k1Generator) GenerateKey() (*ecdsa.PrivateKey, error) { return crypto.GenerateKey() }
