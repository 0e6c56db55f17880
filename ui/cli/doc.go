// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Keywallet using Cobra.
// It loads configuration, builds the wallet and address book services for one
// invocation and maps their errors to localized messages. CLI code should
// remain thin and delegate the wallet rules to `internal/core` and
// `internal/addressbook`.
package cli
