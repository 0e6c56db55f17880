// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"fmt"
	"sort"
	"strings"
)

// WalletRecord is one named key pair. Only the address is public; the private
// key is kept as hex ciphertext with its IV.
type WalletRecord struct {
	Address             string `json:"address"`
	EncryptedPrivateKey string `json:"encryptedPrivateKey"`
	IV                  string `json:"iv"`
}

// WalletStore is the root of the persisted wallet file.
type WalletStore struct {
	CurrentWallet string                  `json:"currentWallet,omitempty"`
	Wallets       map[string]WalletRecord `json:"wallets"`
	AddressBook   map[string]AddressEntry `json:"addressBook,omitempty"`
}

// NewWalletStore returns an empty store.
func NewWalletStore() *WalletStore {
	return &WalletStore{Wallets: map[string]WalletRecord{}}
}

// Clone returns a deep copy so callers can mutate without touching the
// original until a save succeeds.
func (s *WalletStore) Clone() *WalletStore {
	c := &WalletStore{
		CurrentWallet: s.CurrentWallet,
		Wallets:       make(map[string]WalletRecord, len(s.Wallets)),
	}
	for k, v := range s.Wallets {
		c.Wallets[k] = v
	}
	if s.AddressBook != nil {
		c.AddressBook = make(map[string]AddressEntry, len(s.AddressBook))
		for k, v := range s.AddressBook {
			c.AddressBook[k] = v
		}
	}
	return c
}

// Len returns the number of wallets.
func (s *WalletStore) Len() int { return len(s.Wallets) }

// Names returns wallet names in sorted order.
func (s *WalletStore) Names() []string {
	names := make([]string, 0, len(s.Wallets))
	for n := range s.Wallets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Wallet returns the record stored under name.
func (s *WalletStore) Wallet(name string) (WalletRecord, bool) {
	r, ok := s.Wallets[name]
	return r, ok
}

// Current returns the current wallet, if one is set.
func (s *WalletStore) Current() (string, WalletRecord, bool) {
	if s.CurrentWallet == "" {
		return "", WalletRecord{}, false
	}
	r, ok := s.Wallets[s.CurrentWallet]
	return s.CurrentWallet, r, ok
}

// NameForAddress finds the wallet holding address (case-insensitive).
func (s *WalletStore) NameForAddress(address string) (string, bool) {
	for name, r := range s.Wallets {
		if strings.EqualFold(r.Address, address) {
			return name, true
		}
	}
	return "", false
}

// AddWallet inserts a record. Names and addresses must both be unused.
func (s *WalletStore) AddWallet(name string, rec WalletRecord) error {
	if s.Wallets == nil {
		s.Wallets = map[string]WalletRecord{}
	}
	if _, ok := s.Wallets[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if other, ok := s.NameForAddress(rec.Address); ok {
		return fmt.Errorf("%w: %s is stored as %q", ErrDuplicateAddress, rec.Address, other)
	}
	s.Wallets[name] = rec
	return nil
}

// RemoveWallet deletes a record. Removing the current wallet clears the
// pointer so it never dangles.
func (s *WalletStore) RemoveWallet(name string) error {
	if _, ok := s.Wallets[name]; !ok {
		return fmt.Errorf("wallet %q: %w", name, ErrNotFound)
	}
	delete(s.Wallets, name)
	if s.CurrentWallet == name {
		s.CurrentWallet = ""
	}
	return nil
}

// RenameWallet moves a record to a new key, carrying the current pointer.
func (s *WalletStore) RenameWallet(oldName, newName string) error {
	rec, ok := s.Wallets[oldName]
	if !ok {
		return fmt.Errorf("wallet %q: %w", oldName, ErrNotFound)
	}
	if oldName == newName {
		return nil
	}
	if _, ok := s.Wallets[newName]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, newName)
	}
	delete(s.Wallets, oldName)
	s.Wallets[newName] = rec
	if s.CurrentWallet == oldName {
		s.CurrentWallet = newName
	}
	return nil
}

// SetCurrent points the current wallet at name.
func (s *WalletStore) SetCurrent(name string) error {
	if _, ok := s.Wallets[name]; !ok {
		return fmt.Errorf("wallet %q: %w", name, ErrNotFound)
	}
	s.CurrentWallet = name
	return nil
}
