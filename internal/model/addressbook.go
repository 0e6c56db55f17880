// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"fmt"
	"sort"
)

// AddressEntry is an address book item. Plaintext entries carry Address,
// Label and Notes; encrypted entries carry only EncryptedData and IV.
type AddressEntry struct {
	Address       string `json:"address,omitempty"`
	Label         string `json:"label,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Encrypted     bool   `json:"encrypted,omitempty"`
	EncryptedData string `json:"encryptedData,omitempty"`
	IV            string `json:"iv,omitempty"`
}

// PlainEntry is the payload sealed inside an encrypted entry.
type PlainEntry struct {
	Address string `json:"address"`
	Label   string `json:"label,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Plain returns the plaintext fields of an unencrypted entry.
func (e AddressEntry) Plain() PlainEntry {
	return PlainEntry{Address: e.Address, Label: e.Label, Notes: e.Notes}
}

// EntryFromPlain builds a plaintext entry.
func EntryFromPlain(p PlainEntry) AddressEntry {
	return AddressEntry{Address: p.Address, Label: p.Label, Notes: p.Notes}
}

// EncryptedEntry builds an encrypted entry with no plaintext fields.
func EncryptedEntry(dataHex, ivHex string) AddressEntry {
	return AddressEntry{Encrypted: true, EncryptedData: dataHex, IV: ivHex}
}

// Labels returns address book labels in sorted order.
func (s *WalletStore) Labels() []string {
	labels := make([]string, 0, len(s.AddressBook))
	for l := range s.AddressBook {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Entry returns the address book entry for label.
func (s *WalletStore) Entry(label string) (AddressEntry, bool) {
	e, ok := s.AddressBook[label]
	return e, ok
}

// AddEntry inserts a new address book entry.
func (s *WalletStore) AddEntry(label string, e AddressEntry) error {
	if _, ok := s.AddressBook[label]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
	}
	if s.AddressBook == nil {
		s.AddressBook = map[string]AddressEntry{}
	}
	s.AddressBook[label] = e
	return nil
}

// ReplaceEntry overwrites an existing entry.
func (s *WalletStore) ReplaceEntry(label string, e AddressEntry) error {
	if _, ok := s.AddressBook[label]; !ok {
		return fmt.Errorf("address book entry %q: %w", label, ErrNotFound)
	}
	s.AddressBook[label] = e
	return nil
}

// RenameEntry moves an entry to a new label.
func (s *WalletStore) RenameEntry(oldLabel, newLabel string) error {
	e, ok := s.AddressBook[oldLabel]
	if !ok {
		return fmt.Errorf("address book entry %q: %w", oldLabel, ErrNotFound)
	}
	if oldLabel == newLabel {
		return nil
	}
	if _, ok := s.AddressBook[newLabel]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, newLabel)
	}
	delete(s.AddressBook, oldLabel)
	s.AddressBook[newLabel] = e
	return nil
}

// RemoveEntry deletes an entry. An emptied book is dropped from the file.
func (s *WalletStore) RemoveEntry(label string) error {
	if _, ok := s.AddressBook[label]; !ok {
		return fmt.Errorf("address book entry %q: %w", label, ErrNotFound)
	}
	delete(s.AddressBook, label)
	if len(s.AddressBook) == 0 {
		s.AddressBook = nil
	}
	return nil
}
