// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

// Package addressbook manages labelled reference addresses stored next to the
// wallets. Entries are never used for signing. Each entry is either plaintext
// or sealed with its own password; never both.
package addressbook

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/toeirei/keywallet/internal/crypto/keywrap"
	"github.com/toeirei/keywallet/internal/i18n"
	"github.com/toeirei/keywallet/internal/logging"
	"github.com/toeirei/keywallet/internal/model"
	"github.com/toeirei/keywallet/internal/prompt"
	"github.com/toeirei/keywallet/internal/security"
)

// Store is the persistence boundary shared with the wallet lifecycle.
type Store interface {
	Load() (*model.WalletStore, error)
	Save(*model.WalletStore) error
}

// Book runs address book operations against a Store.
type Book struct {
	store  Store
	prompt prompt.Prompter
}

// New returns a Book.
func New(s Store, p prompt.Prompter) *Book {
	return &Book{store: s, prompt: p}
}

// Listing is one row of List or Search. Encrypted rows only carry the label.
type Listing struct {
	Label     string
	Address   string
	Notes     string
	Encrypted bool
}

// Update names the fields Edit should change. Nil fields are kept.
type Update struct {
	Label   *string
	Address *string
	Notes   *string
}

func lookup(st *model.WalletStore, label string) (model.AddressEntry, error) {
	e, ok := st.Entry(label)
	if !ok {
		return model.AddressEntry{}, fmt.Errorf("address book entry %q: %w", label, model.ErrNotFound)
	}
	return e, nil
}

// Add stores a plaintext entry.
func (b *Book) Add(label, address, notes string) (Listing, error) {
	label, err := model.NormalizeName("label", label)
	if err != nil {
		return Listing{}, err
	}
	address, err = model.NormalizeAddress(address)
	if err != nil {
		return Listing{}, err
	}
	st, err := b.store.Load()
	if err != nil {
		return Listing{}, err
	}
	next := st.Clone()
	entry := model.AddressEntry{Address: address, Notes: strings.TrimSpace(notes)}
	if err := next.AddEntry(label, entry); err != nil {
		return Listing{}, err
	}
	if err := b.store.Save(next); err != nil {
		return Listing{}, err
	}
	logging.Infof("added address book entry %q (%s)", label, address)
	return Listing{Label: label, Address: address, Notes: entry.Notes}, nil
}

// View returns an entry, decrypting it when needed. The stored entry stays
// as it is. An empty password is asked for.
func (b *Book) View(label string, password security.Secret) (Listing, error) {
	st, err := b.store.Load()
	if err != nil {
		return Listing{}, err
	}
	e, err := lookup(st, label)
	if err != nil {
		return Listing{}, err
	}
	if !e.Encrypted {
		return Listing{Label: label, Address: e.Address, Notes: e.Notes}, nil
	}
	plain, err := b.open(label, e, password)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Label: label, Address: plain.Address, Notes: plain.Notes, Encrypted: true}, nil
}

// Edit changes a plaintext entry. Encrypted entries must be decrypted first.
func (b *Book) Edit(label string, u Update) (Listing, error) {
	st, err := b.store.Load()
	if err != nil {
		return Listing{}, err
	}
	e, err := lookup(st, label)
	if err != nil {
		return Listing{}, err
	}
	if e.Encrypted {
		return Listing{}, fmt.Errorf("%q: %w", label, model.ErrEntryEncrypted)
	}

	newLabel := label
	if u.Label != nil {
		if newLabel, err = model.NormalizeName("label", *u.Label); err != nil {
			return Listing{}, err
		}
	}
	if u.Address != nil {
		if e.Address, err = model.NormalizeAddress(*u.Address); err != nil {
			return Listing{}, err
		}
	}
	if u.Notes != nil {
		e.Notes = strings.TrimSpace(*u.Notes)
	}

	next := st.Clone()
	if err := next.ReplaceEntry(label, e); err != nil {
		return Listing{}, err
	}
	if newLabel != label {
		if err := next.RenameEntry(label, newLabel); err != nil {
			return Listing{}, err
		}
	}
	if err := b.store.Save(next); err != nil {
		return Listing{}, err
	}
	logging.Infof("updated address book entry %q", newLabel)
	return Listing{Label: newLabel, Address: e.Address, Notes: e.Notes}, nil
}

// Delete removes an entry after confirmation, or immediately with force.
func (b *Book) Delete(label string, force bool) error {
	st, err := b.store.Load()
	if err != nil {
		return err
	}
	if _, err := lookup(st, label); err != nil {
		return err
	}
	if !force {
		yes, err := b.prompt.Confirm(i18n.T("confirm.delete_entry", label), false)
		if err != nil {
			return err
		}
		if !yes {
			return model.ErrAborted
		}
	}
	next := st.Clone()
	if err := next.RemoveEntry(label); err != nil {
		return err
	}
	if err := b.store.Save(next); err != nil {
		return err
	}
	logging.Infof("deleted address book entry %q", label)
	return nil
}

// List returns all entries sorted by label.
func (b *Book) List() ([]Listing, error) {
	st, err := b.store.Load()
	if err != nil {
		return nil, err
	}
	out := make([]Listing, 0, len(st.AddressBook))
	for _, l := range st.Labels() {
		out = append(out, listing(l, st.AddressBook[l]))
	}
	return out, nil
}

// Search matches query case-insensitively against labels and addresses.
// Encrypted entries can only match on their label.
func (b *Book) Search(query string) ([]Listing, error) {
	all, err := b.List()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Listing
	for _, l := range all {
		if strings.Contains(strings.ToLower(l.Label), q) || strings.Contains(strings.ToLower(l.Address), q) {
			out = append(out, l)
		}
	}
	return out, nil
}

func listing(label string, e model.AddressEntry) Listing {
	if e.Encrypted {
		return Listing{Label: label, Encrypted: true}
	}
	return Listing{Label: label, Address: e.Address, Notes: e.Notes}
}

// Encrypt seals a plaintext entry under its own password. An empty password
// is asked for twice.
func (b *Book) Encrypt(label string, password security.Secret) error {
	st, err := b.store.Load()
	if err != nil {
		return err
	}
	e, err := lookup(st, label)
	if err != nil {
		return err
	}
	if e.Encrypted {
		return fmt.Errorf("%q: %w", label, model.ErrEntryEncrypted)
	}
	if password.IsEmpty() {
		if password, err = b.prompt.NewPassword(i18n.T("prompt.entry_password", label)); err != nil {
			return err
		}
		defer password.Zero()
	}
	if password.IsEmpty() {
		return model.NewValidationError("password", "must not be empty")
	}

	payload, err := json.Marshal(model.PlainEntry{Address: e.Address, Label: label, Notes: e.Notes})
	if err != nil {
		return err
	}
	sealed, err := keywrap.Wrap(payload, password)
	security.Wipe(payload)
	if err != nil {
		return err
	}

	next := st.Clone()
	if err := next.ReplaceEntry(label, model.EncryptedEntry(sealed.CiphertextHex, sealed.IVHex)); err != nil {
		return err
	}
	if err := b.store.Save(next); err != nil {
		return err
	}
	logging.Infof("encrypted address book entry %q", label)
	return nil
}

// Decrypt opens an encrypted entry. When keep is nil the user is asked
// whether to store it decrypted (default no); otherwise *keep decides.
func (b *Book) Decrypt(label string, password security.Secret, keep *bool) (Listing, error) {
	st, err := b.store.Load()
	if err != nil {
		return Listing{}, err
	}
	e, err := lookup(st, label)
	if err != nil {
		return Listing{}, err
	}
	if !e.Encrypted {
		return Listing{}, fmt.Errorf("%q: %w", label, model.ErrEntryNotEncrypted)
	}
	plain, err := b.open(label, e, password)
	if err != nil {
		return Listing{}, err
	}
	out := Listing{Label: label, Address: plain.Address, Notes: plain.Notes, Encrypted: true}

	persist := false
	if keep != nil {
		persist = *keep
	} else if persist, err = b.prompt.Confirm(i18n.T("confirm.keep_decrypted", label), false); err != nil {
		return Listing{}, err
	}
	if !persist {
		return out, nil
	}

	next := st.Clone()
	if err := next.ReplaceEntry(label, model.AddressEntry{Address: plain.Address, Notes: plain.Notes}); err != nil {
		return Listing{}, err
	}
	if err := b.store.Save(next); err != nil {
		return Listing{}, err
	}
	logging.Infof("stored address book entry %q decrypted", label)
	out.Encrypted = false
	return out, nil
}

func (b *Book) open(label string, e model.AddressEntry, password security.Secret) (model.PlainEntry, error) {
	var err error
	if password.IsEmpty() {
		if password, err = b.prompt.Password(i18n.T("prompt.entry_password", label)); err != nil {
			return model.PlainEntry{}, err
		}
		defer password.Zero()
	}
	data, err := keywrap.Unwrap(e.EncryptedData, e.IV, password)
	if err != nil {
		return model.PlainEntry{}, err
	}
	defer security.Wipe(data)
	var plain model.PlainEntry
	if err := json.Unmarshal(data, &plain); err != nil || !model.IsAddress(plain.Address) {
		return model.PlainEntry{}, keywrap.ErrDecryption
	}
	return plain, nil
}
