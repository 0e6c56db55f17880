// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/toeirei/keywallet/internal/crypto/keywrap"
	"github.com/toeirei/keywallet/internal/i18n"
	"github.com/toeirei/keywallet/internal/logging"
	"github.com/toeirei/keywallet/internal/model"
	"github.com/toeirei/keywallet/internal/policy"
	"github.com/toeirei/keywallet/internal/prompt"
	"github.com/toeirei/keywallet/internal/security"
)

// WalletManager runs every wallet lifecycle operation. Each call loads the
// store, mutates a copy and saves exactly once; a failed save leaves both the
// file and the caller's view unchanged.
type WalletManager struct {
	store    Gateway
	prompt   prompt.Prompter
	policy   PasswordPolicy
	keys     KeyGenerator
	clock    Clock
	compress bool
}

// ManagerOption configures a WalletManager.
type ManagerOption func(*WalletManager)

// WithPolicy replaces the default password policy.
func WithPolicy(p PasswordPolicy) ManagerOption {
	return func(m *WalletManager) { m.policy = p }
}

// WithKeyGenerator replaces the secp256k1 generator.
func WithKeyGenerator(k KeyGenerator) ManagerOption {
	return func(m *WalletManager) { m.keys = k }
}

// WithClock replaces the wall clock.
func WithClock(c Clock) ManagerOption {
	return func(m *WalletManager) { m.clock = c }
}

// WithCompressedBackups makes default backup names end in .zst.
func WithCompressedBackups(on bool) ManagerOption {
	return func(m *WalletManager) { m.compress = on }
}

// NewWalletManager wires a manager around a store and a prompter.
func NewWalletManager(gw Gateway, p prompt.Prompter, opts ...ManagerOption) *WalletManager {
	m := &WalletManager{
		store:  gw,
		prompt: p,
		policy: policy.New(),
		keys:   secp256k1Generator{},
		clock:  systemClock{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// WalletInfo describes one stored wallet without any secret material.
type WalletInfo struct {
	Name      string
	Address   string
	IsCurrent bool
}

// CreateRequest carries the optional answers for Create and Import. Empty
// fields are asked for through the prompter.
type CreateRequest struct {
	Name     string
	Password security.Secret
	// SwitchTo decides whether a new wallet replaces an existing current
	// one. Nil asks, defaulting to no.
	SwitchTo *bool
}

// Create generates a new key pair and stores it under req.Name.
func (m *WalletManager) Create(req CreateRequest) (WalletInfo, error) {
	st, err := m.store.Load()
	if err != nil {
		return WalletInfo{}, err
	}
	name, err := m.resolveNewName(st, req.Name)
	if err != nil {
		return WalletInfo{}, err
	}
	key, err := m.keys.GenerateKey()
	if err != nil {
		return WalletInfo{}, fmt.Errorf("generate key: %w", err)
	}
	return m.addKey(st, name, key, req)
}

// Import stores an existing raw private key (64 hex characters, optional 0x).
// An empty rawKey is asked for as a hidden input.
func (m *WalletManager) Import(rawKey security.Secret, req CreateRequest) (WalletInfo, error) {
	st, err := m.store.Load()
	if err != nil {
		return WalletInfo{}, err
	}
	if rawKey.IsEmpty() {
		if rawKey, err = m.prompt.Password(i18n.T("prompt.private_key")); err != nil {
			return WalletInfo{}, err
		}
		defer rawKey.Zero()
	}
	key, err := ParsePrivateKey(rawKey)
	if err != nil {
		return WalletInfo{}, err
	}
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	if other, ok := st.NameForAddress(address); ok {
		return WalletInfo{}, fmt.Errorf("%w: %s is stored as %q", model.ErrDuplicateAddress, address, other)
	}
	name, err := m.resolveNewName(st, req.Name)
	if err != nil {
		return WalletInfo{}, err
	}
	return m.addKey(st, name, key, req)
}

// ParsePrivateKey decodes a hex secp256k1 scalar.
func ParsePrivateKey(raw security.Secret) (*ecdsa.PrivateKey, error) {
	s := strings.TrimSpace(string(raw))
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 2*keywrap.KeySize {
		return nil, model.NewValidationError("private key", fmt.Sprintf("must be %d hex characters", 2*keywrap.KeySize))
	}
	key, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, model.NewValidationError("private key", "not a valid secp256k1 private key")
	}
	return key, nil
}

func (m *WalletManager) resolveNewName(st *model.WalletStore, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		in, err := m.prompt.Input(i18n.T("prompt.wallet_name"))
		if err != nil {
			return "", err
		}
		name = in
	}
	name, err := model.NormalizeName("wallet name", name)
	if err != nil {
		return "", err
	}
	if _, ok := st.Wallet(name); ok {
		return "", fmt.Errorf("%w: %q", model.ErrDuplicateName, name)
	}
	return name, nil
}

// newPassword obtains a password for wallet name and runs it through the
// policy. The name counts as guessable.
func (m *WalletManager) newPassword(given security.Secret, name string) (security.Secret, error) {
	pw := given
	if pw.IsEmpty() {
		var err error
		if pw, err = m.prompt.NewPassword(i18n.T("prompt.new_password")); err != nil {
			return nil, err
		}
	}
	if res := m.policy.Evaluate(string(pw), name); !res.IsValid {
		return nil, &model.ValidationError{Field: "password", Reasons: res.Reasons}
	}
	return pw, nil
}

func (m *WalletManager) addKey(st *model.WalletStore, name string, key *ecdsa.PrivateKey, req CreateRequest) (WalletInfo, error) {
	pw, err := m.newPassword(req.Password, name)
	if err != nil {
		return WalletInfo{}, err
	}
	if req.Password.IsEmpty() {
		defer pw.Zero()
	}
	raw := crypto.FromECDSA(key)
	wrapped, err := keywrap.Wrap(raw, pw)
	security.Wipe(raw)
	if err != nil {
		return WalletInfo{}, err
	}

	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	next := st.Clone()
	if err := next.AddWallet(name, model.WalletRecord{
		Address:             address,
		EncryptedPrivateKey: wrapped.CiphertextHex,
		IV:                  wrapped.IVHex,
	}); err != nil {
		return WalletInfo{}, err
	}

	if cur, _, ok := next.Current(); !ok {
		_ = next.SetCurrent(name)
	} else {
		switchTo := false
		if req.SwitchTo != nil {
			switchTo = *req.SwitchTo
		} else if switchTo, err = m.prompt.Confirm(i18n.T("confirm.switch_wallet", cur, name), false); err != nil {
			return WalletInfo{}, err
		}
		if switchTo {
			_ = next.SetCurrent(name)
		}
	}

	if err := m.store.Save(next); err != nil {
		return WalletInfo{}, err
	}
	logging.Infof("stored wallet %q (%s)", name, address)
	return WalletInfo{Name: name, Address: address, IsCurrent: next.CurrentWallet == name}, nil
}

// List returns every wallet sorted by name.
func (m *WalletManager) List() ([]WalletInfo, error) {
	st, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	if st.Len() == 0 {
		return nil, model.ErrEmptyStore
	}
	out := make([]WalletInfo, 0, st.Len())
	for _, n := range st.Names() {
		out = append(out, WalletInfo{Name: n, Address: st.Wallets[n].Address, IsCurrent: n == st.CurrentWallet})
	}
	return out, nil
}

// ListWalletNames returns the sorted wallet names.
func (m *WalletManager) ListWalletNames() ([]string, error) {
	st, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	if st.Len() == 0 {
		return nil, model.ErrEmptyStore
	}
	return st.Names(), nil
}

// GetCurrentAddress returns the address of the current wallet.
func (m *WalletManager) GetCurrentAddress() (string, error) {
	info, err := m.Current()
	if err != nil {
		return "", err
	}
	return info.Address, nil
}

// Current returns the current wallet.
func (m *WalletManager) Current() (WalletInfo, error) {
	st, err := m.store.Load()
	if err != nil {
		return WalletInfo{}, err
	}
	name, rec, ok := st.Current()
	if !ok {
		return WalletInfo{}, model.ErrNoWallet
	}
	return WalletInfo{Name: name, Address: rec.Address, IsCurrent: true}, nil
}

// AddressOf returns the address stored under name, or the current address
// when name is empty.
func (m *WalletManager) AddressOf(name string) (string, error) {
	st, err := m.store.Load()
	if err != nil {
		return "", err
	}
	_, rec, err := pick(st, name)
	if err != nil {
		return "", err
	}
	return rec.Address, nil
}

// pick resolves name, falling back to the current wallet.
func pick(st *model.WalletStore, name string) (string, model.WalletRecord, error) {
	if name == "" {
		n, rec, ok := st.Current()
		if !ok {
			return "", model.WalletRecord{}, model.ErrNoWallet
		}
		return n, rec, nil
	}
	rec, ok := st.Wallet(name)
	if !ok {
		return "", model.WalletRecord{}, fmt.Errorf("wallet %q: %w", name, model.ErrNotFound)
	}
	return name, rec, nil
}

// Switch makes name the current wallet. It fails when there is no other
// wallet to switch to; selecting the wallet that is already current is a
// no-op.
func (m *WalletManager) Switch(name string) error {
	st, err := m.store.Load()
	if err != nil {
		return err
	}
	if st.Len() == 0 {
		return model.ErrEmptyStore
	}
	others := 0
	for _, n := range st.Names() {
		if n != st.CurrentWallet {
			others++
		}
	}
	if others == 0 {
		return model.ErrNoOtherWallet
	}
	if name == "" {
		if name, err = m.prompt.Input(i18n.T("prompt.switch_to")); err != nil {
			return err
		}
		name = strings.TrimSpace(name)
	}
	if _, ok := st.Wallet(name); !ok {
		return fmt.Errorf("wallet %q: %w", name, model.ErrNotFound)
	}
	if name == st.CurrentWallet {
		return nil
	}
	next := st.Clone()
	_ = next.SetCurrent(name)
	if err := m.store.Save(next); err != nil {
		return err
	}
	logging.Infof("switched current wallet to %q", name)
	return nil
}

// Rename moves a wallet to a new name. The current pointer follows.
func (m *WalletManager) Rename(oldName, newName string) error {
	st, err := m.store.Load()
	if err != nil {
		return err
	}
	if _, ok := st.Wallet(oldName); !ok {
		return fmt.Errorf("wallet %q: %w", oldName, model.ErrNotFound)
	}
	if strings.TrimSpace(newName) == "" {
		if newName, err = m.prompt.Input(i18n.T("prompt.new_name", oldName)); err != nil {
			return err
		}
	}
	newName, err = model.NormalizeName("wallet name", newName)
	if err != nil {
		return err
	}
	if newName == oldName {
		return nil
	}
	next := st.Clone()
	if err := next.RenameWallet(oldName, newName); err != nil {
		return err
	}
	if err := m.store.Save(next); err != nil {
		return err
	}
	logging.Infof("renamed wallet %q to %q", oldName, newName)
	return nil
}

// Delete removes a non-current wallet after confirmation. With force the
// confirmation is skipped.
func (m *WalletManager) Delete(name string, force bool) error {
	st, err := m.store.Load()
	if err != nil {
		return err
	}
	rec, ok := st.Wallet(name)
	if !ok {
		return fmt.Errorf("wallet %q: %w", name, model.ErrNotFound)
	}
	if name == st.CurrentWallet {
		return model.ErrDeleteProtected
	}
	if !force {
		yes, err := m.prompt.Confirm(i18n.T("confirm.delete_wallet", name, rec.Address), false)
		if err != nil {
			return err
		}
		if !yes {
			return model.ErrAborted
		}
	}
	next := st.Clone()
	if err := next.RemoveWallet(name); err != nil {
		return err
	}
	if err := m.store.Save(next); err != nil {
		return err
	}
	logging.Infof("deleted wallet %q (%s)", name, rec.Address)
	return nil
}

// Unlock decrypts the private key of name (or the current wallet) for one
// signing operation. The caller must Zero the result when done. An empty
// password is asked for.
func (m *WalletManager) Unlock(name string, password security.Secret) (security.Secret, error) {
	st, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	name, rec, err := pick(st, name)
	if err != nil {
		return nil, err
	}
	if password.IsEmpty() {
		if password, err = m.prompt.Password(i18n.T("prompt.password_for", name)); err != nil {
			return nil, err
		}
		defer password.Zero()
	}
	raw, err := keywrap.UnwrapKey(rec.EncryptedPrivateKey, rec.IV, password, keywrap.KeySize)
	if err != nil {
		return nil, err
	}
	key, err := crypto.ToECDSA(raw)
	if err != nil || !strings.EqualFold(crypto.PubkeyToAddress(key.PublicKey).Hex(), rec.Address) {
		security.Wipe(raw)
		logging.Debugf("unlock %q: key does not derive the stored address", name)
		return nil, keywrap.ErrDecryption
	}
	return security.Secret(raw), nil
}

// SigningKey unlocks name and returns it as an ECDSA key.
func (m *WalletManager) SigningKey(name string, password security.Secret) (*ecdsa.PrivateKey, error) {
	raw, err := m.Unlock(name, password)
	if err != nil {
		return nil, err
	}
	defer raw.Zero()
	return crypto.ToECDSA(raw)
}

// IsRetryable reports whether err is a password problem that asking again
// can fix.
func IsRetryable(err error) bool {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return ve.Field == "password"
	}
	return errors.Is(err, keywrap.ErrDecryption) || errors.Is(err, prompt.ErrPasswordMismatch)
}
