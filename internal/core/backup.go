// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/toeirei/keywallet/internal/i18n"
	"github.com/toeirei/keywallet/internal/logging"
	"github.com/toeirei/keywallet/internal/model"
	"github.com/toeirei/keywallet/internal/security"
	"github.com/toeirei/keywallet/internal/store"
)

// DefaultBackupName is used when a backup target is a directory.
func DefaultBackupName(t time.Time, compressed bool) string {
	name := "wallet-backup-" + t.Format("2006-01-02") + ".json"
	if compressed {
		name += store.CompressedSuffix
	}
	return name
}

// Backup copies the serialized store to path and returns the file written.
// A directory (existing, or spelled with a trailing separator) receives the
// default name. Missing parent directories are created. The live store is
// never modified.
func (m *WalletManager) Backup(path string) (string, error) {
	st, err := m.store.Load()
	if err != nil {
		return "", err
	}
	if st.Len() == 0 && len(st.AddressBook) == 0 {
		return "", model.ErrEmptyStore
	}
	data, err := store.Marshal(st)
	if err != nil {
		return "", err
	}

	target := m.backupTarget(path)
	if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
		return "", &store.PersistenceError{Op: "mkdir", Path: filepath.Dir(target), Err: err}
	}
	if err := store.WriteBackup(target, data); err != nil {
		return "", err
	}
	logging.Infof("backed up %d wallet(s) to %s", st.Len(), target)
	return target, nil
}

func (m *WalletManager) backupTarget(path string) string {
	if path == "" {
		path = "."
	}
	isDir := strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(os.PathSeparator))
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		isDir = true
	}
	if isDir {
		return filepath.Join(path, DefaultBackupName(m.clock.Now(), m.compress))
	}
	return path
}

// Restore replaces the live store with a backup after confirmation. The
// backup is fully validated first; a malformed file leaves the live store
// untouched. It returns the number of restored wallets.
func (m *WalletManager) Restore(path string, force bool) (int, error) {
	data, err := store.ReadBackup(path)
	if err != nil {
		return 0, err
	}
	restored, err := store.Unmarshal(data)
	if err != nil {
		return 0, err
	}
	if !force {
		yes, err := m.prompt.Confirm(i18n.T("confirm.restore", restored.Len(), path), false)
		if err != nil {
			return 0, err
		}
		if !yes {
			return 0, model.ErrAborted
		}
	}
	if err := m.store.Save(restored); err != nil {
		return 0, err
	}
	logging.Infof("restored %d wallet(s) from %s", restored.Len(), path)
	return restored.Len(), nil
}

// ExportKey returns the raw private key of name (or the current wallet)
// after an explicit confirmation. An unknown wallet is reported before
// anything is asked. The caller must Zero the result.
func (m *WalletManager) ExportKey(name string, password security.Secret, force bool) (security.Secret, error) {
	st, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	name, _, err = pick(st, name)
	if err != nil {
		return nil, err
	}
	if !force {
		yes, err := m.prompt.Confirm(i18n.T("confirm.export_key", name), false)
		if err != nil {
			return nil, err
		}
		if !yes {
			return nil, model.ErrAborted
		}
	}
	raw, err := m.Unlock(name, password)
	if err != nil {
		return nil, err
	}
	logging.Warnf("private key of wallet %q exported", name)
	return raw, nil
}
