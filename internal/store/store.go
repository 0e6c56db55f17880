// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

// Package store is the only place that touches the wallet file. Load returns
// an empty store when the file does not exist; Save writes the complete
// document to a temporary file next to the target and renames it into place,
// so readers only ever see the old or the new content.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/toeirei/keywallet/internal/crypto/keywrap"
	"github.com/toeirei/keywallet/internal/logging"
	"github.com/toeirei/keywallet/internal/model"
)

// ErrPersistence matches every *PersistenceError.
var ErrPersistence = errors.New("persistence failure")

// PersistenceError wraps a failed disk operation.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrPersistence) true.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// FilePerm is used for the wallet file and backups.
const FilePerm fs.FileMode = 0o600

// Gateway loads and saves a WalletStore at a fixed path.
type Gateway struct {
	path string
	// rename makes the temp file visible; replaced in tests to simulate a
	// crash before the switch.
	rename func(oldpath, newpath string) error
}

// New returns a Gateway for path.
func New(path string) *Gateway {
	return &Gateway{path: path, rename: os.Rename}
}

// Path returns the backing file path.
func (g *Gateway) Path() string { return g.path }

// Exists reports whether the backing file is present.
func (g *Gateway) Exists() bool {
	_, err := os.Stat(g.path)
	return err == nil
}

// Load reads and validates the store.
func (g *Gateway) Load() (*model.WalletStore, error) {
	data, err := os.ReadFile(g.path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Debugf("wallet file %s not found, starting empty", g.path)
		return model.NewWalletStore(), nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "read", Path: g.path, Err: err}
	}
	return Unmarshal(data)
}

// Save serializes st and atomically replaces the backing file.
func (g *Gateway) Save(st *model.WalletStore) error {
	data, err := Marshal(st)
	if err != nil {
		return &PersistenceError{Op: "encode", Path: g.path, Err: err}
	}
	if err := writeFileAtomic(g.path, data, g.rename); err != nil {
		return err
	}
	logging.Debugf("saved wallet file %s (%d wallets)", g.path, st.Len())
	return nil
}

// Marshal produces the canonical file content. encoding/json sorts map keys,
// so equal stores always serialize to identical bytes.
func Marshal(st *model.WalletStore) ([]byte, error) {
	if st == nil {
		return nil, errors.New("nil wallet store")
	}
	out := st
	if st.Wallets == nil {
		out = st.Clone()
		out.Wallets = map[string]model.WalletRecord{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Unmarshal parses and validates file content.
func Unmarshal(data []byte) (*model.WalletStore, error) {
	st := model.NewWalletStore()
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("%w: %v", keywrap.ErrCorruptRecord, err)
	}
	if st.Wallets == nil {
		st.Wallets = map[string]model.WalletRecord{}
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if len(st.Wallets) == 0 {
		st.CurrentWallet = ""
	}
	return st, nil
}

// WriteFileAtomic writes data to path through a temp file and rename.
func WriteFileAtomic(path string, data []byte) error {
	return writeFileAtomic(path, data, os.Rename)
}

func writeFileAtomic(path string, data []byte, rename func(string, string) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return &PersistenceError{Op: "mkdir", Path: dir, Err: err}
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &PersistenceError{Op: "create temp", Path: path, Err: err}
	}
	tmp := f.Name()
	fail := func(op string, err error) error {
		_ = f.Close()
		_ = os.Remove(tmp)
		return &PersistenceError{Op: op, Path: path, Err: err}
	}

	if _, err := f.Write(data); err != nil {
		return fail("write", err)
	}
	if err := f.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := f.Chmod(FilePerm); err != nil {
		return fail("chmod", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return &PersistenceError{Op: "close", Path: path, Err: err}
	}
	if err := rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &PersistenceError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
