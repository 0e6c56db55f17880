// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/toeirei/keywallet/internal/core"
	"github.com/toeirei/keywallet/internal/crypto/keywrap"
	"github.com/toeirei/keywallet/internal/model"
	"github.com/toeirei/keywallet/internal/prompt"
	"github.com/toeirei/keywallet/internal/tui"
)

const (
	bobKey     = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	bobAddress = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
)

func writeKeyFile(t *testing.T, key string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "key.hex")
	if err := os.WriteFile(path, []byte("0x"+key+"\n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	return path
}

// seedWallets creates alice (current) and imports bob.
func seedWallets(t *testing.T, script *prompt.Scripted, store string) {
	t.Helper()
	*script = prompt.Scripted{Passwords: []string{strongPassword}}
	if _, _, err := executeCommand(t, nil, "--store", store, "wallet", "create", "alice"); err != nil {
		t.Fatalf("create alice: %v", err)
	}
	*script = prompt.Scripted{Passwords: []string{strongPassword}}
	if _, _, err := executeCommand(t, nil, "--store", store, "wallet", "import", "bob", "--key-file", writeKeyFile(t, bobKey), "--switch=false"); err != nil {
		t.Fatalf("import bob: %v", err)
	}
}

func TestWalletLifecycle(t *testing.T) {
	script := &prompt.Scripted{}
	setupCLI(t, script)
	store := filepath.Join(t.TempDir(), "wallets.json")

	*script = prompt.Scripted{Passwords: []string{strongPassword}}
	out, _, err := executeCommand(t, nil, "--store", store, "wallet", "create", "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.Contains(out, "Stored wallet alice") || !strings.Contains(out, "Current wallet: alice") {
		t.Fatalf("unexpected create output %q", out)
	}

	// no --switch: the question is asked and defaults to no
	*script = prompt.Scripted{Passwords: []string{strongPassword}}
	out, _, err = executeCommand(t, nil, "--store", store, "wallet", "import", "bob", "--key-file", writeKeyFile(t, bobKey))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, bobAddress) || strings.Contains(out, "Current wallet: bob") {
		t.Fatalf("unexpected import output %q", out)
	}
	if len(script.Asked) != 2 || !strings.Contains(script.Asked[1], "Switch current wallet from alice to bob") {
		t.Fatalf("expected switch question, asked %v", script.Asked)
	}

	out, _, err = executeCommand(t, nil, "--store", store, "wallet", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"alice", "bob", bobAddress, tui.CurrentMarker} {
		if !strings.Contains(out, want) {
			t.Fatalf("list output missing %q: %q", want, out)
		}
	}

	_, _, err = executeCommand(t, nil, "--store", store, "wallet", "delete", "alice", "-f")
	if !errors.Is(err, model.ErrDeleteProtected) {
		t.Fatalf("expected ErrDeleteProtected, got %v", err)
	}

	out, _, err = executeCommand(t, nil, "--store", store, "wallet", "switch", "bob")
	if err != nil || !strings.Contains(out, "Current wallet: bob") {
		t.Fatalf("switch: %q %v", out, err)
	}

	*script = prompt.Scripted{Confirms: []bool{false}}
	_, _, err = executeCommand(t, nil, "--store", store, "wallet", "delete", "alice")
	if !errors.Is(err, model.ErrAborted) {
		t.Fatalf("expected ErrAborted on no, got %v", err)
	}
	*script = prompt.Scripted{Confirms: []bool{true}}
	out, _, err = executeCommand(t, nil, "--store", store, "wallet", "rm", "alice")
	if err != nil || !strings.Contains(out, "Wallet alice deleted.") {
		t.Fatalf("delete: %q %v", out, err)
	}

	out, _, err = executeCommand(t, nil, "--store", store, "wallet", "ls")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Contains(out, "alice") || !strings.Contains(out, "bob") {
		t.Fatalf("unexpected list after delete %q", out)
	}
}

func TestWalletCreate_WeakPassword(t *testing.T) {
	script := &prompt.Scripted{Passwords: []string{"abc", "abc", "abc"}}
	store := filepath.Join(t.TempDir(), "wallets.json")
	setupCLI(t, script)

	_, errOut, err := executeCommand(t, nil, "--store", store, "wallet", "create", "alice")
	var ve *model.ValidationError
	if !errors.As(err, &ve) || ve.Field != "password" {
		t.Fatalf("expected password validation error, got %v", err)
	}
	if strings.Count(errOut, "Please try again") != 2 {
		t.Fatalf("expected two retry notices, got %q", errOut)
	}
	if _, statErr := os.Stat(store); !os.IsNotExist(statErr) {
		t.Fatalf("no wallet file may be written, stat: %v", statErr)
	}
}

func TestWalletCreate_InvalidNameIsNotRetried(t *testing.T) {
	script := &prompt.Scripted{Passwords: []string{strongPassword}}
	setupCLI(t, script)
	_, errOut, err := executeCommand(t, nil, "wallet", "create", "bad\tname")
	var ve *model.ValidationError
	if !errors.As(err, &ve) || ve.Field != "wallet name" {
		t.Fatalf("expected name validation error, got %v", err)
	}
	if errOut != "" {
		t.Fatalf("name errors must not be retried, stderr %q", errOut)
	}
}

func TestWalletImport_Rejects(t *testing.T) {
	script := &prompt.Scripted{}
	setupCLI(t, script)
	store := filepath.Join(t.TempDir(), "wallets.json")
	seedWallets(t, script, store)

	*script = prompt.Scripted{Passwords: []string{strongPassword}}
	_, _, err := executeCommand(t, nil, "--store", store, "wallet", "import", "carol", "--key-file", writeKeyFile(t, bobKey))
	if !errors.Is(err, model.ErrDuplicateAddress) {
		t.Fatalf("expected ErrDuplicateAddress, got %v", err)
	}

	*script = prompt.Scripted{Passwords: []string{"0x1234"}}
	_, _, err = executeCommand(t, nil, "--store", store, "wallet", "import", "carol")
	var ve *model.ValidationError
	if !errors.As(err, &ve) || ve.Field != "private key" {
		t.Fatalf("expected private key validation error, got %v", err)
	}
	if len(script.Asked) != 1 {
		t.Fatalf("a malformed key must be rejected before any other prompt, asked %v", script.Asked)
	}
}

func TestWalletExportKey_RetriesPassword(t *testing.T) {
	script := &prompt.Scripted{}
	setupCLI(t, script)
	store := filepath.Join(t.TempDir(), "wallets.json")
	seedWallets(t, script, store)

	*script = prompt.Scripted{
		Confirms:  []bool{true},
		Passwords: []string{"wrong-one", "wrong-two", strongPassword},
	}
	out, errOut, err := executeCommand(t, nil, "--store", store, "wallet", "export-key", "bob")
	if err != nil {
		t.Fatalf("export-key: %v", err)
	}
	if strings.TrimSpace(out) != "0x"+bobKey {
		t.Fatalf("unexpected key output %q", out)
	}
	if strings.Count(errOut, "Please try again") != 2 {
		t.Fatalf("expected two retry notices, got %q", errOut)
	}
	confirms := 0
	for _, q := range script.Asked {
		if strings.Contains(q, "in clear text") {
			confirms++
		}
	}
	if confirms != 1 {
		t.Fatalf("confirmation must be asked once, asked %v", script.Asked)
	}
}

func TestWalletExportKey_GivesUp(t *testing.T) {
	script := &prompt.Scripted{}
	setupCLI(t, script)
	store := filepath.Join(t.TempDir(), "wallets.json")
	seedWallets(t, script, store)

	*script = prompt.Scripted{Passwords: []string{"a", "b", "c", strongPassword}}
	_, _, err := executeCommand(t, nil, "--store", store, "wallet", "export-key", "-f")
	if !errors.Is(err, keywrap.ErrDecryption) {
		t.Fatalf("expected ErrDecryption, got %v", err)
	}
	if len(script.Passwords) != 1 {
		t.Fatalf("expected exactly %d attempts, left %v", passwordAttempts, script.Passwords)
	}
}

func TestWalletExportKey_Declined(t *testing.T) {
	script := &prompt.Scripted{}
	setupCLI(t, script)
	store := filepath.Join(t.TempDir(), "wallets.json")
	seedWallets(t, script, store)

	*script = prompt.Scripted{Confirms: []bool{false}}
	out, _, err := executeCommand(t, nil, "--store", store, "wallet", "export-key")
	if !errors.Is(err, model.ErrAborted) || out != "" {
		t.Fatalf("expected ErrAborted and no output, got %q %v", out, err)
	}
}

func TestPasswordStdin(t *testing.T) {
	setupCLI(t, &prompt.Scripted{})
	empty, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	defer empty.Close()
	newPrompter = func(cmd *cobra.Command) prompt.Prompter { return prompt.NewTerminal(empty, io.Discard) }
	store := filepath.Join(t.TempDir(), "wallets.json")

	_, _, err = executeCommand(t, strings.NewReader(strongPassword+"\n"), "--store", store, "--password-stdin", "wallet", "create", "alice")
	if err != nil {
		t.Fatalf("create with --password-stdin: %v", err)
	}

	_, _, err = executeCommand(t, strings.NewReader(strongPassword+"\n"), "--store", store, "--password-stdin", "wallet", "import", "bob")
	if err == nil || !strings.Contains(err.Error(), "--key-file") {
		t.Fatalf("expected --key-file requirement, got %v", err)
	}

	_, errOut, err := executeCommand(t, strings.NewReader("not-it\n"), "--store", store, "--password-stdin", "wallet", "export-key", "-f")
	if !errors.Is(err, keywrap.ErrDecryption) {
		t.Fatalf("expected ErrDecryption, got %v", err)
	}
	if strings.Contains(errOut, "Please try again") {
		t.Fatalf("stdin passwords are not retried, stderr %q", errOut)
	}
}

func TestWalletAddress_Copy(t *testing.T) {
	script := &prompt.Scripted{}
	setupCLI(t, script)
	store := filepath.Join(t.TempDir(), "wallets.json")
	seedWallets(t, script, store)

	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	defer func() { copyToClipboard = orig }()

	out, errOut, err := executeCommand(t, nil, "--store", store, "wallet", "address", "bob", "--copy")
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	if strings.TrimSpace(out) != bobAddress || copied != bobAddress {
		t.Fatalf("unexpected address %q copied %q", out, copied)
	}
	if !strings.Contains(errOut, "copied") {
		t.Fatalf("expected copy notice, got %q", errOut)
	}

	_, _, err = executeCommand(t, nil, "--store", store, "wallet", "address", "nobody")
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWalletSwitch_Picker(t *testing.T) {
	script := &prompt.Scripted{}
	setupCLI(t, script)
	store := filepath.Join(t.TempDir(), "wallets.json")
	seedWallets(t, script, store)

	stdinIsTerminal = func() bool { return true }
	orig := pickWallet
	defer func() { pickWallet = orig }()

	var offered []core.WalletInfo
	pickWallet = func(list []core.WalletInfo, _ io.Reader, _ io.Writer) (string, error) {
		offered = list
		return "bob", nil
	}
	out, _, err := executeCommand(t, nil, "--store", store, "wallet", "switch")
	if err != nil || !strings.Contains(out, "Current wallet: bob") {
		t.Fatalf("switch via picker: %q %v", out, err)
	}
	if len(offered) != 2 {
		t.Fatalf("picker should offer both wallets, got %v", offered)
	}

	pickWallet = func([]core.WalletInfo, io.Reader, io.Writer) (string, error) { return "", tui.ErrCancelled }
	_, _, err = executeCommand(t, nil, "--store", store, "wallet", "switch")
	if !errors.Is(err, model.ErrAborted) {
		t.Fatalf("expected ErrAborted on cancel, got %v", err)
	}
}

func TestWalletSwitch_EmptyStore(t *testing.T) {
	setupCLI(t, &prompt.Scripted{})
	store := filepath.Join(t.TempDir(), "wallets.json")
	_, _, err := executeCommand(t, nil, "--store", store, "wallet", "switch", "bob")
	if !errors.Is(err, model.ErrEmptyStore) {
		t.Fatalf("expected ErrEmptyStore, got %v", err)
	}
}

func TestWalletRename(t *testing.T) {
	script := &prompt.Scripted{}
	setupCLI(t, script)
	store := filepath.Join(t.TempDir(), "wallets.json")
	seedWallets(t, script, store)

	if _, _, err := executeCommand(t, nil, "--store", store, "wallet", "rename", "alice", "main"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	out, _, err := executeCommand(t, nil, "--store", store, "wallet", "list")
	if err != nil || !strings.Contains(out, "main") || strings.Contains(out, "alice") {
		t.Fatalf("unexpected list after rename %q %v", out, err)
	}
	_, _, err = executeCommand(t, nil, "--store", store, "wallet", "rename", "main", "bob")
	if !errors.Is(err, model.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestWalletBackupAndRestore(t *testing.T) {
	script := &prompt.Scripted{}
	setupCLI(t, script)
	store := filepath.Join(t.TempDir(), "wallets.json")
	seedWallets(t, script, store)

	dir := t.TempDir()
	out, _, err := executeCommand(t, nil, "--store", store, "wallet", "backup", dir)
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	written := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(out), "Backup written to "))
	if filepath.Dir(written) != dir || !strings.HasPrefix(filepath.Base(written), "wallet-backup-") {
		t.Fatalf("unexpected backup path %q", written)
	}
	original, _ := os.ReadFile(store)

	*script = prompt.Scripted{Confirms: []bool{true}}
	if _, _, err := executeCommand(t, nil, "--store", store, "wallet", "delete", "bob"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	*script = prompt.Scripted{Confirms: []bool{true}}
	out, _, err = executeCommand(t, nil, "--store", store, "wallet", "restore", written)
	if err != nil || !strings.Contains(out, "Restored 2 wallet(s)") {
		t.Fatalf("restore: %q %v", out, err)
	}
	restored, _ := os.ReadFile(store)
	if string(restored) != string(original) {
		t.Fatalf("restored file differs from the original")
	}
}
