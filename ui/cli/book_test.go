// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/toeirei/keywallet/internal/crypto/keywrap"
	"github.com/toeirei/keywallet/internal/model"
	"github.com/toeirei/keywallet/internal/prompt"
)

const friendAddress = "0x52908400098527886E0F7030069857D2E4169EE7"

func TestBookFlow(t *testing.T) {
	script := &prompt.Scripted{}
	setupCLI(t, script)
	store := filepath.Join(t.TempDir(), "wallets.json")
	run := func(args ...string) (string, error) {
		t.Helper()
		out, _, err := executeCommand(t, nil, append([]string{"--store", store}, args...)...)
		return out, err
	}

	out, err := run("book", "list")
	if err != nil || !strings.Contains(out, "empty") {
		t.Fatalf("empty list: %q %v", out, err)
	}

	// lower-case input is stored checksummed
	out, err = run("book", "add", "friend", strings.ToLower(friendAddress), "--notes", "lunch")
	if err != nil || !strings.Contains(out, friendAddress) {
		t.Fatalf("add: %q %v", out, err)
	}
	if _, err = run("book", "add", "friend", friendAddress); !errors.Is(err, model.ErrDuplicateLabel) {
		t.Fatalf("expected ErrDuplicateLabel, got %v", err)
	}
	var ve *model.ValidationError
	if _, err = run("book", "add", "broken", "0x1234"); !errors.As(err, &ve) {
		t.Fatalf("expected validation error for bad address, got %v", err)
	}

	out, err = run("ab", "search", "52908400")
	if err != nil || !strings.Contains(out, "friend") {
		t.Fatalf("search by address: %q %v", out, err)
	}
	out, err = run("book", "search", "nobody")
	if err != nil || !strings.Contains(out, "No entries match") {
		t.Fatalf("search miss: %q %v", out, err)
	}

	*script = prompt.Scripted{Passwords: []string{strongPassword}}
	if out, err = run("book", "encrypt", "friend"); err != nil || !strings.Contains(out, "now encrypted") {
		t.Fatalf("encrypt: %q %v", out, err)
	}

	out, err = run("book", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "[encrypted]") || strings.Contains(out, friendAddress) {
		t.Fatalf("encrypted entries must hide the address: %q", out)
	}

	if _, err = run("book", "edit", "friend", "--notes", "x"); !errors.Is(err, model.ErrEntryEncrypted) {
		t.Fatalf("expected ErrEntryEncrypted, got %v", err)
	}

	*script = prompt.Scripted{Passwords: []string{"wrong", strongPassword}}
	out, err = run("book", "view", "friend")
	if err != nil || !strings.Contains(out, friendAddress) || !strings.Contains(out, "lunch") {
		t.Fatalf("view: %q %v", out, err)
	}

	*script = prompt.Scripted{Passwords: []string{"wrong", "wrong", "wrong"}}
	if _, err = run("book", "view", "friend"); !errors.Is(err, keywrap.ErrDecryption) {
		t.Fatalf("expected ErrDecryption, got %v", err)
	}

	*script = prompt.Scripted{Passwords: []string{strongPassword}}
	out, err = run("book", "decrypt", "friend", "--keep")
	if err != nil || !strings.Contains(out, "stored decrypted") {
		t.Fatalf("decrypt --keep: %q %v", out, err)
	}

	out, err = run("book", "edit", "friend", "--label", "pal", "--notes", "dinner")
	if err != nil || !strings.Contains(out, "Updated pal") {
		t.Fatalf("edit: %q %v", out, err)
	}
	if _, err = run("book", "edit", "pal"); err == nil {
		t.Fatalf("edit without flags must fail")
	}

	*script = prompt.Scripted{}
	out, err = run("book", "view", "pal")
	if err != nil || !strings.Contains(out, "dinner") {
		t.Fatalf("view plaintext: %q %v", out, err)
	}
	if len(script.Asked) != 0 {
		t.Fatalf("plaintext entries need no password, asked %v", script.Asked)
	}

	if _, err = run("book", "rm", "pal", "-f"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err = run("book", "view", "pal"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestBookDecrypt_WithoutKeepLeavesEntryEncrypted(t *testing.T) {
	script := &prompt.Scripted{}
	setupCLI(t, script)
	store := filepath.Join(t.TempDir(), "wallets.json")

	if _, _, err := executeCommand(t, nil, "--store", store, "book", "add", "friend", friendAddress); err != nil {
		t.Fatalf("add: %v", err)
	}
	*script = prompt.Scripted{Passwords: []string{strongPassword}}
	if _, _, err := executeCommand(t, nil, "--store", store, "book", "encrypt", "friend"); err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	// the keep question defaults to no
	*script = prompt.Scripted{Passwords: []string{strongPassword}}
	out, _, err := executeCommand(t, nil, "--store", store, "book", "decrypt", "friend")
	if err != nil || !strings.Contains(out, friendAddress) || strings.Contains(out, "stored decrypted") {
		t.Fatalf("decrypt: %q %v", out, err)
	}
	out, _, err = executeCommand(t, nil, "--store", store, "book", "list")
	if err != nil || !strings.Contains(out, "[encrypted]") {
		t.Fatalf("entry should still be encrypted: %q %v", out, err)
	}
}
