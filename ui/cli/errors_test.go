// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/toeirei/keywallet/internal/crypto/keywrap"
	"github.com/toeirei/keywallet/internal/i18n"
	"github.com/toeirei/keywallet/internal/model"
	"github.com/toeirei/keywallet/internal/store"
)

func TestDescribeError(t *testing.T) {
	i18n.Init("en")
	cases := []struct {
		name string
		err  error
		want []string
	}{
		{"nil", nil, []string{""}},
		{"validation", model.NewValidationError("password", "too short", "too weak"), []string{"Invalid password", "too short; too weak"}},
		{"persistence", &store.PersistenceError{Op: "write", Path: "/x/wallets.json", Err: errors.New("disk full")}, []string{"Could not write /x/wallets.json", "disk full"}},
		{"not found", fmt.Errorf("%w: wallet %q", model.ErrNotFound, "zed"), []string{"Not found", "zed"}},
		{"decryption", fmt.Errorf("unlock: %w", keywrap.ErrDecryption), []string{"check your password"}},
		{"corrupt carries detail", fmt.Errorf("%w: bad iv for alice", keywrap.ErrCorruptRecord), []string{"corrupt", "bad iv for alice"}},
		{"delete protected", model.ErrDeleteProtected, []string{"Switch to another wallet first"}},
		{"aborted", model.ErrAborted, []string{"Cancelled."}},
		{"unknown", errors.New("boom"), []string{"boom"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := DescribeError(c.err)
			for _, w := range c.want {
				if !strings.Contains(got, w) {
					t.Fatalf("DescribeError(%v) = %q, want it to contain %q", c.err, got, w)
				}
			}
		})
	}
}
