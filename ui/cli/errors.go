// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"strings"

	"github.com/toeirei/keywallet/internal/crypto/keywrap"
	"github.com/toeirei/keywallet/internal/i18n"
	"github.com/toeirei/keywallet/internal/model"
	"github.com/toeirei/keywallet/internal/prompt"
	"github.com/toeirei/keywallet/internal/store"
)

// errorMessages maps sentinel errors to message ids. Order matters: the
// first match wins.
var errorMessages = []struct {
	err error
	id  string
}{
	{keywrap.ErrDecryption, "error.decryption"},
	{keywrap.ErrCorruptRecord, "error.corrupt_record"},
	{model.ErrDuplicateName, "error.duplicate_name"},
	{model.ErrDuplicateAddress, "error.duplicate_address"},
	{model.ErrDuplicateLabel, "error.duplicate_label"},
	{model.ErrEmptyStore, "error.empty_store"},
	{model.ErrNoWallet, "error.no_wallet"},
	{model.ErrNoOtherWallet, "error.no_other_wallet"},
	{model.ErrDeleteProtected, "error.delete_protected"},
	{model.ErrEntryEncrypted, "error.entry_encrypted"},
	{model.ErrEntryNotEncrypted, "error.entry_not_encrypted"},
	{model.ErrAborted, "error.aborted"},
	{prompt.ErrPasswordMismatch, "error.password_mismatch"},
	{prompt.ErrNoAnswer, "error.no_answer"},
}

// DescribeError renders err for the terminal. Known errors get a localized
// message; the raw error text follows where it carries useful detail.
func DescribeError(err error) string {
	if err == nil {
		return ""
	}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return i18n.T("error.validation", ve.Field, strings.Join(ve.Reasons, "; "))
	}
	var pe *store.PersistenceError
	if errors.As(err, &pe) {
		return i18n.T("error.persistence", pe.Op, pe.Path, pe.Err)
	}
	if errors.Is(err, model.ErrNotFound) {
		return i18n.T("error.not_found", err.Error())
	}
	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			msg := i18n.T(m.id)
			if m.err == keywrap.ErrCorruptRecord || m.err == model.ErrDuplicateAddress {
				msg += " (" + err.Error() + ")"
			}
			return msg
		}
	}
	return err.Error()
}
