// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/keywallet/internal/addressbook"
	"github.com/toeirei/keywallet/internal/core"
	"github.com/toeirei/keywallet/internal/i18n"
)

// CurrentMarker tags the current wallet in listings.
const CurrentMarker = "(current)"

// RenderWallets formats wallets as aligned "name  address" lines, marking the
// current one.
func RenderWallets(wallets []core.WalletInfo) string {
	width := 0
	for _, w := range wallets {
		width = max(width, lipgloss.Width(w.Name))
	}
	var b strings.Builder
	for _, w := range wallets {
		name := nameStyle.Width(width).Render(w.Name)
		line := name + "  " + w.Address
		if w.IsCurrent {
			line = currentStyle.Render("*") + " " + line + " " + currentStyle.Render(CurrentMarker)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// RenderEntries formats address book rows.
func RenderEntries(rows []addressbook.Listing) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r.Label))
	}
	var b strings.Builder
	for _, r := range rows {
		label := nameStyle.Width(width).Render(r.Label)
		switch {
		case r.Encrypted && r.Address == "":
			b.WriteString(label + "  " + dimStyle.Render(i18n.T("book.encrypted_placeholder")) + "\n")
		case r.Notes != "":
			b.WriteString(label + "  " + r.Address + "  " + dimStyle.Render(r.Notes) + "\n")
		default:
			b.WriteString(label + "  " + r.Address + "\n")
		}
	}
	return b.String()
}
