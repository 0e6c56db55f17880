// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

// This file defines the shared lipgloss styles.

package tui

import "github.com/charmbracelet/lipgloss"

// colorPalette defines the core colors.
const (
	colorSubtle    = lipgloss.Color("240") // Muted gray
	colorHighlight = lipgloss.Color("81")  // Teal
	colorSuccess   = lipgloss.Color("40")  // Green
)

var (
	// Picker
	titleStyle  = lipgloss.NewStyle().Foreground(colorHighlight).MarginLeft(2).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(colorSubtle).Italic(true)

	// Listings
	nameStyle    = lipgloss.NewStyle().Bold(true)
	currentStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(colorSubtle)
)
