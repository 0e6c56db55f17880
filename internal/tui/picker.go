// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui holds the small interactive pieces of the CLI: the wallet
// picker used by `wallet switch` and the styles for tabular output.
package tui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/keywallet/internal/core"
	"github.com/toeirei/keywallet/internal/i18n"
)

// ErrCancelled is returned when the picker is closed without a choice.
var ErrCancelled = errors.New("selection cancelled")

type walletItem struct {
	info core.WalletInfo
}

func (i walletItem) FilterValue() string { return i.info.Name + " " + i.info.Address }
func (i walletItem) Title() string {
	if i.info.IsCurrent {
		return i.info.Name + " " + CurrentMarker
	}
	return i.info.Name
}
func (i walletItem) Description() string { return i.info.Address }

type pickerKeys struct {
	Choose key.Binding
	Quit   key.Binding
}

var defaultPickerKeys = pickerKeys{
	Choose: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "q", "ctrl+c"),
		key.WithHelp("q", "cancel"),
	),
}

// PickerModel is a bubbletea model listing wallets.
type PickerModel struct {
	list     list.Model
	keys     pickerKeys
	chosen   string
	quitting bool
	width    int
}

// NewPicker builds a picker over wallets with the current wallet preselected.
func NewPicker(wallets []core.WalletInfo) PickerModel {
	items := make([]list.Item, len(wallets))
	selected := 0
	for i, w := range wallets {
		items[i] = walletItem{info: w}
		if w.IsCurrent {
			selected = i
		}
	}

	const defaultWidth = 60
	const listHeight = 14

	l := list.New(items, list.NewDefaultDelegate(), defaultWidth, listHeight)
	l.Title = i18n.T("picker.title")
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(len(wallets) > 8)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	l.Styles.HelpStyle = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
	l.Select(selected)

	return PickerModel{list: l, keys: defaultPickerKeys, width: defaultWidth}
}

func (m PickerModel) Init() tea.Cmd { return nil }

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.list.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Choose):
			if it, ok := m.list.SelectedItem().(walletItem); ok {
				m.chosen = it.info.Name
			}
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}
	footer := AlignFooter(i18n.T("picker.hint"), fmt.Sprintf("%d", len(m.list.Items())), m.width)
	return "\n" + m.list.View() + "\n" + footerStyle.Render(footer)
}

// Chosen returns the selected wallet name, or "" when cancelled.
func (m PickerModel) Chosen() string { return m.chosen }

// PickWallet runs the picker on in/out and returns the chosen name.
func PickWallet(wallets []core.WalletInfo, in io.Reader, out io.Writer) (string, error) {
	p := tea.NewProgram(NewPicker(wallets), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("run picker: %w", err)
	}
	m, ok := final.(PickerModel)
	if !ok || m.Chosen() == "" {
		return "", ErrCancelled
	}
	return m.Chosen(), nil
}
