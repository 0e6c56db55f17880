// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/toeirei/keywallet/internal/security"
	"github.com/toeirei/keywallet/internal/state"
)

// Terminal prompts on a terminal, hiding password input. When stdin is not a
// terminal, answers are read line by line so scripts can pipe them in.
type Terminal struct {
	in           *bufio.Reader
	out          io.Writer
	fd           int
	isTerminal   func(fd int) bool
	readPassword func(fd int) ([]byte, error)
}

// NewTerminal builds a Terminal on in/out.
func NewTerminal(in *os.File, out io.Writer) *Terminal {
	return &Terminal{
		in:           bufio.NewReader(in),
		out:          out,
		fd:           int(in.Fd()),
		isTerminal:   term.IsTerminal,
		readPassword: term.ReadPassword,
	}
}

// Password returns the cached password if one was supplied up front,
// otherwise it prompts.
func (t *Terminal) Password(label string) (security.Secret, error) {
	if cached := state.PasswordCache.Get(); cached != nil {
		return security.Secret(cached), nil
	}
	return t.readSecret(label)
}

// NewPassword prompts twice on a terminal and requires both entries to match.
func (t *Terminal) NewPassword(label string) (security.Secret, error) {
	if cached := state.PasswordCache.Get(); cached != nil {
		return security.Secret(cached), nil
	}
	first, err := t.readSecret(label)
	if err != nil {
		return nil, err
	}
	if !t.isTerminal(t.fd) {
		return first, nil
	}
	second, err := t.readSecret(label + " (repeat)")
	if err != nil {
		first.Zero()
		return nil, err
	}
	defer second.Zero()
	if !first.Equal(second) {
		first.Zero()
		return nil, ErrPasswordMismatch
	}
	return first, nil
}

func (t *Terminal) readSecret(label string) (security.Secret, error) {
	fmt.Fprintf(t.out, "%s: ", label)
	if t.isTerminal(t.fd) {
		b, err := t.readPassword(t.fd)
		fmt.Fprintln(t.out)
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}
		return security.Secret(b), nil
	}
	line, err := t.readLine()
	if err != nil {
		return nil, err
	}
	return security.FromString(line), nil
}

// Input reads one trimmed line.
func (t *Terminal) Input(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)
	line, err := t.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks until it gets a yes/no answer. End of input selects the default.
func (t *Terminal) Confirm(question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	for {
		fmt.Fprintf(t.out, "%s %s: ", question, hint)
		line, err := t.readLine()
		if errors.Is(err, ErrNoAnswer) {
			fmt.Fprintln(t.out)
			return defaultYes, nil
		}
		if err != nil {
			return false, err
		}
		if v, ok := ParseYesNo(line, defaultYes); ok {
			return v, nil
		}
	}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", ErrNoAnswer
			}
		} else {
			return "", fmt.Errorf("read input: %w", err)
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ParseYesNo interprets an answer. Empty input selects def.
func ParseYesNo(answer string, def bool) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return def, true
	case "y", "yes", "j", "ja":
		return true, true
	case "n", "no", "nein":
		return false, true
	}
	return false, false
}
