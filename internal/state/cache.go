// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

// Package state holds transient per-process state shared between the CLI
// layer and the prompt adapters.
package state

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// PasswordCache carries a password supplied up front (for example via
// --password-stdin) to every prompt of the current command. It stores a
// byte slice so the value can be wiped on exit.
var PasswordCache = &passwordMailbox{}

type passwordMailbox struct {
	value []byte
	mu    sync.RWMutex
}

// Set stores a copy of pass, replacing any previous value. A nil pass clears.
func (p *passwordMailbox) Set(pass []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wipe()
	if pass == nil {
		return
	}
	p.value = make([]byte, len(pass))
	copy(p.value, pass)
}

// Get returns a copy of the cached password or nil. The caller owns the
// copy and should zero it after use.
func (p *passwordMailbox) Get() []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.value == nil {
		return nil
	}
	out := make([]byte, len(p.value))
	copy(out, p.value)
	return out
}

// Clear wipes the cached password.
func (p *passwordMailbox) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wipe()
}

func (p *passwordMailbox) wipe() {
	for i := range p.value {
		p.value[i] = 0
	}
	p.value = nil
}

// LoadFrom reads the first line of r into the cache. It reads one byte at a
// time so the rest of r stays available to later prompts. Trailing CR/LF is
// stripped; an empty line is an error.
func (p *passwordMailbox) LoadFrom(r io.Reader) error {
	var line []byte
	defer func() { wipeBytes(line) }()
	b := make([]byte, 1)
	for {
		n, err := r.Read(b)
		if n == 1 {
			if b[0] == '\n' {
				break
			}
			line = append(line, b[0])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read password from stdin: %w", err)
		}
	}
	line = bytes.TrimRight(line, "\r")
	if len(line) == 0 {
		return fmt.Errorf("read password from stdin: empty input")
	}
	p.Set(line)
	return nil
}

func wipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
