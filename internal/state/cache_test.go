// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package state

import (
	"io"
	"strings"
	"sync"
	"testing"
)

func TestPasswordMailbox_SetGetClear(t *testing.T) {
	PasswordCache.Clear()
	defer PasswordCache.Clear()

	if got := PasswordCache.Get(); got != nil {
		t.Fatalf("expected nil on empty cache, got %v", got)
	}

	pass := []byte("s3cr3t")
	PasswordCache.Set(pass)
	pass[0] = 'X'

	got := PasswordCache.Get()
	if string(got) != "s3cr3t" {
		t.Fatalf("Set must copy its input, got %s", got)
	}
	got[0] = 'Y'
	if string(PasswordCache.Get()) != "s3cr3t" {
		t.Fatalf("mutating returned slice changed cache")
	}

	PasswordCache.Clear()
	if PasswordCache.Get() != nil {
		t.Fatalf("expected nil after Clear")
	}
}

func TestPasswordMailbox_LoadFrom(t *testing.T) {
	PasswordCache.Clear()
	defer PasswordCache.Clear()

	if err := PasswordCache.LoadFrom(strings.NewReader("hunter22\r\nignored\n")); err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if string(PasswordCache.Get()) != "hunter22" {
		t.Fatalf("unexpected cached value %q", PasswordCache.Get())
	}
	if err := PasswordCache.LoadFrom(strings.NewReader("no-newline")); err != nil || string(PasswordCache.Get()) != "no-newline" {
		t.Fatalf("expected unterminated line to load, err=%v", err)
	}
	if err := PasswordCache.LoadFrom(strings.NewReader("\n")); err == nil {
		t.Fatalf("expected empty input to fail")
	}
}

func TestPasswordMailbox_LoadFromLeavesFollowingLines(t *testing.T) {
	PasswordCache.Clear()
	defer PasswordCache.Clear()

	in := strings.NewReader("pw-line\nalice\ny\n")
	if err := PasswordCache.LoadFrom(in); err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	rest, err := io.ReadAll(in)
	if err != nil {
		t.Fatalf("read rest: %v", err)
	}
	if string(rest) != "alice\ny\n" {
		t.Fatalf("answers after the password line were consumed, left %q", rest)
	}
}

func TestPasswordMailbox_Concurrent(t *testing.T) {
	PasswordCache.Clear()
	defer PasswordCache.Clear()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); PasswordCache.Set([]byte("value")) }()
		go func() { defer wg.Done(); _ = PasswordCache.Get() }()
	}
	wg.Wait()
	if string(PasswordCache.Get()) != "value" {
		t.Fatalf("unexpected final value")
	}
}
