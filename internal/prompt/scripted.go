// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package prompt

import (
	"fmt"

	"github.com/toeirei/keywallet/internal/security"
)

// Scripted answers prompts from fixed queues. It is used by tests and by
// callers that already know every answer.
type Scripted struct {
	Passwords []string
	Inputs    []string
	Confirms  []bool
	// Asked records every label or question in order.
	Asked []string
}

func (s *Scripted) Password(label string) (security.Secret, error) {
	s.Asked = append(s.Asked, label)
	if len(s.Passwords) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoAnswer, label)
	}
	p := s.Passwords[0]
	s.Passwords = s.Passwords[1:]
	return security.FromString(p), nil
}

func (s *Scripted) NewPassword(label string) (security.Secret, error) {
	return s.Password(label)
}

func (s *Scripted) Input(label string) (string, error) {
	s.Asked = append(s.Asked, label)
	if len(s.Inputs) == 0 {
		return "", fmt.Errorf("%w for %q", ErrNoAnswer, label)
	}
	in := s.Inputs[0]
	s.Inputs = s.Inputs[1:]
	return in, nil
}

// Confirm pops the next answer, or returns defaultYes when none is queued.
func (s *Scripted) Confirm(question string, defaultYes bool) (bool, error) {
	s.Asked = append(s.Asked, question)
	if len(s.Confirms) == 0 {
		return defaultYes, nil
	}
	c := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return c, nil
}
