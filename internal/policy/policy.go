// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

// Package policy decides whether a password is acceptable for wrapping a
// signing key. Strength is scored with zxcvbn (0-4); a password is valid when
// its length is within bounds and its score reaches the configured minimum.
// Evaluation is pure and reports every violated rule in one pass.
package policy

import (
	"fmt"
	"unicode/utf8"

	"github.com/ccojocar/zxcvbn-go"
)

const (
	DefaultMinLength = 6
	DefaultMaxLength = 128
	DefaultMinScore  = 3
)

// Violation identifies a rule a password failed.
type Violation string

const (
	ViolationTooShort Violation = "too_short"
	ViolationTooLong  Violation = "too_long"
	ViolationWeak     Violation = "weak"
)

// Result is the outcome of Evaluate.
type Result struct {
	IsValid    bool
	Score      int
	Violations []Violation
	// Reasons holds one message per violation followed by scorer suggestions.
	Reasons []string
}

// Has reports whether the result contains the given violation.
func (r Result) Has(v Violation) bool {
	for _, got := range r.Violations {
		if got == v {
			return true
		}
	}
	return false
}

// Strength is what a Scorer returns.
type Strength struct {
	Score       int
	Suggestions []string
}

// Scorer rates a password from 0 (guessable) to 4 (very unguessable).
type Scorer func(password string, userInputs []string) Strength

// Evaluator applies the password policy.
type Evaluator struct {
	minLength  int
	maxLength  int
	minScore  int
	scorer    Scorer
}

// Option customizes an Evaluator.
type Option func(*Evaluator)

// WithScorer replaces the zxcvbn scorer.
func WithScorer(s Scorer) Option {
	return func(e *Evaluator) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithMinScore overrides the minimum accepted score.
func WithMinScore(score int) Option {
	return func(e *Evaluator) { e.minScore = score }
}

// New returns an Evaluator with the default bounds and the zxcvbn scorer.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		minLength: DefaultMinLength,
		maxLength: DefaultMaxLength,
		minScore:  DefaultMinScore,
		scorer:    ZxcvbnScorer,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Evaluate checks password against every rule and returns all violations.
// userInputs (wallet name, label) are treated by the scorer as guessable.
func (e *Evaluator) Evaluate(password string, userInputs ...string) Result {
	var res Result

	n := utf8.RuneCountInString(password)
	if n < e.minLength {
		res.Violations = append(res.Violations, ViolationTooShort)
		res.Reasons = append(res.Reasons, fmt.Sprintf("password must be at least %d characters long", e.minLength))
	}
	if n > e.maxLength {
		res.Violations = append(res.Violations, ViolationTooLong)
		res.Reasons = append(res.Reasons, fmt.Sprintf("password must be at most %d characters long", e.maxLength))
	}

	var strength Strength
	if password != "" {
		strength = e.scorer(password, userInputs)
	}
	res.Score = strength.Score
	if strength.Score < e.minScore {
		res.Violations = append(res.Violations, ViolationWeak)
		res.Reasons = append(res.Reasons, fmt.Sprintf("password is too weak (score %d of 4, need at least %d)", strength.Score, e.minScore))
		res.Reasons = append(res.Reasons, strength.Suggestions...)
	}

	res.IsValid = len(res.Violations) == 0
	return res
}

// patternAdvice maps zxcvbn match patterns to improvement suggestions.
var patternAdvice = map[string]string{
	"dictionary": "avoid dictionary words, names and common passwords",
	"spatial":    "avoid keyboard patterns such as qwerty or zxcvbn",
	"repeat":     "avoid repeated words and characters",
	"sequence":   "avoid sequences such as abc or 6543",
	"date":       "avoid dates and years associated with you",
}

// ZxcvbnScorer scores with zxcvbn and turns the weakest match patterns into
// suggestions.
func ZxcvbnScorer(password string, userInputs []string) Strength {
	m := zxcvbn.PasswordStrength(password, userInputs)
	s := Strength{Score: m.Score}
	if m.Score >= DefaultMinScore {
		return s
	}
	seen := map[string]bool{}
	for _, match := range m.MatchSequence {
		advice, ok := patternAdvice[match.Pattern]
		if !ok || seen[advice] {
			continue
		}
		seen[advice] = true
		s.Suggestions = append(s.Suggestions, advice)
	}
	s.Suggestions = append(s.Suggestions, "add another word or two; uncommon words are better")
	return s
}
