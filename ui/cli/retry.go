// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"github.com/avast/retry-go/v4"
	"github.com/toeirei/keywallet/internal/core"
	"github.com/toeirei/keywallet/internal/logging"
)

// passwordAttempts is how often a prompted password may be re-entered.
const passwordAttempts = 3

// withPasswordRetry runs fn again when it failed on the password and the
// password came from a prompt. A password from --password-stdin is used once.
func (a *app) withPasswordRetry(fn func() error) error {
	attempts := uint(passwordAttempts)
	if a.passwordStdin {
		attempts = 1
	}
	return retry.Do(fn,
		retry.Attempts(attempts),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(core.IsRetryable),
		retry.OnRetry(func(n uint, err error) {
			logging.Debugf("password attempt %d of %d failed: %v", n+1, attempts, err)
			if n+1 < attempts {
				printf(a.stderr, "error.try_again", DescribeError(err))
			}
		}),
	)
}
