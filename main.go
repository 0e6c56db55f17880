// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Keywallet.
//
// Usage:
//
//	go run . [flags]
//	./keywallet [flags]
//
// See --help for options.
package main

import (
	"fmt"
	"os"

	"github.com/toeirei/keywallet/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.DescribeError(err))
		os.Exit(1)
	}
}
