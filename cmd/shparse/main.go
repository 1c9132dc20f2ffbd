// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

// Command shparse parses POSIX shell scripts and prints their AST or raw
// token stream.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lucidshell/posixsh/pkg/errutil"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		errutil.LogError(slog.Default(), "command failed", err)
		fmt.Fprintln(os.Stderr, UserMessage(err))
		os.Exit(1)
	}
}
