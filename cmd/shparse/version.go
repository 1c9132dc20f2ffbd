// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Version information set at build time via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build version info",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("shparse %s (commit %s, built %s)\n", version, commit, date)
			return nil
		},
	}
}
