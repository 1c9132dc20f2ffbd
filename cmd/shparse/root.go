// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/lucidshell/posixsh/cliconfig"
	"github.com/lucidshell/posixsh/obslog"
)

// Global flags available to all subcommands.
var (
	cfgFile   string
	dialect   string
	logFormat string
	exclude   []string
)

// cfg is the loaded, validated configuration, populated by the root
// command's PersistentPreRunE before any subcommand's RunE runs.
var cfg *cliconfig.Config

// NewRootCmd creates the root command for the shparse CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shparse",
		Short: "shparse - a POSIX shell lexer and parser",
		Long: `shparse parses POSIX shell scripts into an abstract syntax
tree, or dumps their raw token stream for debugging the lexer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := cliconfig.Load(cliconfig.ResolvePath(cfgFile), cmd.Flags())
			if err != nil {
				return err
			}
			cfg = loaded
			obslog.SetDefault("shparse", version, cfg.LogFormat)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: XDG config dir)")
	cmd.PersistentFlags().StringVar(&dialect, "dialect", "posix", "grammar dialect: posix or posix+bash, with optional @<semver constraint>")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log output format: json or text")
	cmd.PersistentFlags().StringArrayVar(&exclude, "exclude", nil, "glob pattern to exclude when parsing a directory (repeatable)")

	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newTokensCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
