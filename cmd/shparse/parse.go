// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/lucidshell/posixsh/ast"
	"github.com/lucidshell/posixsh/builder"
	"github.com/lucidshell/posixsh/builderplugin"
	"github.com/lucidshell/posixsh/obslog"
	"github.com/lucidshell/posixsh/parser"
)

// newParseCmd builds the `shparse parse` subcommand: parse one or more
// files (or stdin) with ast.DefaultBuilder (or an external plugin, if the
// config's plugin_path names one) and print the resulting complete-command
// list.
func newParseCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Parse shell source and print its AST",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = cfg.Output
			}

			b, closeBuilder, err := resolveBuilder()
			if err != nil {
				return wrapParseError(err)
			}
			defer closeBuilder()

			files, err := expandArgs(args, cfg.Exclude)
			if err != nil {
				return wrapParseError(err)
			}

			for _, f := range files {
				ctx := obslog.WithParseID(cmd.Context(), ulid.Make())
				src, err := readSource(f)
				if err != nil {
					return wrapParseError(err)
				}
				cmds, perr := parser.NewFromString(src, b).All()
				if perr != nil {
					slog.ErrorContext(ctx, "parse failed", "file", f)
					return wrapParseError(perr)
				}
				slog.DebugContext(ctx, "parsed", "file", f, "commands", len(cmds))
				if err := printCommands(cmd.OutOrStdout(), format, cmds); err != nil {
					return wrapParseError(err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "output format: json (default) or text")
	return cmd
}

// resolveBuilder returns ast.NewDefaultBuilder(), or loads an external
// builder plugin when cfg.PluginPath is set. The returned closer must
// always be called once the builder is no longer needed.
func resolveBuilder() (builder.Builder, func(), error) {
	if cfg == nil || cfg.PluginPath == "" {
		return ast.NewDefaultBuilder(), func() {}, nil
	}
	host := builderplugin.NewHost()
	const pluginName = "cli"
	if err := host.Load(pluginName, cfg.PluginPath); err != nil {
		return nil, func() {}, fmt.Errorf("loading builder plugin %q: %w", cfg.PluginPath, err)
	}
	b, err := host.Builder(pluginName)
	if err != nil {
		_ = host.Close()
		return nil, func() {}, fmt.Errorf("dispensing builder plugin %q: %w", cfg.PluginPath, err)
	}
	return b, func() { _ = host.Close() }, nil
}

// expandArgs resolves the file list to parse: "-" (stdin) if no arguments
// were given, otherwise each argument verbatim — or, for a directory
// argument, every regular file under it — minus anything matching an
// --exclude glob.
func expandArgs(args []string, excludes []string) ([]string, error) {
	if len(args) == 0 {
		return []string{"-"}, nil
	}
	globs := make([]glob.Glob, 0, len(excludes))
	for _, pattern := range excludes {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad --exclude pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	var out []string
	for _, a := range args {
		if fi, err := os.Stat(a); err == nil && fi.IsDir() {
			err := filepath.WalkDir(a, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.Type().IsRegular() && !matchesAny(globs, path) {
					out = append(out, path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("walking %s: %w", a, err)
			}
			continue
		}
		if !matchesAny(globs, a) {
			out = append(out, a)
		}
	}
	return out, nil
}

func matchesAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // CLI is expected to read user-specified paths
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func printCommands(w io.Writer, format string, cmds []builder.Command) error {
	if format == "text" || format == "tree" {
		for _, c := range cmds {
			cc, _ := c.(*ast.CompleteCommand)
			fmt.Fprintf(w, "%+v\n", cc)
		}
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cmds)
}
