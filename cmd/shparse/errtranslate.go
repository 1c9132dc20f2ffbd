// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package main

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/lucidshell/posixsh/parser"
)

// wrapParseError wraps a parser error with oops for structured logging at
// the CLI boundary, once, at the edge of the core.
func wrapParseError(err error) error {
	if err == nil {
		return nil
	}
	perr, ok := err.(parser.Error)
	if !ok {
		return oops.Wrap(err)
	}
	pos := perr.Pos()
	return oops.Code(perr.Code()).
		With("line", pos.Line).
		With("col", pos.Col).
		Wrap(perr)
}

// UserMessage translates an error into a one-line diagnostic for stderr,
// instead of a Go %+v dump.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return err.Error()
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		if line, ok := ctx["line"]; ok {
			return fmt.Sprintf("%s (line %v, col %v)", oopsErr.Error(), line, ctx["col"])
		}
	}
	return oopsErr.Error()
}
