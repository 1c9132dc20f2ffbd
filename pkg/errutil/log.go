// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

// Package errutil bridges oops-wrapped errors into slog records and test
// assertions. The parser itself returns plain typed errors; the CLI wraps
// them with oops at its boundary, and this package is how those wrapped
// errors get logged and asserted on.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError emits err on logger at error level. An oops error contributes
// its code and context map as structured attributes; any other error is
// logged as its plain text.
func LogError(logger *slog.Logger, msg string, err error) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Error(msg, "error", err)
		return
	}

	attrs := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != "" {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	logger.Error(msg, attrs...)
}
