// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode fails the test unless err is an oops error carrying code
// (e.g. a wrapped parser error's "bad_subst" or "unmatched").
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	wrapped, ok := oops.AsOops(err)
	require.True(t, ok, "expected an oops-wrapped error, got %T", err)
	assert.Equal(t, code, wrapped.Code())
}

// AssertErrorContext fails the test unless err is an oops error whose
// context map holds value under key.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	wrapped, ok := oops.AsOops(err)
	require.True(t, ok, "expected an oops-wrapped error, got %T", err)
	ctx := wrapped.Context()
	require.Contains(t, ctx, key)
	assert.Equal(t, value, ctx[key])
}
