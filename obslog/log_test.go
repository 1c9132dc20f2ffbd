// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package obslog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucidshell/posixsh/obslog"
)

func TestSetupAddsServiceAndVersion(t *testing.T) {
	var buf bytes.Buffer
	logger := obslog.Setup("shparse", "v1.2.3", "json", &buf)

	logger.Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shparse", entry["service"])
	assert.Equal(t, "v1.2.3", entry["version"])
	assert.Equal(t, "hello", entry["msg"])
}

func TestParseIDRoundTrip(t *testing.T) {
	id := ulid.Make()
	ctx := obslog.WithParseID(context.Background(), id)

	got, ok := obslog.ParseIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = obslog.ParseIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestParseIDAppearsInRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := obslog.Setup("shparse", "dev", "json", &buf)

	id := ulid.Make()
	logger.InfoContext(obslog.WithParseID(context.Background(), id), "parsed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, id.String(), entry["parse_id"])
}

func TestTextFormatSelectsTextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := obslog.Setup("shparse", "dev", "text", &buf)

	logger.Info("plain")

	assert.Contains(t, buf.String(), "msg=plain")
	assert.NotContains(t, buf.String(), `{"`)
}
