// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package builderplugin_test

import (
	"net/rpc"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucidshell/posixsh/builderplugin"
)

func TestRegisterConcreteTypesDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		builderplugin.RegisterConcreteTypes("", 0, stubBuilder{})
	})
}

func TestBuilderPluginServerWrapsImpl(t *testing.T) {
	p := &builderplugin.BuilderPlugin{Impl: stubBuilder{}}
	srv, err := p.Server(nil)
	require.NoError(t, err)
	assert.NotNil(t, srv)
}

func TestBuilderPluginClientWrapsRPCClient(t *testing.T) {
	p := &builderplugin.BuilderPlugin{}
	client, err := p.Client(nil, &rpc.Client{})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestHandshakeConfigIsPopulated(t *testing.T) {
	assert.NotEmpty(t, builderplugin.HandshakeConfig.MagicCookieKey)
	assert.NotEmpty(t, builderplugin.HandshakeConfig.MagicCookieValue)
	assert.NotZero(t, builderplugin.HandshakeConfig.ProtocolVersion)
}

func TestPluginMapRegistersBuilder(t *testing.T) {
	require.Contains(t, builderplugin.PluginMap, "builder")
}
