// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package builderplugin_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hashiplug "github.com/hashicorp/go-plugin"
	"github.com/lucidshell/posixsh/builder"
	"github.com/lucidshell/posixsh/builderplugin"
	"github.com/lucidshell/posixsh/token"
)

// stubBuilder is a minimal builder.Builder used only to satisfy the type
// assertion Host.Load performs against whatever Dispense returns.
type stubBuilder struct{}

func (stubBuilder) Word(token.SourcePos, builder.WordFragment) (builder.Word, error) {
	return nil, nil
}
func (stubBuilder) Redirect(token.SourcePos, builder.RedirectSpec) (builder.Redirect, error) {
	return nil, nil
}
func (stubBuilder) SimpleCommand([]builder.EnvAssignment, []builder.Word, []builder.Redirect) (builder.PipeableCommand, error) {
	return nil, nil
}
func (stubBuilder) BraceGroup(builder.CommandList, []builder.Redirect) (builder.CompoundCommand, error) {
	return nil, nil
}
func (stubBuilder) Subshell(builder.CommandList, []builder.Redirect) (builder.CompoundCommand, error) {
	return nil, nil
}
func (stubBuilder) LoopCommand(builder.LoopKind, builder.GuardBodyPair, []builder.Redirect) (builder.CompoundCommand, error) {
	return nil, nil
}
func (stubBuilder) IfCommand([]builder.GuardBodyPair, *builder.CommandList, []builder.Redirect) (builder.CompoundCommand, error) {
	return nil, nil
}
func (stubBuilder) ForCommand(string, *[]builder.Word, builder.CommandList, []builder.Redirect) (builder.CompoundCommand, error) {
	return nil, nil
}
func (stubBuilder) CaseCommand(builder.Word, []builder.CaseArm, []builder.Redirect) (builder.CompoundCommand, error) {
	return nil, nil
}
func (stubBuilder) CompoundCommandAsPipeable(builder.CompoundCommand) (builder.PipeableCommand, error) {
	return nil, nil
}
func (stubBuilder) FunctionDeclaration(string, []string, builder.Command) (builder.PipeableCommand, error) {
	return nil, nil
}
func (stubBuilder) Pipeline(bool, []builder.PipelineElem) (builder.ListableCommand, error) {
	return nil, nil
}
func (stubBuilder) AndOrList(builder.ListableCommand, []builder.AndOrNext) (builder.CommandList, error) {
	return nil, nil
}
func (stubBuilder) CompleteCommand([]string, builder.CommandList, builder.SeparatorKind, string) (builder.Command, error) {
	return nil, nil
}
func (stubBuilder) Comments([]string) (builder.Command, error) {
	return nil, nil
}

var _ builder.Builder = stubBuilder{}

// mockClientProtocol implements hashiplug.ClientProtocol for testing.
type mockClientProtocol struct {
	dispensed   interface{}
	dispenseErr error
}

func (m *mockClientProtocol) Close() error { return nil }
func (m *mockClientProtocol) Dispense(_ string) (interface{}, error) {
	if m.dispenseErr != nil {
		return nil, m.dispenseErr
	}
	return m.dispensed, nil
}
func (m *mockClientProtocol) Ping() error { return nil }

// mockPluginClient implements builderplugin.PluginClient for testing.
type mockPluginClient struct {
	protocol  *mockClientProtocol
	clientErr error
	killed    bool
}

func (m *mockPluginClient) Client() (hashiplug.ClientProtocol, error) {
	if m.clientErr != nil {
		return nil, m.clientErr
	}
	return m.protocol, nil
}

func (m *mockPluginClient) Kill() {
	m.killed = true
}

// mockClientFactory hands out a fixed mock client regardless of exec path.
type mockClientFactory struct {
	client *mockPluginClient
}

func (f *mockClientFactory) NewClient(_ string) builderplugin.PluginClient {
	return f.client
}

func newMockHost(dispensed interface{}) (*builderplugin.Host, *mockPluginClient) {
	client := &mockPluginClient{protocol: &mockClientProtocol{dispensed: dispensed}}
	return builderplugin.NewHostWithFactory(&mockClientFactory{client: client}), client
}

func TestNewHostWithFactory_NilFactory(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic when factory is nil")
	}()
	builderplugin.NewHostWithFactory(nil)
}

func TestHostPlugins_Empty(t *testing.T) {
	h := builderplugin.NewHost()
	assert.Empty(t, h.Plugins())
}

func TestHostLoad_Unload_Plugins_Cycle(t *testing.T) {
	h, client := newMockHost(stubBuilder{})

	err := h.Load("sh", "/bin/fake-plugin")
	require.NoError(t, err)

	names := h.Plugins()
	require.Len(t, names, 1)
	assert.Equal(t, "sh", names[0])

	b, err := h.Builder("sh")
	require.NoError(t, err)
	assert.Equal(t, stubBuilder{}, b)

	err = h.Unload("sh")
	require.NoError(t, err)
	assert.Empty(t, h.Plugins())
	assert.True(t, client.killed, "Unload must kill the underlying client")
}

func TestHostLoad_DuplicateName(t *testing.T) {
	h, _ := newMockHost(stubBuilder{})

	require.NoError(t, h.Load("sh", "/bin/fake-plugin"))
	err := h.Load("sh", "/bin/fake-plugin")
	require.Error(t, err)
	assert.ErrorIs(t, err, builderplugin.ErrAlreadyLoaded)
}

// flakyPluginClient fails its first N handshakes before succeeding,
// exercising Load's backoff.
type flakyPluginClient struct {
	protocol *mockClientProtocol
	failures int
	attempts int
	killed   bool
}

func (m *flakyPluginClient) Client() (hashiplug.ClientProtocol, error) {
	m.attempts++
	if m.attempts <= m.failures {
		return nil, errors.New("handshake not ready")
	}
	return m.protocol, nil
}

func (m *flakyPluginClient) Kill() { m.killed = true }

type flakyClientFactory struct {
	client *flakyPluginClient
}

func (f *flakyClientFactory) NewClient(_ string) builderplugin.PluginClient {
	return f.client
}

func TestHostLoad_RetriesTransientHandshakeFailure(t *testing.T) {
	client := &flakyPluginClient{
		protocol: &mockClientProtocol{dispensed: stubBuilder{}},
		failures: 2,
	}
	h := builderplugin.NewHostWithFactory(&flakyClientFactory{client: client})

	require.NoError(t, h.Load("sh", "/bin/fake-plugin"))
	assert.Equal(t, 3, client.attempts, "two failed handshakes then one success")
	assert.False(t, client.killed)
}

func TestHostLoad_ClientError(t *testing.T) {
	client := &mockPluginClient{clientErr: errors.New("connection refused")}
	h := builderplugin.NewHostWithFactory(&mockClientFactory{client: client})

	err := h.Load("sh", "/bin/fake-plugin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect")
	assert.True(t, client.killed, "client must be killed after a connect failure")
}

func TestHostLoad_DispenseError(t *testing.T) {
	client := &mockPluginClient{protocol: &mockClientProtocol{dispenseErr: errors.New("dispense failed")}}
	h := builderplugin.NewHostWithFactory(&mockClientFactory{client: client})

	err := h.Load("sh", "/bin/fake-plugin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dispense")
	assert.True(t, client.killed)
}

func TestHostLoad_WrongDispenseType(t *testing.T) {
	h, client := newMockHost("not a builder")

	err := h.Load("sh", "/bin/fake-plugin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not implement builder.Builder")
	assert.True(t, client.killed)
}

func TestHostUnload_NotLoaded(t *testing.T) {
	h := builderplugin.NewHost()
	err := h.Unload("nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, builderplugin.ErrNotLoaded)
}

func TestHostBuilder_NotLoaded(t *testing.T) {
	h := builderplugin.NewHost()
	_, err := h.Builder("nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, builderplugin.ErrNotLoaded)
}

func TestHostClose_Idempotent(t *testing.T) {
	h := builderplugin.NewHost()
	assert.NoError(t, h.Close())
	assert.NoError(t, h.Close())
}

func TestHostClose_KillsPluginsAndPreventsFurtherOps(t *testing.T) {
	h, client := newMockHost(stubBuilder{})
	require.NoError(t, h.Load("sh", "/bin/fake-plugin"))

	require.NoError(t, h.Close())
	assert.True(t, client.killed)
	assert.Nil(t, h.Plugins())

	err := h.Load("other", "/bin/fake-plugin")
	require.Error(t, err)
	assert.ErrorIs(t, err, builderplugin.ErrHostClosed)

	err = h.Unload("sh")
	require.Error(t, err)
	assert.ErrorIs(t, err, builderplugin.ErrHostClosed)

	_, err = h.Builder("sh")
	require.Error(t, err)
	assert.ErrorIs(t, err, builderplugin.ErrHostClosed)
}
