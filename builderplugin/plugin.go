// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

// Package builderplugin lets a builder.Builder implementation live in a
// separate process, loaded over HashiCorp's go-plugin net/rpc transport.
// The Builder capability bundle is small enough to expose directly as a
// net/rpc service, so no gRPC/protobuf code generation is required.
package builderplugin

import (
	"encoding/gob"
	"net/rpc"
	"time"

	goplugin "github.com/hashicorp/go-plugin"
)

// HandshakeConfig is shared by host and plugin to guard against loading an
// incompatible binary. Do not define a second copy: host and plugin must
// agree exactly.
var HandshakeConfig = goplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "POSIXSH_BUILDER_PLUGIN",
	MagicCookieValue: "a1f6f0d4-builder",
}

// PluginMap is the map of plugins dispensable over this protocol.
var PluginMap = map[string]goplugin.Plugin{
	"builder": &BuilderPlugin{},
}

// DefaultStartTimeout bounds how long the host waits for a plugin
// subprocess to complete its handshake.
const DefaultStartTimeout = 10 * time.Second

// RegisterConcreteTypes registers a plugin's concrete node types with
// encoding/gob, which net/rpc uses on the wire. Word, CommandList, and the
// other Builder handles are any, so every concrete type a plugin's Builder
// returns from its methods must be registered here (on both sides of the
// connection) before the first call, or gob rejects the value at encode
// time. Call once from the plugin binary's main and from the host process
// before Load, passing zero values of every type the plugin's builder.Word
// / Redirect / Command / ... implementations produce.
func RegisterConcreteTypes(types ...any) {
	for _, t := range types {
		gob.Register(t)
	}
}

// BuilderPlugin implements go-plugin's net/rpc Plugin interface. The host
// side only ever calls Client; the plugin side only ever calls Server
// (via Serve).
type BuilderPlugin struct {
	// Impl is set on the plugin side before calling Serve; nil on the
	// host side, where only Client is used.
	Impl BuilderRPC
}

var _ goplugin.Plugin = (*BuilderPlugin)(nil)

// Server returns the RPC server wrapping Impl, called by go-plugin on the
// plugin side.
func (p *BuilderPlugin) Server(*goplugin.MuxBroker) (interface{}, error) {
	return &builderRPCServer{impl: p.Impl}, nil
}

// Client returns an RPC client, called by go-plugin on the host side.
func (p *BuilderPlugin) Client(_ *goplugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &builderRPCClient{client: c}, nil
}
