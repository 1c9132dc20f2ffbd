// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package builderplugin

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	hashiplug "github.com/hashicorp/go-plugin"
	"github.com/sethvargo/go-retry"

	"github.com/lucidshell/posixsh/builder"
)

// Sentinel errors for programmatic error checking.
var (
	// ErrHostClosed is returned when operations are attempted on a closed host.
	ErrHostClosed = errors.New("builderplugin: host is closed")
	// ErrNotLoaded is returned when operating on a builder plugin that isn't loaded.
	ErrNotLoaded = errors.New("builderplugin: not loaded")
	// ErrAlreadyLoaded is returned when loading a builder plugin that's already loaded.
	ErrAlreadyLoaded = errors.New("builderplugin: already loaded")
)

// PluginClient wraps a go-plugin client for testability.
type PluginClient interface {
	Client() (hashiplug.ClientProtocol, error)
	Kill()
}

// ClientFactory creates plugin clients.
type ClientFactory interface {
	NewClient(execPath string) PluginClient
}

// DefaultClientFactory creates real go-plugin clients over net/rpc.
type DefaultClientFactory struct{}

// NewClient creates a real go-plugin client.
func (f *DefaultClientFactory) NewClient(execPath string) PluginClient {
	return hashiplug.NewClient(&hashiplug.ClientConfig{
		HandshakeConfig:  HandshakeConfig,
		Plugins:          PluginMap,
		Cmd:              exec.Command(execPath), // #nosec G204 -- execPath is supplied by the caller of Load, not external input
		AllowedProtocols: []hashiplug.Protocol{hashiplug.ProtocolNetRPC},
		StartTimeout:     DefaultStartTimeout,
	})
}

// loaded holds state for one dispensed builder plugin.
type loaded struct {
	client PluginClient
	b      builder.Builder
}

// Host loads at most one external builder.Builder implementation per name
// and dispenses it for the parser to drive. Unlike a long-lived event host,
// a builder plugin is loaded once per parse invocation and is stateless
// between calls, so Host carries no capability enforcement.
type Host struct {
	clientFactory ClientFactory
	plugins       map[string]*loaded
	mu            sync.RWMutex
	closed        bool
}

// NewHost creates a builder plugin host using real go-plugin clients.
func NewHost() *Host {
	return &Host{
		clientFactory: &DefaultClientFactory{},
		plugins:       make(map[string]*loaded),
	}
}

// NewHostWithFactory creates a host with a custom client factory (for testing).
func NewHostWithFactory(factory ClientFactory) *Host {
	if factory == nil {
		panic("builderplugin: factory cannot be nil")
	}
	return &Host{
		clientFactory: factory,
		plugins:       make(map[string]*loaded),
	}
}

// Load launches the plugin binary at execPath and dispenses its Builder
// under name.
func (h *Host) Load(name, execPath string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}
	if _, ok := h.plugins[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyLoaded, name)
	}

	client := h.clientFactory.NewClient(execPath)

	// The handshake can fail transiently while the plugin subprocess is
	// still starting up, so it gets a short exponential backoff before
	// Load gives up. Backoffs are stateful, so build a new one per call.
	var rpcClient hashiplug.ClientProtocol
	backoff := retry.WithMaxRetries(3, retry.NewExponential(50*time.Millisecond))
	err := retry.Do(context.Background(), backoff, func(context.Context) error {
		c, cerr := client.Client()
		if cerr != nil {
			return retry.RetryableError(cerr)
		}
		rpcClient = c
		return nil
	})
	if err != nil {
		client.Kill()
		return fmt.Errorf("builderplugin: connect to %s: %w", name, err)
	}

	raw, err := rpcClient.Dispense("builder")
	if err != nil {
		client.Kill()
		return fmt.Errorf("builderplugin: dispense %s: %w", name, err)
	}

	b, ok := raw.(builder.Builder)
	if !ok {
		client.Kill()
		return fmt.Errorf("builderplugin: %s does not implement builder.Builder", name)
	}

	h.plugins[name] = &loaded{client: client, b: b}
	return nil
}

// Unload terminates a loaded plugin's process.
func (h *Host) Unload(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}
	p, ok := h.plugins[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotLoaded, name)
	}
	p.client.Kill()
	delete(h.plugins, name)
	return nil
}

// Builder returns the dispensed builder.Builder for a loaded plugin, ready
// for the parser to drive directly.
func (h *Host) Builder(name string) (builder.Builder, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil, ErrHostClosed
	}
	p, ok := h.plugins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, name)
	}
	return p.b, nil
}

// Plugins returns the names of all loaded builder plugins.
func (h *Host) Plugins() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}
	names := make([]string, 0, len(h.plugins))
	for name := range h.plugins {
		names = append(names, name)
	}
	return names
}

// Close kills every loaded plugin process.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, p := range h.plugins {
		p.client.Kill()
	}
	h.closed = true
	clear(h.plugins)
	return nil
}
