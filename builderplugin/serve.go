// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package builderplugin

import (
	goplugin "github.com/hashicorp/go-plugin"
	"github.com/lucidshell/posixsh/builder"
)

// Serve blocks, running b as a builder plugin subprocess speaking the
// net/rpc protocol in HandshakeConfig. A plugin binary's main calls this
// with its concrete builder.Builder implementation and nothing else.
func Serve(b builder.Builder) {
	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins: map[string]goplugin.Plugin{
			"builder": &BuilderPlugin{Impl: b},
		},
	})
}
