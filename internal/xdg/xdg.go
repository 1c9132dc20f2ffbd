// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

// Package xdg provides the XDG Base Directory path shparse's config loader
// checks when no --config flag is given.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "shparse"

// ConfigDir returns the XDG config directory for shparse.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// ConfigFile returns the default config file path: ConfigDir()/config.yaml.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
