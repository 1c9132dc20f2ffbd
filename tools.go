// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

//go:build tools
// +build tools

// Package main pins test-framework dependencies into go.mod so they
// survive `go mod tidy` even when only _test.go files import them.
// See https://go.dev/wiki/Modules#how-can-i-track-tool-dependencies-for-a-module
package main

import (
	_ "github.com/onsi/ginkgo/v2"
	_ "github.com/onsi/gomega"
	_ "github.com/stretchr/testify/assert"
	_ "github.com/stretchr/testify/require"
)
