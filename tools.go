//go:build tools

// Package tools pins tool dependencies, such as mockgen used by go generate,
// so they are tracked in go.mod.
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
