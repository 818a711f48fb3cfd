// Copyright 2025 The Krylo Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package reduce

import (
	"github.com/krylo-hpc/krylo/internal/reduce"
)

// Context owns the reduction buffers and completion machinery. All catalog
// operations are methods on Context.
type Context = reduce.Context

// Config carries the options a Context latches at construction.
type Config = reduce.Config

// CompletionMode selects how the host detects kernel completion.
type CompletionMode = reduce.CompletionMode

// Completion strategies.
const (
	EventWait = reduce.EventWait
	SpinWait  = reduce.SpinWait
)

// Telemetry counts the work routed through a Context.
type Telemetry = reduce.Telemetry

// Result tuple shapes. All reduction results are double precision.
type (
	Double2 = reduce.Double2
	Double3 = reduce.Double3
	Double4 = reduce.Double4
)

// MaxMultiN bounds the tile edge of matrix-shaped multi-reductions.
const MaxMultiN = reduce.MaxMultiN

// New allocates the reduction buffers and completion event for cfg and
// returns a live Context.
func New(cfg Config) *Context {
	return reduce.New(cfg)
}

// ConfigFromEnv resolves the environment toggle once and returns the
// resulting Config.
func ConfigFromEnv() Config {
	return reduce.ConfigFromEnv()
}
