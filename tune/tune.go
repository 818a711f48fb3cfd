// Copyright 2025 The Krylo Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tune exposes the launch-geometry contract between the reduction
// engine and an autotuner. The engine registers a key describing each launch
// and accepts whatever geometry the tuner returns.
package tune

import (
	"github.com/krylo-hpc/krylo/internal/device"
	"github.com/krylo-hpc/krylo/internal/tune"
)

// Key identifies a tunable launch.
type Key = tune.Key

// Params is the launch geometry returned by a tuner.
type Params = tune.Params

// Tuner maps launch keys to launch geometry.
type Tuner = tune.Tuner

// Heuristic is a non-searching tuner sized from the device capability report.
type Heuristic = tune.Heuristic

// Cache memoizes another tuner so repeated signatures receive a stable
// geometry.
type Cache = tune.Cache

// NewHeuristic creates a heuristic tuner for the device.
func NewHeuristic(dev *device.Device) *Heuristic {
	return tune.NewHeuristic(dev)
}

// NewCache creates a memoizing wrapper around next.
func NewCache(next Tuner) *Cache {
	return tune.NewCache(next)
}
