// Copyright 2025 The Krylo Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package comm provides the process-group abstraction the reduction engine
// combines partial results over.
package comm

import (
	"github.com/krylo-hpc/krylo/internal/comm"
)

// Communicator sums reduction tuples across the ranks of a process group.
type Communicator = comm.Communicator

// Single is the single-process communicator; its combine is the identity.
type Single = comm.Single

// Ring is an in-process multi-rank communicator connected over channels,
// mainly for multi-rank testing inside one process.
type Ring = comm.Ring

// NewRing creates n connected ranks. Each returned communicator belongs to
// one goroutine.
func NewRing(n int) []*Ring {
	return comm.NewRing(n)
}
