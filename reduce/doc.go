// Copyright 2025 The Krylo Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package reduce provides the fused vector-algebra reduction engine for
// Krylov-space solvers.
//
// # Overview
//
// This package contains:
//   - Context: the owner of the shared reduction buffers, completion event
//     and completion strategy
//   - A catalog of fused update-plus-reduction operations (norms, dot
//     products, CG and CG3 recurrences, heavy-quark residual norms)
//   - Config and ConfigFromEnv for selecting the completion strategy
//
// Every operation performs its elementwise vector update and its global
// reduction in a single pass over the operands, returning double-precision
// results regardless of the storage precision of the fields.
//
// # Basic Usage
//
//	import (
//	    "github.com/krylo-hpc/krylo/field"
//	    "github.com/krylo-hpc/krylo/reduce"
//	)
//
//	func main() {
//	    ctx := reduce.New(reduce.ConfigFromEnv())
//	    defer ctx.Close()
//
//	    x, _ := field.New(1<<20, 1<<20, field.Double)
//	    y, _ := field.New(1<<20, 1<<20, field.Double)
//
//	    // y += 2x and |y|^2, fused in one pass.
//	    n2 := ctx.CaxpyNorm(2, x, y)
//	    _ = n2
//	}
//
// Calls on one Context must be serialized; independent Contexts are fully
// independent. Results are combined across all ranks of the configured
// communicator before they are returned, so every rank observes the global
// value.
package reduce
