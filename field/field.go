// Copyright 2025 The Krylo Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package field provides the vector fields the reduction engine operates on:
// flat arrays of complex elements at half, single or double storage
// precision, optionally structured into sites of spin x color components.
package field

import (
	"github.com/krylo-hpc/krylo/internal/field"
)

// Precision selects the storage precision of a field's elements.
type Precision = field.Precision

// Supported storage precisions.
const (
	Half   = field.Half
	Single = field.Single
	Double = field.Double
)

// Subset describes which site parity a field covers.
type Subset = field.Subset

// Site subsets.
const (
	FullSite = field.FullSite
	EvenSite = field.EvenSite
	OddSite  = field.OddSite
)

// Field is a vector of complex elements with a storage precision and an
// optional site structure.
type Field = field.Field

// Span is a precision-erased element accessor over a field's storage.
type Span = field.Span

// New creates a zero-initialized field of length complex elements with no
// site structure.
func New(length, stride int, prec Precision) (*Field, error) {
	return field.New(length, stride, prec)
}

// NewSpinor creates a zero-initialized field structured as sites of
// spins x colors components. length must be a multiple of spins*colors.
//
// Example:
//
//	// 16 sites of a 4-spin, 3-color spinor field at single precision.
//	f, err := field.NewSpinor(16*12, 16*12, field.Single, 4, 3)
func NewSpinor(length, stride int, prec Precision, spins, colors int) (*Field, error) {
	return field.NewSpinor(length, stride, prec, spins, colors)
}

// FromComplex creates a field holding the given values at the requested
// precision. Narrowing rounds each component.
func FromComplex(vals []complex128, prec Precision) (*Field, error) {
	return field.FromComplex(vals, prec)
}
