// Package field provides the numeric array handles the reduction engine
// operates on. A Field is an opaque view over a contiguous buffer of complex
// elements together with the metadata the engine needs: precision, length,
// stride, site structure and residency.
package field

import (
	"fmt"
	"unsafe"

	"github.com/krylo-hpc/krylo/internal/half"
)

// Precision enumerates the numeric storage precisions a field can carry.
type Precision int

// Supported storage precisions.
const (
	Half Precision = iota
	Single
	Double
)

// Size returns the byte size of one complex element at this precision.
func (p Precision) Size() int {
	switch p {
	case Half:
		return 4
	case Single:
		return 8
	case Double:
		return 16
	default:
		panic("unknown precision")
	}
}

// String returns a human-readable name for the precision.
func (p Precision) String() string {
	switch p {
	case Half:
		return "half"
	case Single:
		return "single"
	case Double:
		return "double"
	default:
		return "unknown"
	}
}

// Subset describes the parity structure of a field.
type Subset int

// Supported site subsets.
const (
	FullSite Subset = iota
	EvenSite
	OddSite
)

// String returns a human-readable name for the subset.
func (s Subset) String() string {
	switch s {
	case FullSite:
		return "full"
	case EvenSite:
		return "even"
	case OddSite:
		return "odd"
	default:
		return "unknown"
	}
}

// Location tags where a field's buffer lives.
type Location int

// Supported residencies.
const (
	OnHost Location = iota
	OnDevice
)

// Field is an opaque handle to a numeric array with precision, stride and
// site-structure metadata. The buffer holds length complex elements stored
// at the field's precision.
type Field struct {
	buffer []byte
	length int // complex elements
	stride int
	prec   Precision
	subset Subset
	spins  int
	colors int
	loc    Location
}

// New creates a field of length complex elements with no site structure
// (one component per site). Memory is zero-initialized.
func New(length, stride int, prec Precision) (*Field, error) {
	return NewSpinor(length, stride, prec, 1, 1)
}

// NewSpinor creates a field of length complex elements structured as sites of
// spins x colors components. length must be a multiple of spins*colors.
func NewSpinor(length, stride int, prec Precision, spins, colors int) (*Field, error) {
	if length <= 0 {
		return nil, fmt.Errorf("field: invalid length %d", length)
	}
	if stride <= 0 {
		return nil, fmt.Errorf("field: invalid stride %d", stride)
	}
	if spins <= 0 || colors <= 0 {
		return nil, fmt.Errorf("field: invalid site structure %dx%d", spins, colors)
	}
	if length%(spins*colors) != 0 {
		return nil, fmt.Errorf("field: length %d not a multiple of %d components", length, spins*colors)
	}
	return &Field{
		buffer: make([]byte, length*prec.Size()),
		length: length,
		stride: stride,
		prec:   prec,
		subset: FullSite,
		spins:  spins,
		colors: colors,
		loc:    OnDevice,
	}, nil
}

// FromComplex creates a field holding the given values at the requested
// precision. Narrowing to single or half precision rounds each component.
func FromComplex(vals []complex128, prec Precision) (*Field, error) {
	f, err := New(len(vals), len(vals), prec)
	if err != nil {
		return nil, err
	}
	s := f.Span()
	for i, v := range vals {
		s.Store(i, v)
	}
	return f, nil
}

// Length returns the number of complex elements.
func (f *Field) Length() int { return f.length }

// Stride returns the storage stride.
func (f *Field) Stride() int { return f.stride }

// Precision returns the storage precision.
func (f *Field) Precision() Precision { return f.prec }

// SiteSubset returns the parity structure.
func (f *Field) SiteSubset() Subset { return f.subset }

// SetSiteSubset sets the parity structure tag.
func (f *Field) SetSiteSubset(s Subset) { f.subset = s }

// Spins returns the spin dimension of a site.
func (f *Field) Spins() int { return f.spins }

// Colors returns the color dimension of a site.
func (f *Field) Colors() int { return f.colors }

// Components returns the number of complex elements per site.
func (f *Field) Components() int { return f.spins * f.colors }

// Volume returns the number of sites.
func (f *Field) Volume() int { return f.length / f.Components() }

// Location returns where the buffer lives.
func (f *Field) Location() Location { return f.loc }

// ByteSize returns the total buffer size in bytes.
func (f *Field) ByteSize() int { return len(f.buffer) }

// AsComplex128 interprets the buffer as []complex128.
// Panics if the field's precision is not Double.
func (f *Field) AsComplex128() []complex128 {
	if f.prec != Double {
		panic(fmt.Sprintf("field: precision is %s, not double", f.prec))
	}
	return unsafe.Slice((*complex128)(unsafe.Pointer(&f.buffer[0])), f.length)
}

// AsComplex64 interprets the buffer as []complex64.
// Panics if the field's precision is not Single.
func (f *Field) AsComplex64() []complex64 {
	if f.prec != Single {
		panic(fmt.Sprintf("field: precision is %s, not single", f.prec))
	}
	return unsafe.Slice((*complex64)(unsafe.Pointer(&f.buffer[0])), f.length)
}

// AsHalf interprets the buffer as interleaved re,im binary16 pairs.
// Panics if the field's precision is not Half.
func (f *Field) AsHalf() []half.Float16 {
	if f.prec != Half {
		panic(fmt.Sprintf("field: precision is %s, not half", f.prec))
	}
	return unsafe.Slice((*half.Float16)(unsafe.Pointer(&f.buffer[0])), 2*f.length)
}

// Export copies the field contents out as complex128 values.
func (f *Field) Export() []complex128 {
	s := f.Span()
	out := make([]complex128, f.length)
	for i := range out {
		out[i] = s.Load(i)
	}
	return out
}

// Set stores one element, narrowing to the field's precision.
func (f *Field) Set(i int, v complex128) { f.Span().Store(i, v) }

// At loads one element widened to complex128.
func (f *Field) At(i int) complex128 { return f.Span().Load(i) }

// CheckCompatible verifies that two fields may enter the same fused call.
// Precision, length and stride must all match exactly; a mismatch is a caller
// bug and aborts with the offending values.
func CheckCompatible(a, b *Field) {
	if a.prec != b.prec {
		panic(fmt.Sprintf("field: precision mismatch (%s != %s)", a.prec, b.prec))
	}
	CheckShape(a, b)
}

// CheckShape verifies length and stride equality only. Mixed-precision fused
// calls use this check, since their operands differ in precision by design.
func CheckShape(a, b *Field) {
	if a.length != b.length {
		panic(fmt.Sprintf("field: length mismatch (%d != %d)", a.length, b.length))
	}
	if a.stride != b.stride {
		panic(fmt.Sprintf("field: stride mismatch (%d != %d)", a.stride, b.stride))
	}
}
