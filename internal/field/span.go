package field

import "github.com/krylo-hpc/krylo/internal/half"

// Span is a precision-converting element view over one field. Loads widen to
// complex128, stores narrow back to the field's storage precision. Exactly one
// of the backing slices is set; the nil checks make the precision a tagged
// variant rather than an interface, so element access never goes through an
// indirect call.
type Span struct {
	c128 []complex128
	c64  []complex64
	h    []half.Float16
}

// Span returns a precision-converting view over the field's elements.
func (f *Field) Span() Span {
	switch f.prec {
	case Double:
		return Span{c128: f.AsComplex128()}
	case Single:
		return Span{c64: f.AsComplex64()}
	default:
		return Span{h: f.AsHalf()}
	}
}

// Valid reports whether the span is backed by a field.
func (s Span) Valid() bool {
	return s.c128 != nil || s.c64 != nil || s.h != nil
}

// Len returns the number of complex elements.
func (s Span) Len() int {
	switch {
	case s.c128 != nil:
		return len(s.c128)
	case s.c64 != nil:
		return len(s.c64)
	default:
		return len(s.h) / 2
	}
}

// Load returns element i widened to complex128.
func (s Span) Load(i int) complex128 {
	switch {
	case s.c128 != nil:
		return s.c128[i]
	case s.c64 != nil:
		return complex128(s.c64[i])
	default:
		return complex(s.h[2*i].Float64(), s.h[2*i+1].Float64())
	}
}

// Store writes element i, narrowing to the span's storage precision.
func (s Span) Store(i int, v complex128) {
	switch {
	case s.c128 != nil:
		s.c128[i] = v
	case s.c64 != nil:
		s.c64[i] = complex64(v)
	default:
		s.h[2*i] = half.FromFloat64(real(v))
		s.h[2*i+1] = half.FromFloat64(imag(v))
	}
}
