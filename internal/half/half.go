// Package half implements IEEE 754 binary16 storage used by half-precision
// fields. Values are widened to float32/float64 before any arithmetic; the
// engine never computes in binary16 directly.
package half

import "math"

// Float16 is an IEEE 754 binary16 value in its raw bit representation.
type Float16 uint16

const (
	signMask     = 0x8000
	exponentMask = 0x7C00
	mantissaMask = 0x03FF
	mantissaBits = 10
	exponentBias = 15
)

// Float32 widens h to float32.
func (h Float16) Float32() float32 {
	sign := uint32(h&signMask) << 16
	exp := uint32(h&exponentMask) >> mantissaBits
	man := uint32(h & mantissaMask)

	switch {
	case exp == 0:
		if man == 0 {
			return math.Float32frombits(sign) // signed zero
		}
		// Subnormal: normalize into the float32 range.
		e := uint32(127 - exponentBias + 1)
		for man&0x400 == 0 {
			man <<= 1
			e--
		}
		man &= mantissaMask
		return math.Float32frombits(sign | e<<23 | man<<13)
	case exp == 0x1F:
		if man == 0 {
			return math.Float32frombits(sign | 0x7F800000) // infinity
		}
		return math.Float32frombits(sign | 0x7FC00000 | man<<13) // NaN
	}

	return math.Float32frombits(sign | (exp+127-exponentBias)<<23 | man<<13)
}

// Float64 widens h to float64.
func (h Float16) Float64() float64 {
	return float64(h.Float32())
}

// FromFloat32 narrows f to binary16 with round-to-nearest-even.
// Values beyond the binary16 range overflow to infinity.
func FromFloat32(f float32) Float16 {
	bits := math.Float32bits(f)
	sign := uint16(bits>>16) & signMask
	exp := int32(bits>>23) & 0xFF
	man := bits & 0x7FFFFF

	if exp == 0xFF {
		if man != 0 {
			return Float16(sign | exponentMask | 0x200 | uint16(man>>13)) // NaN, keep quiet bit
		}
		return Float16(sign | exponentMask) // infinity
	}

	e := exp - 127 + exponentBias
	switch {
	case e >= 0x1F:
		return Float16(sign | exponentMask) // overflow to infinity
	case e <= 0:
		// Subnormal target, or underflow to zero.
		if e < -10 {
			return Float16(sign)
		}
		man |= 0x800000 // restore the implicit bit
		shift := uint32(14 - e)
		h := uint16(man >> shift)
		rem := man & (1<<shift - 1)
		mid := uint32(1) << (shift - 1)
		if rem > mid || (rem == mid && h&1 == 1) {
			h++
		}
		return Float16(sign | h)
	}

	h := uint16(e)<<mantissaBits | uint16(man>>13)
	rem := man & 0x1FFF
	// Round to nearest even; a carry out of the mantissa rolls into the
	// exponent and, at the top of the range, into infinity, which is the
	// correct saturation behavior.
	if rem > 0x1000 || (rem == 0x1000 && h&1 == 1) {
		h++
	}
	return Float16(sign | h)
}

// FromFloat64 narrows v to binary16 via float32.
func FromFloat64(v float64) Float16 {
	return FromFloat32(float32(v))
}
