package reduce

// Double2, Double3 and Double4 are the tuple shapes a reduction can produce
// beyond plain scalars. All results are double precision regardless of the
// operand storage precision.
type (
	// Double2 is a 2-wide reduction result.
	Double2 [2]float64
	// Double3 is a 3-wide reduction result.
	Double3 [3]float64
	// Double4 is a 4-wide reduction result.
	Double4 [4]float64
)

// Accumulator constrains the internal accumulator shapes of the catalog.
// The set is closed; the dispatcher is instantiated once per shape.
type Accumulator interface {
	float64 | complex128 | Double2 | Double3 | Double4
}

// tupleWords is the partial-sum slot stride in float64 words. Every block
// partial occupies one slot of this width regardless of its shape, keeping
// block writes non-conflicting for all accumulator shapes.
const tupleWords = 4

// addAcc folds b into a. Used between thread partials and block partials,
// outside the per-element loop.
func addAcc[S Accumulator](a, b S) S {
	switch x := any(&a).(type) {
	case *float64:
		*x += any(b).(float64)
	case *complex128:
		*x += any(b).(complex128)
	case *Double2:
		y := any(b).(Double2)
		x[0] += y[0]
		x[1] += y[1]
	case *Double3:
		y := any(b).(Double3)
		x[0] += y[0]
		x[1] += y[1]
		x[2] += y[2]
	case *Double4:
		y := any(b).(Double4)
		x[0] += y[0]
		x[1] += y[1]
		x[2] += y[2]
		x[3] += y[3]
	}
	return a
}

// accWords returns the number of float64 words the shape occupies when
// packed into a reduction buffer.
func accWords[S Accumulator]() int {
	var z S
	switch any(z).(type) {
	case float64:
		return 1
	case complex128, Double2:
		return 2
	case Double3:
		return 3
	default:
		return 4
	}
}

// packAcc writes v into dst as float64 words.
func packAcc[S Accumulator](dst []float64, v S) {
	switch x := any(v).(type) {
	case float64:
		dst[0] = x
	case complex128:
		dst[0] = real(x)
		dst[1] = imag(x)
	case Double2:
		dst[0] = x[0]
		dst[1] = x[1]
	case Double3:
		dst[0] = x[0]
		dst[1] = x[1]
		dst[2] = x[2]
	case Double4:
		dst[0] = x[0]
		dst[1] = x[1]
		dst[2] = x[2]
		dst[3] = x[3]
	}
}

// unpackAcc reads a shape back out of float64 words.
func unpackAcc[S Accumulator](src []float64) S {
	var v S
	switch x := any(&v).(type) {
	case *float64:
		*x = src[0]
	case *complex128:
		*x = complex(src[0], src[1])
	case *Double2:
		x[0] = src[0]
		x[1] = src[1]
	case *Double3:
		x[0] = src[0]
		x[1] = src[1]
		x[2] = src[2]
	case *Double4:
		x[0] = src[0]
		x[1] = src[1]
		x[2] = src[2]
		x[3] = src[3]
	}
	return v
}
