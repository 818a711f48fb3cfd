package reduce

import (
	"github.com/krylo-hpc/krylo/internal/field"
)

// The operations below are the public surface of the catalog. Every one
// validates its operands before dispatch; a mismatch is a caller bug and
// aborts before any kernel work is wasted on a doomed call.

// Norm1 returns sum_i |x_i|, summed across all participating processes.
func (c *Context) Norm1(x *field.Field) float64 {
	return launch[float64](c, norm1F{}, writeMask{}, uniform(x))
}

// Norm2 returns sum_i |x_i|^2, summed across all participating processes.
func (c *Context) Norm2(x *field.Field) float64 {
	return launch[float64](c, norm2F{}, writeMask{}, uniform(x))
}

// ReDotProduct returns sum_i Re(conj(x_i) y_i).
func (c *Context) ReDotProduct(x, y *field.Field) float64 {
	field.CheckCompatible(x, y)
	return launch[float64](c, reDotF{}, writeMask{}, uniform(x, y))
}

// CDotProduct returns the complex inner product sum_i conj(x_i) y_i.
func (c *Context) CDotProduct(x, y *field.Field) complex128 {
	field.CheckCompatible(x, y)
	return launch[complex128](c, cDotF{}, writeMask{}, uniform(x, y))
}

// AxpbyzNorm computes z = a x + b y and returns |z|^2.
func (c *Context) AxpbyzNorm(a float64, x *field.Field, b float64, y, z *field.Field) float64 {
	field.CheckCompatible(x, y)
	field.CheckCompatible(x, z)
	return launch[float64](c, axpbyzNormF{a: a, b: b}, writeMask{Z: true}, uniform(x, y, z))
}

// AxpyReDot computes y += a x and returns Re(conj(x) y) of the updated y.
func (c *Context) AxpyReDot(a float64, x, y *field.Field) float64 {
	field.CheckCompatible(x, y)
	return launch[float64](c, axpyReDotF{a: a}, writeMask{Y: true}, uniform(x, y))
}

// CaxpyNorm computes y += a x for complex a and returns |y|^2.
func (c *Context) CaxpyNorm(a complex128, x, y *field.Field) float64 {
	field.CheckCompatible(x, y)
	return launch[float64](c, caxpyNormF{a: a}, writeMask{Y: true}, uniform(x, y))
}

// CaxpyXmazNormX computes y += a x, x -= a z, and returns |x|^2 of the
// updated x.
func (c *Context) CaxpyXmazNormX(a complex128, x, y, z *field.Field) float64 {
	field.CheckCompatible(x, y)
	field.CheckCompatible(x, z)
	return launch[float64](c, caxpyXmazNormXF{a: a}, writeMask{X: true, Y: true}, uniform(x, y, z))
}

// CabxpyzAxNorm computes x *= a, y += b x, z = y and returns |z|^2.
func (c *Context) CabxpyzAxNorm(a float64, b complex128, x, y, z *field.Field) float64 {
	field.CheckCompatible(x, y)
	field.CheckCompatible(x, z)
	return launch[float64](c, cabxpyzAxNormF{a: a, b: b}, writeMask{X: true, Y: true, Z: true}, uniform(x, y, z))
}

// CaxpyDotzy computes y += a x and returns the complex sum_i conj(z_i) y_i
// of the updated y.
func (c *Context) CaxpyDotzy(a complex128, x, y, z *field.Field) complex128 {
	field.CheckCompatible(x, y)
	field.CheckCompatible(x, z)
	return launch[complex128](c, caxpyDotzyF{a: a}, writeMask{Y: true}, uniform(x, y, z))
}

// CDotProductNormA returns {Re conj(x) y, Im conj(x) y, |x|^2}.
func (c *Context) CDotProductNormA(x, y *field.Field) Double3 {
	field.CheckCompatible(x, y)
	return launch[Double3](c, cDotProductNormAF{}, writeMask{}, uniform(x, y))
}

// CDotProductNormB returns {Re conj(x) y, Im conj(x) y, |y|^2}.
func (c *Context) CDotProductNormB(x, y *field.Field) Double3 {
	field.CheckCompatible(x, y)
	return launch[Double3](c, cDotProductNormBF{}, writeMask{}, uniform(x, y))
}

// CaxpbypzYmbwCDotProductUYNormY computes z += a x + b y, y -= b w, and
// returns {Re conj(u) y, Im conj(u) y, |y|^2} of the updated y. When the
// precision of z differs from the precision of x the mixed-precision variant
// is selected: z and u are read and written through precision-converting
// accessors while x, y and w share the primary precision.
func (c *Context) CaxpbypzYmbwCDotProductUYNormY(a complex128, x *field.Field, b complex128, y, z, w, u *field.Field) Double3 {
	field.CheckCompatible(x, y)
	field.CheckCompatible(x, w)
	f := caxpbypzYmbwcDotProductUYNormYF{a: a, b: b}
	wm := writeMask{Y: true, Z: true}
	if x.Precision() != z.Precision() {
		op := mixed(x, []*field.Field{x, y, z, w, u}, z, u)
		return launch[Double3](c, f, wm, op)
	}
	field.CheckCompatible(x, z)
	field.CheckCompatible(x, u)
	return launch[Double3](c, f, wm, uniform(x, y, z, w, u))
}

// AxpyCGNorm computes y += a x and returns {|y'|^2, Re conj(y') (y' - y)}
// for the updated y'. When x and y differ in precision the mixed-precision
// variant is selected.
func (c *Context) AxpyCGNorm(a float64, x, y *field.Field) Double2 {
	f := axpyCGNormF{a: a}
	wm := writeMask{Y: true}
	if x.Precision() != y.Precision() {
		op := mixed(y, []*field.Field{x, y}, x)
		return launch[Double2](c, f, wm, op)
	}
	field.CheckCompatible(x, y)
	return launch[Double2](c, f, wm, uniform(x, y))
}

// HeavyQuarkResidualNorm returns {|x|^2, |r|^2, sum of per-site heavy-quark
// ratios / (volume x processes)} for solution x and residual r. The ratio is
// derived only after the distributed combine.
//
// The computation is defined only for three-color fields; on any other
// structure the all-zero triple is returned and callers must treat it as
// "not applicable", not as a computed zero.
func (c *Context) HeavyQuarkResidualNorm(x, r *field.Field) Double3 {
	if x.Colors() != 3 {
		return Double3{}
	}
	field.CheckCompatible(x, r)
	op := uniform(x, r)
	op.siteElems = x.Components()
	s := launch[Double3](c, &heavyQuarkResidualNormF{}, writeMask{}, op)
	s[2] /= float64(x.Volume() * c.comm.Size())
	return s
}

// XpyHeavyQuarkResidualNorm is HeavyQuarkResidualNorm on the combined
// solution x+y (y is updated to the sum) with residual r. The same
// three-color precondition and zero-triple policy apply.
func (c *Context) XpyHeavyQuarkResidualNorm(x, y, r *field.Field) Double3 {
	if x.Colors() != 3 {
		return Double3{}
	}
	field.CheckCompatible(x, y)
	field.CheckCompatible(x, r)
	op := uniform(x, y, r)
	op.siteElems = x.Components()
	s := launch[Double3](c, &xpyHeavyQuarkResidualNormF{}, writeMask{Y: true}, op)
	s[2] /= float64(x.Volume() * c.comm.Size())
	return s
}

// TripleCGReduction returns {|x|^2, |y|^2, Re conj(y) z} in one fused pass.
func (c *Context) TripleCGReduction(x, y, z *field.Field) Double3 {
	field.CheckCompatible(x, y)
	field.CheckCompatible(x, z)
	return launch[Double3](c, tripleCGReductionF{}, writeMask{}, uniform(x, y, z))
}

// QuadrupleCGReduction returns {|x|^2, |y|^2, Re conj(y) z, |w|^2} in one
// fused pass.
func (c *Context) QuadrupleCGReduction(x, y, z, w *field.Field) Double4 {
	field.CheckCompatible(x, y)
	field.CheckCompatible(x, z)
	field.CheckCompatible(x, w)
	return launch[Double4](c, quadrupleCGReductionF{}, writeMask{}, uniform(x, y, z, w))
}

// QuadrupleCG3InitNorm seeds the three-term CG recurrence (z = x, w = y,
// x += a v, y -= a v) and returns |y|^2 of the new residual.
func (c *Context) QuadrupleCG3InitNorm(a float64, x, y, z, w, v *field.Field) float64 {
	for _, f := range []*field.Field{y, z, w, v} {
		field.CheckCompatible(x, f)
	}
	return launch[float64](c, quadrupleCG3InitNormF{a: a},
		writeMask{X: true, Y: true, Z: true, W: true}, uniform(x, y, z, w, v))
}

// QuadrupleCG3UpdateNorm advances the three-term CG recurrence by the
// rotation b (x +- a v) + (1-b) {z,w}, saving the previous iterates, and
// returns |y|^2 of the new residual.
func (c *Context) QuadrupleCG3UpdateNorm(a, b float64, x, y, z, w, v *field.Field) float64 {
	for _, f := range []*field.Field{y, z, w, v} {
		field.CheckCompatible(x, f)
	}
	return launch[float64](c, quadrupleCG3UpdateNormF{a: a, b: b},
		writeMask{X: true, Y: true, Z: true, W: true}, uniform(x, y, z, w, v))
}

// DoubleCG3InitNorm seeds the two-field CG recurrence (y = x, x -= a z) and
// returns |x|^2 of the new iterate.
func (c *Context) DoubleCG3InitNorm(a float64, x, y, z *field.Field) float64 {
	field.CheckCompatible(x, y)
	field.CheckCompatible(x, z)
	return launch[float64](c, doubleCG3InitNormF{a: a}, writeMask{X: true, Y: true}, uniform(x, y, z))
}

// DoubleCG3UpdateNorm advances the two-field CG recurrence
// (x = b (x - a z) + (1-b) y, old x saved in y) and returns |x|^2 of the new
// iterate.
func (c *Context) DoubleCG3UpdateNorm(a, b float64, x, y, z *field.Field) float64 {
	field.CheckCompatible(x, y)
	field.CheckCompatible(x, z)
	return launch[float64](c, doubleCG3UpdateNormF{a: a, b: b}, writeMask{X: true, Y: true}, uniform(x, y, z))
}

// mixed builds the operand set of a mixed-precision launch. primary names
// the operand whose precision labels the launch; every field in fs enters
// its slot in order; aux lists the fields allowed to differ from the primary
// precision; any other divergence is an unsupported combination. The
// higher-precision auxiliaries must not be narrower than the primary, since
// the auxiliary operands carry the correction terms.
func mixed(primary *field.Field, fs []*field.Field, aux ...*field.Field) operands {
	allowed := make(map[*field.Field]bool, len(aux))
	for _, f := range aux {
		allowed[f] = true
	}
	for _, f := range fs {
		field.CheckShape(primary, f)
		if f.Precision() == primary.Precision() {
			continue
		}
		if !allowed[f] {
			precisionPanic("mixed", "operand precision "+f.Precision().String()+
				" does not match primary "+primary.Precision().String())
		}
		if f.Precision() < primary.Precision() {
			precisionPanic("mixed", "auxiliary precision "+f.Precision().String()+
				" narrower than primary "+primary.Precision().String())
		}
	}

	op := operands{n: primary.Length(), siteElems: 1, elemBytes: primary.Precision().Size()}
	op.aux = "prec=" + primary.Precision().String() + ",mixed"
	spans := []*field.Span{&op.x, &op.y, &op.z, &op.w, &op.v}
	for i, f := range fs {
		*spans[i] = f.Span()
	}
	return op
}
