package reduce

import "math"

// Functor is the contract every catalog algorithm satisfies. S is the
// accumulator shape; F is the concrete functor type itself, so the dispatcher
// can copy per-block state without an interface value in the hot loop: the
// catalog is a closed set of concrete types resolved at instantiation.
//
// Apply performs the fused elementwise update on the loaded operand values
// and folds the element's contribution into sum. Pre and Post bracket one
// site's element loop; only the heavy-quark family uses them, to form a
// ratio from summed site norms rather than from per-element ratios.
type Functor[S Accumulator, F any] interface {
	Pre()
	Apply(x, y, z, w, v *complex128, sum *S)
	Post(sum *S)
	// Fork returns an independent copy for one block of a launch.
	Fork() F
	// Name identifies the algorithm in tuning keys and telemetry.
	Name() string
	// Streams counts the array operands read plus written per element.
	Streams() int
	// Flops counts floating-point operations per complex element. Telemetry
	// only; never numerical behavior.
	Flops() int
}

// norm returns |v|^2.
func norm(v complex128) float64 {
	return real(v)*real(v) + imag(v)*imag(v)
}

// dotRe returns Re(conj(a) * b).
func dotRe(a, b complex128) float64 {
	return real(a)*real(b) + imag(a)*imag(b)
}

// dotC returns conj(a) * b.
func dotC(a, b complex128) complex128 {
	return complex(
		real(a)*real(b)+imag(a)*imag(b),
		real(a)*imag(b)-imag(a)*real(b),
	)
}

// Hook no-ops shared by the stateless catalog entries.

type noPre struct{}

func (noPre) Pre() {}

type noPostF struct{}

func (noPostF) Post(*float64) {}

type noPostC struct{}

func (noPostC) Post(*complex128) {}

type noPost2 struct{}

func (noPost2) Post(*Double2) {}

type noPost3 struct{}

func (noPost3) Post(*Double3) {}

type noPost4 struct{}

func (noPost4) Post(*Double4) {}

// norm1F computes sum_i |x_i| with |.| the complex modulus.
type norm1F struct {
	noPre
	noPostF
}

func (f norm1F) Fork() norm1F  { return f }
func (norm1F) Name() string    { return "norm1" }
func (norm1F) Streams() int    { return 1 }
func (norm1F) Flops() int      { return 4 }
func (norm1F) Apply(x, _, _, _, _ *complex128, sum *float64) {
	*sum += math.Hypot(real(*x), imag(*x))
}

// norm2F computes sum_i |x_i|^2.
type norm2F struct {
	noPre
	noPostF
}

func (f norm2F) Fork() norm2F { return f }
func (norm2F) Name() string   { return "norm2" }
func (norm2F) Streams() int   { return 1 }
func (norm2F) Flops() int     { return 4 }
func (norm2F) Apply(x, _, _, _, _ *complex128, sum *float64) {
	*sum += norm(*x)
}

// reDotF computes sum_i Re(conj(x_i) y_i).
type reDotF struct {
	noPre
	noPostF
}

func (f reDotF) Fork() reDotF { return f }
func (reDotF) Name() string   { return "reDotProduct" }
func (reDotF) Streams() int   { return 2 }
func (reDotF) Flops() int     { return 4 }
func (reDotF) Apply(x, y, _, _, _ *complex128, sum *float64) {
	*sum += dotRe(*x, *y)
}

// cDotF computes the complex sum_i conj(x_i) y_i.
type cDotF struct {
	noPre
	noPostC
}

func (f cDotF) Fork() cDotF { return f }
func (cDotF) Name() string  { return "cDotProduct" }
func (cDotF) Streams() int  { return 2 }
func (cDotF) Flops() int    { return 8 }
func (cDotF) Apply(x, y, _, _, _ *complex128, sum *complex128) {
	*sum += dotC(*x, *y)
}

// axpbyzNormF computes z = a x + b y and sum_i |z_i|^2.
type axpbyzNormF struct {
	noPre
	noPostF
	a, b float64
}

func (f axpbyzNormF) Fork() axpbyzNormF { return f }
func (axpbyzNormF) Name() string        { return "axpbyzNorm" }
func (axpbyzNormF) Streams() int        { return 3 }
func (axpbyzNormF) Flops() int          { return 10 }
func (f axpbyzNormF) Apply(x, y, z, _, _ *complex128, sum *float64) {
	*z = complex(f.a, 0)**x + complex(f.b, 0)**y
	*sum += norm(*z)
}

// axpyReDotF computes y += a x and sum_i Re(conj(x_i) y_i) on the updated y.
type axpyReDotF struct {
	noPre
	noPostF
	a float64
}

func (f axpyReDotF) Fork() axpyReDotF { return f }
func (axpyReDotF) Name() string       { return "axpyReDot" }
func (axpyReDotF) Streams() int       { return 3 }
func (axpyReDotF) Flops() int         { return 8 }
func (f axpyReDotF) Apply(x, y, _, _, _ *complex128, sum *float64) {
	*y += complex(f.a, 0) * *x
	*sum += dotRe(*x, *y)
}

// caxpyNormF computes y += a x for complex a and sum_i |y_i|^2.
type caxpyNormF struct {
	noPre
	noPostF
	a complex128
}

func (f caxpyNormF) Fork() caxpyNormF { return f }
func (caxpyNormF) Name() string       { return "caxpyNorm" }
func (caxpyNormF) Streams() int       { return 3 }
func (caxpyNormF) Flops() int         { return 12 }
func (f caxpyNormF) Apply(x, y, _, _, _ *complex128, sum *float64) {
	*y += f.a * *x
	*sum += norm(*y)
}

// caxpyXmazNormXF computes y += a x, x -= a z, and sum_i |x_i|^2 on the
// updated x.
type caxpyXmazNormXF struct {
	noPre
	noPostF
	a complex128
}

func (f caxpyXmazNormXF) Fork() caxpyXmazNormXF { return f }
func (caxpyXmazNormXF) Name() string            { return "caxpyXmazNormX" }
func (caxpyXmazNormXF) Streams() int            { return 5 }
func (caxpyXmazNormXF) Flops() int              { return 20 }
func (f caxpyXmazNormXF) Apply(x, y, z, _, _ *complex128, sum *float64) {
	*y += f.a * *x
	*x -= f.a * *z
	*sum += norm(*x)
}

// cabxpyzAxNormF computes x *= a, y += b x, z = y, and sum_i |z_i|^2.
type cabxpyzAxNormF struct {
	noPre
	noPostF
	a float64
	b complex128
}

func (f cabxpyzAxNormF) Fork() cabxpyzAxNormF { return f }
func (cabxpyzAxNormF) Name() string           { return "cabxpyzAxNorm" }
func (cabxpyzAxNormF) Streams() int           { return 6 }
func (cabxpyzAxNormF) Flops() int             { return 16 }
func (f cabxpyzAxNormF) Apply(x, y, z, _, _ *complex128, sum *float64) {
	*x *= complex(f.a, 0)
	*y += f.b * *x
	*z = *y
	*sum += norm(*z)
}

// caxpyDotzyF computes y += a x and the complex sum_i conj(z_i) y_i on the
// updated y.
type caxpyDotzyF struct {
	noPre
	noPostC
	a complex128
}

func (f caxpyDotzyF) Fork() caxpyDotzyF { return f }
func (caxpyDotzyF) Name() string        { return "caxpyDotzy" }
func (caxpyDotzyF) Streams() int        { return 4 }
func (caxpyDotzyF) Flops() int          { return 14 }
func (f caxpyDotzyF) Apply(x, y, z, _, _ *complex128, sum *complex128) {
	*y += f.a * *x
	*sum += dotC(*z, *y)
}

// cDotProductNormAF computes {Re conj(x) y, Im conj(x) y, |x|^2} packed
// 3-wide.
type cDotProductNormAF struct {
	noPre
	noPost3
}

func (f cDotProductNormAF) Fork() cDotProductNormAF { return f }
func (cDotProductNormAF) Name() string              { return "cDotProductNormA" }
func (cDotProductNormAF) Streams() int              { return 2 }
func (cDotProductNormAF) Flops() int                { return 12 }
func (cDotProductNormAF) Apply(x, y, _, _, _ *complex128, sum *Double3) {
	d := dotC(*x, *y)
	sum[0] += real(d)
	sum[1] += imag(d)
	sum[2] += norm(*x)
}

// cDotProductNormBF computes {Re conj(x) y, Im conj(x) y, |y|^2} packed
// 3-wide.
type cDotProductNormBF struct {
	noPre
	noPost3
}

func (f cDotProductNormBF) Fork() cDotProductNormBF { return f }
func (cDotProductNormBF) Name() string              { return "cDotProductNormB" }
func (cDotProductNormBF) Streams() int              { return 2 }
func (cDotProductNormBF) Flops() int                { return 12 }
func (cDotProductNormBF) Apply(x, y, _, _, _ *complex128, sum *Double3) {
	d := dotC(*x, *y)
	sum[0] += real(d)
	sum[1] += imag(d)
	sum[2] += norm(*y)
}

// caxpbypzYmbwcDotProductUYNormYF computes z += a x + b y, y -= b w, and
// {Re conj(u) y, Im conj(u) y, |y|^2} on the updated y, with u in the fifth
// operand slot.
type caxpbypzYmbwcDotProductUYNormYF struct {
	noPre
	noPost3
	a, b complex128
}

func (f caxpbypzYmbwcDotProductUYNormYF) Fork() caxpbypzYmbwcDotProductUYNormYF {
	return f
}
func (caxpbypzYmbwcDotProductUYNormYF) Name() string { return "caxpbypzYmbwcDotProductUYNormY" }
func (caxpbypzYmbwcDotProductUYNormYF) Streams() int { return 7 }
func (caxpbypzYmbwcDotProductUYNormYF) Flops() int   { return 34 }
func (f caxpbypzYmbwcDotProductUYNormYF) Apply(x, y, z, w, v *complex128, sum *Double3) {
	*z += f.a**x + f.b**y
	*y -= f.b * *w
	d := dotC(*v, *y)
	sum[0] += real(d)
	sum[1] += imag(d)
	sum[2] += norm(*y)
}

// axpyCGNormF computes y += a x and {|y'|^2, Re conj(y') (y' - y)} where y'
// is the updated value; the second component is the CG overlap of the new
// iterate with its own update.
type axpyCGNormF struct {
	noPre
	noPost2
	a float64
}

func (f axpyCGNormF) Fork() axpyCGNormF { return f }
func (axpyCGNormF) Name() string        { return "axpyCGNorm" }
func (axpyCGNormF) Streams() int        { return 3 }
func (axpyCGNormF) Flops() int          { return 12 }
func (f axpyCGNormF) Apply(x, y, _, _, _ *complex128, sum *Double2) {
	old := *y
	*y += complex(f.a, 0) * *x
	sum[0] += norm(*y)
	sum[1] += dotRe(*y, *y-old)
}

// heavyQuarkResidualNormF accumulates {|x|^2, |r|^2, sum of per-site
// |r|^2/|x|^2} with r in the y slot. The per-site norms are gathered in aux
// between Pre and Post; the ratio is formed in Post from the site sums,
// which differs numerically from summing per-element ratios and is required
// for correctness.
type heavyQuarkResidualNormF struct {
	aux Double2
}

func (f *heavyQuarkResidualNormF) Fork() *heavyQuarkResidualNormF {
	return &heavyQuarkResidualNormF{}
}
func (*heavyQuarkResidualNormF) Name() string { return "heavyQuarkResidualNorm" }
func (*heavyQuarkResidualNormF) Streams() int { return 2 }
func (*heavyQuarkResidualNormF) Flops() int   { return 9 }

func (f *heavyQuarkResidualNormF) Pre() {
	f.aux = Double2{}
}

func (f *heavyQuarkResidualNormF) Apply(x, y, _, _, _ *complex128, _ *Double3) {
	f.aux[0] += norm(*x)
	f.aux[1] += norm(*y)
}

func (f *heavyQuarkResidualNormF) Post(sum *Double3) {
	sum[0] += f.aux[0]
	sum[1] += f.aux[1]
	if f.aux[0] > 0 {
		sum[2] += f.aux[1] / f.aux[0]
	} else {
		// An empty site counts as converged.
		sum[2] += 1
	}
}

// xpyHeavyQuarkResidualNormF is the heavy-quark residual norm on the
// combined solution x+y: y is updated to x+y, the residual r sits in the z
// slot.
type xpyHeavyQuarkResidualNormF struct {
	aux Double2
}

func (f *xpyHeavyQuarkResidualNormF) Fork() *xpyHeavyQuarkResidualNormF {
	return &xpyHeavyQuarkResidualNormF{}
}
func (*xpyHeavyQuarkResidualNormF) Name() string { return "xpyHeavyQuarkResidualNorm" }
func (*xpyHeavyQuarkResidualNormF) Streams() int { return 4 }
func (*xpyHeavyQuarkResidualNormF) Flops() int   { return 11 }

func (f *xpyHeavyQuarkResidualNormF) Pre() {
	f.aux = Double2{}
}

func (f *xpyHeavyQuarkResidualNormF) Apply(x, y, z, _, _ *complex128, _ *Double3) {
	*y += *x
	f.aux[0] += norm(*y)
	f.aux[1] += norm(*z)
}

func (f *xpyHeavyQuarkResidualNormF) Post(sum *Double3) {
	sum[0] += f.aux[0]
	sum[1] += f.aux[1]
	if f.aux[0] > 0 {
		sum[2] += f.aux[1] / f.aux[0]
	} else {
		sum[2] += 1
	}
}

// tripleCGReductionF computes {|x|^2, |y|^2, Re conj(y) z} in one pass.
type tripleCGReductionF struct {
	noPre
	noPost3
}

func (f tripleCGReductionF) Fork() tripleCGReductionF { return f }
func (tripleCGReductionF) Name() string               { return "tripleCGReduction" }
func (tripleCGReductionF) Streams() int               { return 3 }
func (tripleCGReductionF) Flops() int                 { return 12 }
func (tripleCGReductionF) Apply(x, y, z, _, _ *complex128, sum *Double3) {
	sum[0] += norm(*x)
	sum[1] += norm(*y)
	sum[2] += dotRe(*y, *z)
}

// quadrupleCGReductionF computes {|x|^2, |y|^2, Re conj(y) z, |w|^2} in one
// pass.
type quadrupleCGReductionF struct {
	noPre
	noPost4
}

func (f quadrupleCGReductionF) Fork() quadrupleCGReductionF { return f }
func (quadrupleCGReductionF) Name() string                  { return "quadrupleCGReduction" }
func (quadrupleCGReductionF) Streams() int                  { return 4 }
func (quadrupleCGReductionF) Flops() int                    { return 16 }
func (quadrupleCGReductionF) Apply(x, y, z, w, _ *complex128, sum *Double4) {
	sum[0] += norm(*x)
	sum[1] += norm(*y)
	sum[2] += dotRe(*y, *z)
	sum[3] += norm(*w)
}

// quadrupleCG3InitNormF seeds the three-term CG recurrence: the previous
// iterates are saved (z = x, w = y), then x += a v and y -= a v, reducing
// |y|^2 of the new residual.
type quadrupleCG3InitNormF struct {
	noPre
	noPostF
	a float64
}

func (f quadrupleCG3InitNormF) Fork() quadrupleCG3InitNormF { return f }
func (quadrupleCG3InitNormF) Name() string                  { return "quadrupleCG3InitNorm" }
func (quadrupleCG3InitNormF) Streams() int                  { return 7 }
func (quadrupleCG3InitNormF) Flops() int                    { return 12 }
func (f quadrupleCG3InitNormF) Apply(x, y, z, w, v *complex128, sum *float64) {
	*z = *x
	*w = *y
	*x += complex(f.a, 0) * *v
	*y -= complex(f.a, 0) * *v
	*sum += norm(*y)
}

// quadrupleCG3UpdateNormF advances the three-term CG recurrence: the new
// iterates are the rotation b (x +- a v) + (1-b) {z,w} of the current and
// previous pairs, the previous pair is replaced by the old current one, and
// |y|^2 of the new residual is reduced.
type quadrupleCG3UpdateNormF struct {
	noPre
	noPostF
	a, b float64
}

func (f quadrupleCG3UpdateNormF) Fork() quadrupleCG3UpdateNormF { return f }
func (quadrupleCG3UpdateNormF) Name() string                    { return "quadrupleCG3UpdateNorm" }
func (quadrupleCG3UpdateNormF) Streams() int                    { return 9 }
func (quadrupleCG3UpdateNormF) Flops() int                      { return 28 }
func (f quadrupleCG3UpdateNormF) Apply(x, y, z, w, v *complex128, sum *float64) {
	b := complex(f.b, 0)
	c := complex(1-f.b, 0)
	oldX, oldY := *x, *y
	*x = b*(*x+complex(f.a, 0)**v) + c**z
	*y = b*(*y-complex(f.a, 0)**v) + c**w
	*z = oldX
	*w = oldY
	*sum += norm(*y)
}

// doubleCG3InitNormF seeds the two-field form of the recurrence: y = x,
// x -= a z, reducing |x|^2 of the new iterate.
type doubleCG3InitNormF struct {
	noPre
	noPostF
	a float64
}

func (f doubleCG3InitNormF) Fork() doubleCG3InitNormF { return f }
func (doubleCG3InitNormF) Name() string               { return "doubleCG3InitNorm" }
func (doubleCG3InitNormF) Streams() int               { return 4 }
func (doubleCG3InitNormF) Flops() int                 { return 8 }
func (f doubleCG3InitNormF) Apply(x, y, z, _, _ *complex128, sum *float64) {
	*y = *x
	*x -= complex(f.a, 0) * *z
	*sum += norm(*x)
}

// doubleCG3UpdateNormF advances the two-field form: x = b (x - a z) +
// (1-b) y with the old x preserved in y, reducing |x|^2 of the new iterate.
type doubleCG3UpdateNormF struct {
	noPre
	noPostF
	a, b float64
}

func (f doubleCG3UpdateNormF) Fork() doubleCG3UpdateNormF { return f }
func (doubleCG3UpdateNormF) Name() string                 { return "doubleCG3UpdateNorm" }
func (doubleCG3UpdateNormF) Streams() int                 { return 5 }
func (doubleCG3UpdateNormF) Flops() int                   { return 16 }
func (f doubleCG3UpdateNormF) Apply(x, y, z, _, _ *complex128, sum *float64) {
	old := *x
	*x = complex(f.b, 0)*(*x-complex(f.a, 0)**z) + complex(1-f.b, 0)**y
	*y = old
	*sum += norm(*x)
}
