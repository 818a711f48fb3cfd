package reduce

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krylo-hpc/krylo/internal/field"
)

func randVec(r *rand.Rand, n int) []complex128 {
	vals := make([]complex128, n)
	for i := range vals {
		vals[i] = complex(2*r.Float64()-1, 2*r.Float64()-1)
	}
	return vals
}

func fieldOf(t *testing.T, vals []complex128) *field.Field {
	t.Helper()
	f, err := field.FromComplex(vals, field.Double)
	require.NoError(t, err)
	return f
}

func approx(t *testing.T, want, got float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want, got, 1e-9*(1+math.Abs(want)), msgAndArgs...)
}

func approxC(t *testing.T, want, got complex128) {
	t.Helper()
	approx(t, real(want), real(got))
	approx(t, imag(want), imag(got))
}

func TestNormKnownValues(t *testing.T) {
	c := testCtx(t)
	x := fieldOf(t, []complex128{3})
	assert.Equal(t, 9.0, c.Norm2(x))
	assert.Equal(t, 3.0, c.Norm1(x))
}

func TestReDotKnownValue(t *testing.T) {
	c := testCtx(t)
	x := fieldOf(t, []complex128{1, 2})
	y := fieldOf(t, []complex128{3, 4})
	assert.Equal(t, 11.0, c.ReDotProduct(x, y))
}

func TestNorm2MatchesSelfReDot(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(1))
	x := fieldOf(t, randVec(r, 1000))
	approx(t, c.ReDotProduct(x, x), c.Norm2(x))
}

func TestNormsNonNegative(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(2))
	x := fieldOf(t, randVec(r, 500))
	assert.GreaterOrEqual(t, c.Norm1(x), 0.0)
	assert.GreaterOrEqual(t, c.Norm2(x), 0.0)
}

func TestCDotConjugateSymmetry(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(3))
	x := fieldOf(t, randVec(r, 300))
	y := fieldOf(t, randVec(r, 300))
	approxC(t, c.CDotProduct(x, y), cmplx.Conj(c.CDotProduct(y, x)))
}

func TestAxpbyzNorm(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(4))
	xv, yv := randVec(r, 200), randVec(r, 200)
	a, b := 0.75, -1.25

	var want float64
	wantZ := make([]complex128, len(xv))
	for i := range xv {
		wantZ[i] = complex(a, 0)*xv[i] + complex(b, 0)*yv[i]
		want += norm(wantZ[i])
	}

	x, y, z := fieldOf(t, xv), fieldOf(t, yv), fieldOf(t, make([]complex128, len(xv)))
	approx(t, want, c.AxpbyzNorm(a, x, b, y, z))
	assert.Equal(t, wantZ, z.Export())
	assert.Equal(t, xv, x.Export(), "x is read-only")
	assert.Equal(t, yv, y.Export(), "y is read-only")
}

func TestAxpyReDot(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(5))
	xv, yv := randVec(r, 200), randVec(r, 200)
	a := 0.5

	var want float64
	wantY := make([]complex128, len(yv))
	for i := range xv {
		wantY[i] = yv[i] + complex(a, 0)*xv[i]
		want += dotRe(xv[i], wantY[i])
	}

	x, y := fieldOf(t, xv), fieldOf(t, yv)
	approx(t, want, c.AxpyReDot(a, x, y))
	assert.Equal(t, wantY, y.Export())
}

func TestCaxpyNormKnownValue(t *testing.T) {
	c := testCtx(t)
	x := fieldOf(t, []complex128{1})
	y := fieldOf(t, []complex128{0})
	assert.Equal(t, 4.0, c.CaxpyNorm(2, x, y))
	assert.Equal(t, []complex128{2}, y.Export())
}

func TestCaxpyXmazNormX(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(6))
	xv, yv, zv := randVec(r, 150), randVec(r, 150), randVec(r, 150)
	a := complex(0.3, -0.7)

	var want float64
	wantX := make([]complex128, len(xv))
	wantY := make([]complex128, len(xv))
	for i := range xv {
		wantY[i] = yv[i] + a*xv[i]
		wantX[i] = xv[i] - a*zv[i]
		want += norm(wantX[i])
	}

	x, y, z := fieldOf(t, xv), fieldOf(t, yv), fieldOf(t, zv)
	approx(t, want, c.CaxpyXmazNormX(a, x, y, z))
	assert.Equal(t, wantX, x.Export())
	assert.Equal(t, wantY, y.Export())
	assert.Equal(t, zv, z.Export(), "z is read-only")
}

func TestCabxpyzAxNorm(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(7))
	xv, yv := randVec(r, 150), randVec(r, 150)
	a := 1.5
	b := complex(-0.25, 0.5)

	var want float64
	wantX := make([]complex128, len(xv))
	wantY := make([]complex128, len(xv))
	for i := range xv {
		wantX[i] = xv[i] * complex(a, 0)
		wantY[i] = yv[i] + b*wantX[i]
		want += norm(wantY[i])
	}

	x, y, z := fieldOf(t, xv), fieldOf(t, yv), fieldOf(t, make([]complex128, len(xv)))
	approx(t, want, c.CabxpyzAxNorm(a, b, x, y, z))
	assert.Equal(t, wantX, x.Export())
	assert.Equal(t, wantY, y.Export())
	assert.Equal(t, wantY, z.Export(), "z receives the updated y")
}

func TestCaxpyDotzy(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(8))
	xv, yv, zv := randVec(r, 150), randVec(r, 150), randVec(r, 150)
	a := complex(0.6, 0.8)

	var want complex128
	for i := range xv {
		yi := yv[i] + a*xv[i]
		want += dotC(zv[i], yi)
	}

	x, y, z := fieldOf(t, xv), fieldOf(t, yv), fieldOf(t, zv)
	approxC(t, want, c.CaxpyDotzy(a, x, y, z))
}

func TestCDotProductNormAB(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(9))
	xv, yv := randVec(r, 200), randVec(r, 200)

	var d complex128
	var nx, ny float64
	for i := range xv {
		d += dotC(xv[i], yv[i])
		nx += norm(xv[i])
		ny += norm(yv[i])
	}

	x, y := fieldOf(t, xv), fieldOf(t, yv)
	ra := c.CDotProductNormA(x, y)
	approx(t, real(d), ra[0])
	approx(t, imag(d), ra[1])
	approx(t, nx, ra[2])

	rb := c.CDotProductNormB(x, y)
	approx(t, real(d), rb[0])
	approx(t, imag(d), rb[1])
	approx(t, ny, rb[2])
}

func TestCaxpbypzYmbwCDotProductUYNormY(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(10))
	n := 120
	xv, yv, zv, wv, uv := randVec(r, n), randVec(r, n), randVec(r, n), randVec(r, n), randVec(r, n)
	a := complex(0.2, -0.4)
	b := complex(-0.9, 0.1)

	var want Double3
	wantY := make([]complex128, n)
	wantZ := make([]complex128, n)
	for i := 0; i < n; i++ {
		wantZ[i] = zv[i] + a*xv[i] + b*yv[i]
		wantY[i] = yv[i] - b*wv[i]
		d := dotC(uv[i], wantY[i])
		want[0] += real(d)
		want[1] += imag(d)
		want[2] += norm(wantY[i])
	}

	x, y, z := fieldOf(t, xv), fieldOf(t, yv), fieldOf(t, zv)
	w, u := fieldOf(t, wv), fieldOf(t, uv)
	got := c.CaxpbypzYmbwCDotProductUYNormY(a, x, b, y, z, w, u)
	for i := range want {
		approx(t, want[i], got[i], "component %d", i)
	}
	assert.Equal(t, wantY, y.Export())
	assert.Equal(t, wantZ, z.Export())
}

func TestAxpyCGNorm(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(11))
	xv, yv := randVec(r, 180), randVec(r, 180)
	a := -0.35

	var want Double2
	for i := range xv {
		yi := yv[i] + complex(a, 0)*xv[i]
		want[0] += norm(yi)
		want[1] += dotRe(yi, yi-yv[i])
	}

	x, y := fieldOf(t, xv), fieldOf(t, yv)
	got := c.AxpyCGNorm(a, x, y)
	approx(t, want[0], got[0])
	approx(t, want[1], got[1])
}

func TestAxpyCGNormMixedPrecision(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(12))
	xv, yv := randVec(r, 256), randVec(r, 256)
	a := 0.5

	// Reference in double on the single-rounded iterate.
	xs, err := field.FromComplex(xv, field.Single)
	require.NoError(t, err)
	ys, err := field.FromComplex(yv, field.Single)
	require.NoError(t, err)
	xr, yr := xs.Export(), ys.Export()

	var want Double2
	for i := range xr {
		// The iterate is stored back at single precision per element.
		yi := complex128(complex64(yr[i] + complex(a, 0)*xr[i]))
		want[0] += norm(yi)
		want[1] += dotRe(yi, yi-yr[i])
	}

	got := c.AxpyCGNorm(a, xs, ys)
	assert.InDelta(t, want[0], got[0], 1e-4*(1+math.Abs(want[0])))
	assert.InDelta(t, want[1], got[1], 1e-4*(1+math.Abs(want[1])))

	// Mixed dispatch with a genuinely mixed pair: single iterate, double
	// correction direction.
	xd := fieldOf(t, xv)
	got2 := c.AxpyCGNorm(a, xd, ys)
	assert.InDelta(t, got[0], got2[0], 1e-3*(1+math.Abs(got[0])))
}

func TestMixedPrecisionRejectsNarrowAux(t *testing.T) {
	c := testCtx(t)
	xv := randVec(rand.New(rand.NewSource(13)), 64)
	xh, err := field.FromComplex(xv, field.Half)
	require.NoError(t, err)
	yd := fieldOf(t, xv)
	// The correction operand may not be narrower than the iterate.
	assert.Panics(t, func() { c.AxpyCGNorm(1, xh, yd) })
}

func TestHeavyQuarkResidualNorm(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(14))
	const sites, spins, colors = 16, 4, 3
	n := sites * spins * colors
	xv, rv := randVec(r, n), randVec(r, n)

	x, err := field.NewSpinor(n, n, field.Double, spins, colors)
	require.NoError(t, err)
	res, err := field.NewSpinor(n, n, field.Double, spins, colors)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		x.Set(i, xv[i])
		res.Set(i, rv[i])
	}

	var want Double3
	per := spins * colors
	for s := 0; s < sites; s++ {
		var nx, nr float64
		for e := s * per; e < (s+1)*per; e++ {
			nx += norm(xv[e])
			nr += norm(rv[e])
		}
		want[0] += nx
		want[1] += nr
		want[2] += nr / nx
	}
	want[2] /= sites

	got := c.HeavyQuarkResidualNorm(x, res)
	approx(t, want[0], got[0])
	approx(t, want[1], got[1])
	approx(t, want[2], got[2])
}

func TestHeavyQuarkZeroSiteCountsAsConverged(t *testing.T) {
	c := testCtx(t)
	const sites, spins, colors = 2, 1, 3
	n := sites * spins * colors
	x, err := field.NewSpinor(n, n, field.Double, spins, colors)
	require.NoError(t, err)
	res, err := field.NewSpinor(n, n, field.Double, spins, colors)
	require.NoError(t, err)
	// Only the first site carries data; the second is all zero.
	x.Set(0, 2)
	res.Set(0, 1)

	got := c.HeavyQuarkResidualNorm(x, res)
	assert.Equal(t, 4.0, got[0])
	assert.Equal(t, 1.0, got[1])
	// Site 0 ratio 1/4, empty site contributes 1, averaged over 2 sites.
	approx(t, (0.25+1)/2, got[2])
}

func TestHeavyQuarkRequiresThreeColors(t *testing.T) {
	c := testCtx(t)
	x, err := field.NewSpinor(8, 8, field.Double, 4, 2)
	require.NoError(t, err)
	res, err := field.NewSpinor(8, 8, field.Double, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, Double3{}, c.HeavyQuarkResidualNorm(x, res))
	assert.Equal(t, Double3{}, c.XpyHeavyQuarkResidualNorm(x, x, res))
}

func TestXpyHeavyQuarkResidualNorm(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(15))
	const sites, spins, colors = 8, 4, 3
	n := sites * spins * colors
	xv, yv, rv := randVec(r, n), randVec(r, n), randVec(r, n)

	mk := func(vals []complex128) *field.Field {
		f, err := field.NewSpinor(n, n, field.Double, spins, colors)
		require.NoError(t, err)
		for i, v := range vals {
			f.Set(i, v)
		}
		return f
	}
	x, y, res := mk(xv), mk(yv), mk(rv)

	var want Double3
	per := spins * colors
	wantY := make([]complex128, n)
	for s := 0; s < sites; s++ {
		var ns, nr float64
		for e := s * per; e < (s+1)*per; e++ {
			wantY[e] = yv[e] + xv[e]
			ns += norm(wantY[e])
			nr += norm(rv[e])
		}
		want[0] += ns
		want[1] += nr
		want[2] += nr / ns
	}
	want[2] /= sites

	got := c.XpyHeavyQuarkResidualNorm(x, y, res)
	approx(t, want[0], got[0])
	approx(t, want[1], got[1])
	approx(t, want[2], got[2])
	assert.Equal(t, wantY, y.Export())
}

func TestTripleCGReduction(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(16))
	xv, yv, zv := randVec(r, 200), randVec(r, 200), randVec(r, 200)

	var want Double3
	for i := range xv {
		want[0] += norm(xv[i])
		want[1] += norm(yv[i])
		want[2] += dotRe(yv[i], zv[i])
	}

	got := c.TripleCGReduction(fieldOf(t, xv), fieldOf(t, yv), fieldOf(t, zv))
	for i := range want {
		approx(t, want[i], got[i])
	}
}

func TestQuadrupleCGReduction(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(17))
	xv, yv, zv, wv := randVec(r, 200), randVec(r, 200), randVec(r, 200), randVec(r, 200)

	var want Double4
	for i := range xv {
		want[0] += norm(xv[i])
		want[1] += norm(yv[i])
		want[2] += dotRe(yv[i], zv[i])
		want[3] += norm(wv[i])
	}

	got := c.QuadrupleCGReduction(fieldOf(t, xv), fieldOf(t, yv), fieldOf(t, zv), fieldOf(t, wv))
	for i := range want {
		approx(t, want[i], got[i])
	}
}

func TestQuadrupleCG3InitNorm(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(18))
	n := 150
	xv, yv, vv := randVec(r, n), randVec(r, n), randVec(r, n)
	a := 0.45

	var want float64
	wantX := make([]complex128, n)
	wantY := make([]complex128, n)
	for i := 0; i < n; i++ {
		wantX[i] = xv[i] + complex(a, 0)*vv[i]
		wantY[i] = yv[i] - complex(a, 0)*vv[i]
		want += norm(wantY[i])
	}

	x, y := fieldOf(t, xv), fieldOf(t, yv)
	z, w := fieldOf(t, make([]complex128, n)), fieldOf(t, make([]complex128, n))
	v := fieldOf(t, vv)
	approx(t, want, c.QuadrupleCG3InitNorm(a, x, y, z, w, v))
	assert.Equal(t, wantX, x.Export())
	assert.Equal(t, wantY, y.Export())
	assert.Equal(t, xv, z.Export(), "z saves the previous x")
	assert.Equal(t, yv, w.Export(), "w saves the previous y")
}

func TestQuadrupleCG3UpdateNorm(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(19))
	n := 150
	xv, yv, zv, wv, vv := randVec(r, n), randVec(r, n), randVec(r, n), randVec(r, n), randVec(r, n)
	a, b := 0.45, 1.3

	var want float64
	wantX := make([]complex128, n)
	wantY := make([]complex128, n)
	for i := 0; i < n; i++ {
		bc := complex(b, 0)
		cc := complex(1-b, 0)
		wantX[i] = bc*(xv[i]+complex(a, 0)*vv[i]) + cc*zv[i]
		wantY[i] = bc*(yv[i]-complex(a, 0)*vv[i]) + cc*wv[i]
		want += norm(wantY[i])
	}

	x, y, z := fieldOf(t, xv), fieldOf(t, yv), fieldOf(t, zv)
	w, v := fieldOf(t, wv), fieldOf(t, vv)
	approx(t, want, c.QuadrupleCG3UpdateNorm(a, b, x, y, z, w, v))
	assert.Equal(t, wantX, x.Export())
	assert.Equal(t, wantY, y.Export())
	assert.Equal(t, xv, z.Export(), "z saves the previous x")
	assert.Equal(t, yv, w.Export(), "w saves the previous y")
	assert.Equal(t, vv, v.Export(), "v is read-only")
}

func TestDoubleCG3InitNorm(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(20))
	n := 150
	xv, zv := randVec(r, n), randVec(r, n)
	a := 0.8

	var want float64
	wantX := make([]complex128, n)
	for i := 0; i < n; i++ {
		wantX[i] = xv[i] - complex(a, 0)*zv[i]
		want += norm(wantX[i])
	}

	x := fieldOf(t, xv)
	y := fieldOf(t, make([]complex128, n))
	z := fieldOf(t, zv)
	approx(t, want, c.DoubleCG3InitNorm(a, x, y, z))
	assert.Equal(t, wantX, x.Export())
	assert.Equal(t, xv, y.Export(), "y saves the previous x")
}

func TestDoubleCG3UpdateNorm(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(21))
	n := 150
	xv, yv, zv := randVec(r, n), randVec(r, n), randVec(r, n)
	a, b := 0.8, 0.6

	var want float64
	wantX := make([]complex128, n)
	for i := 0; i < n; i++ {
		wantX[i] = complex(b, 0)*(xv[i]-complex(a, 0)*zv[i]) + complex(1-b, 0)*yv[i]
		want += norm(wantX[i])
	}

	x, y, z := fieldOf(t, xv), fieldOf(t, yv), fieldOf(t, zv)
	approx(t, want, c.DoubleCG3UpdateNorm(a, b, x, y, z))
	assert.Equal(t, wantX, x.Export())
	assert.Equal(t, xv, y.Export(), "y saves the previous x")
}

func TestReadOnlyReductionsDoNotMutate(t *testing.T) {
	c := testCtx(t)
	r := rand.New(rand.NewSource(22))
	xv, yv, zv := randVec(r, 100), randVec(r, 100), randVec(r, 100)
	x, y, z := fieldOf(t, xv), fieldOf(t, yv), fieldOf(t, zv)

	c.Norm1(x)
	c.Norm2(x)
	c.ReDotProduct(x, y)
	c.CDotProduct(x, y)
	c.CDotProductNormA(x, y)
	c.CDotProductNormB(x, y)
	c.TripleCGReduction(x, y, z)

	assert.Equal(t, xv, x.Export())
	assert.Equal(t, yv, y.Export())
	assert.Equal(t, zv, z.Export())
}

func TestIncompatibleOperandsPanic(t *testing.T) {
	c := testCtx(t)
	x := fieldOf(t, make([]complex128, 8))
	short := fieldOf(t, make([]complex128, 4))
	assert.Panics(t, func() { c.ReDotProduct(x, short) })

	single, err := field.FromComplex(make([]complex128, 8), field.Single)
	require.NoError(t, err)
	assert.Panics(t, func() { c.CaxpyNorm(1, x, single) }, "uniform ops reject mixed precision")
}
