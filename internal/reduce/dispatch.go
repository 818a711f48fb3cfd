package reduce

import (
	"fmt"
	"runtime"

	"github.com/krylo-hpc/krylo/internal/field"
	"github.com/krylo-hpc/krylo/internal/parallel"
	"github.com/krylo-hpc/krylo/internal/tune"
)

// writeMask declares which operand slots a launch mutates. The mask is part
// of the static launch signature: the dispatcher stores back exactly the
// masked slots and the telemetry accounts traffic from it.
type writeMask struct {
	X, Y, Z, W, V bool
}

// operands carries the element views of one launch. Unused slots are invalid
// spans. siteElems > 1 selects site unrolling: the grid-stride loop runs over
// sites of that many consecutive elements, with the functor's Pre/Post hooks
// bracketing each site.
type operands struct {
	x, y, z, w, v field.Span
	n             int // total complex elements
	siteElems     int
	elemBytes     int    // storage bytes per element of the primary operand
	aux           string // precision/unroll descriptor for the tuning key
}

// uniform builds the operand set of an equal-precision launch from up to
// five fields. The first field is the primary operand.
func uniform(fs ...*field.Field) operands {
	op := operands{n: fs[0].Length(), siteElems: 1, elemBytes: fs[0].Precision().Size()}
	op.aux = "prec=" + fs[0].Precision().String()
	spans := []*field.Span{&op.x, &op.y, &op.z, &op.w, &op.v}
	for i, f := range fs {
		*spans[i] = f.Span()
	}
	return op
}

// launch is the single generic execution path behind every catalog entry.
// It registers the tuning key, obtains a launch geometry, runs the fused
// grid-stride kernel with per-block partial sums in the device buffer, folds
// the partials, waits for completion under the context's strategy, applies
// the distributed combine and returns the summed accumulator.
//
// The kernel stays correct for any geometry: only the partial-sum block
// count is clamped to the buffer capacity.
func launch[S Accumulator, F Functor[S, F]](c *Context, f F, wm writeMask, op operands) S {
	c.checkLive()

	params := c.tuner.Tune(tune.Key{
		Volume: fmt.Sprintf("n=%d", op.n),
		Name:   f.Name(),
		Aux:    fmt.Sprintf("%s,site=%d", op.aux, op.siteElems),
	})

	blocks := params.Grid.Size()
	if blocks < 1 {
		blocks = 1
	}
	if blocks > c.maxBlocks {
		blocks = c.maxBlocks
	}
	threads := params.Block.Size()
	if threads < 1 {
		threads = 1
	}

	siteElems := op.siteElems
	if siteElems < 1 {
		siteElems = 1
	}
	units := op.n / siteElems

	c.seq++
	seq := c.seq
	if c.mode == EventWait {
		c.event.Reset()
	}

	c.stream.Submit(func() {
		// Fused update plus block-level reduction. Each block walks the unit
		// range with a grid-stride loop and writes its partial tuple to a
		// non-conflicting slot of the device buffer.
		parallel.Blocks(blocks, c.exec, func(b int) {
			g := f.Fork()
			var blockSum S
			for t := 0; t < threads; t++ {
				var local S
				for u := b*threads + t; u < units; u += blocks * threads {
					g.Pre()
					base := u * siteElems
					for e := 0; e < siteElems; e++ {
						i := base + e
						var xv, yv, zv, wv, vv complex128
						if op.x.Valid() {
							xv = op.x.Load(i)
						}
						if op.y.Valid() {
							yv = op.y.Load(i)
						}
						if op.z.Valid() {
							zv = op.z.Load(i)
						}
						if op.w.Valid() {
							wv = op.w.Load(i)
						}
						if op.v.Valid() {
							vv = op.v.Load(i)
						}
						g.Apply(&xv, &yv, &zv, &wv, &vv, &local)
						if wm.X {
							op.x.Store(i, xv)
						}
						if wm.Y {
							op.y.Store(i, yv)
						}
						if wm.Z {
							op.z.Store(i, zv)
						}
						if wm.W {
							op.w.Store(i, wv)
						}
						if wm.V {
							op.v.Store(i, vv)
						}
					}
					g.Post(&local)
				}
				blockSum = addAcc(blockSum, local)
			}
			packAcc(c.deviceBuf[b*tupleWords:], blockSum)
		})

		// Second pass: fold the block partials into slot zero of the
		// device-visible completion target. Under mapped memory that is the
		// host buffer itself; under pinned memory it is the device buffer and
		// the host copies after the wait.
		var total S
		for b := 0; b < blocks; b++ {
			total = addAcc(total, unpackAcc[S](c.deviceBuf[b*tupleWords:]))
		}
		packAcc(c.hostAlias, total)
		c.sentinel.Store(seq)
	})

	// Host-side completion wait: strict happens-before with the next launch
	// on this context.
	if c.mode == SpinWait {
		for c.sentinel.Load() < seq {
			runtime.Gosched()
		}
	} else {
		c.event.Record(c.stream)
		c.event.Wait()
	}

	words := accWords[S]()
	if !c.mapped {
		// Explicit device-to-host step for the pinned host buffer.
		copy(c.hostBuf[:words], c.deviceBuf[:words])
	}

	// Distributed combine before anything is derived from the result.
	vals := c.hostBuf[:words]
	c.comm.AllReduceSum(vals)

	c.stats.Launches++
	c.stats.Flops += uint64(f.Flops()) * uint64(op.n)
	c.stats.Bytes += uint64(f.Streams()) * uint64(op.n) * uint64(op.elemBytes)

	return unpackAcc[S](vals)
}
