package comm

// Ring is an in-process multi-rank communicator whose ranks are connected in
// a ring over channels. Each rank circulates its local tuple around the ring;
// after size-1 hops every rank has folded in every contribution. All ranks of
// one ring must call AllReduceSum concurrently with equal-length tuples.
type Ring struct {
	rank int
	size int
	in   chan []float64
	out  chan []float64
}

// NewRing creates n connected ranks. Each returned communicator belongs to
// one goroutine.
func NewRing(n int) []*Ring {
	if n < 1 {
		panic("comm: ring needs at least one rank")
	}
	chans := make([]chan []float64, n)
	for i := range chans {
		chans[i] = make(chan []float64, 1)
	}
	ranks := make([]*Ring, n)
	for i := range ranks {
		ranks[i] = &Ring{
			rank: i,
			size: n,
			in:   chans[i],
			out:  chans[(i+1)%n],
		}
	}
	return ranks
}

// Rank returns this rank's index.
func (r *Ring) Rank() int { return r.rank }

// Size returns the number of ranks in the ring.
func (r *Ring) Size() int { return r.size }

// AllReduceSum sums vals element-wise across all ranks of the ring.
func (r *Ring) AllReduceSum(vals []float64) {
	if r.size == 1 {
		return
	}

	local := make([]float64, len(vals))
	copy(local, vals)
	r.out <- local

	for hop := 1; hop < r.size; hop++ {
		msg := <-r.in
		for i, v := range msg {
			vals[i] += v
		}
		// Forward the visiting tuple unless it has completed the ring.
		if hop < r.size-1 {
			r.out <- msg
		}
	}
}
