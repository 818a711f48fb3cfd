// Package comm provides the cross-process combine applied to local reduction
// results. Physically extensive quantities (norms, dot products) must be
// summed over all participating processes before any derived quantity is
// computed from them.
package comm

// Communicator is the collective boundary the reduction engine consumes: a
// process-count query and a sum-all-reduce over a fixed-shape tuple.
type Communicator interface {
	Rank() int
	Size() int
	// AllReduceSum replaces vals with the element-wise sum over all ranks.
	AllReduceSum(vals []float64)
}

// Single is the default single-process communicator; its combine is a no-op.
type Single struct{}

// Rank returns 0.
func (Single) Rank() int { return 0 }

// Size returns 1.
func (Single) Size() int { return 1 }

// AllReduceSum is a no-op for a single process.
func (Single) AllReduceSum([]float64) {}
