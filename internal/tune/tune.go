// Package tune defines the launch-geometry contract between the reduction
// engine and an autotuner. The engine registers a key describing the launch
// and receives back a grid/block shape; it must remain correct for any
// geometry a tuner returns.
package tune

import (
	"sync"

	"github.com/krylo-hpc/krylo/internal/device"
)

// Key identifies a tunable launch: the operand volume, the algorithm type
// signature, and an auxiliary string encoding block-size and precision
// details that change the optimal geometry.
type Key struct {
	Volume string
	Name   string
	Aux    string
}

// Params is the launch geometry returned by a tuner.
type Params struct {
	Grid  device.Dim3
	Block device.Dim3
}

// Tuner maps launch keys to launch geometry.
type Tuner interface {
	Tune(k Key) Params
}

// Heuristic is a non-searching tuner that sizes launches from the device
// capability report: twice the multiprocessor count in blocks, a fixed
// block size.
type Heuristic struct {
	dev       *device.Device
	blockSize int
}

// NewHeuristic creates a heuristic tuner for the device.
func NewHeuristic(dev *device.Device) *Heuristic {
	return &Heuristic{dev: dev, blockSize: 256}
}

// Tune returns the heuristic geometry; the key is ignored.
func (h *Heuristic) Tune(_ Key) Params {
	blocks := 2 * h.dev.Multiprocessors
	if blocks < 1 {
		blocks = 1
	}
	return Params{
		Grid:  device.Dim3{X: blocks, Y: 1, Z: 1},
		Block: device.Dim3{X: h.blockSize, Y: 1, Z: 1},
	}
}

// Cache memoizes another tuner so repeated signatures receive a stable
// geometry, which keeps block-partial summation order reproducible across
// calls with the same key.
type Cache struct {
	mu   sync.RWMutex
	m    map[Key]Params
	next Tuner
}

// NewCache creates a memoizing wrapper around next.
func NewCache(next Tuner) *Cache {
	return &Cache{m: make(map[Key]Params), next: next}
}

// Tune returns the cached geometry for k, consulting the wrapped tuner on the
// first miss.
func (c *Cache) Tune(k Key) Params {
	c.mu.RLock()
	p, ok := c.m[k]
	c.mu.RUnlock()
	if ok {
		return p
	}

	p = c.next.Tune(k)

	c.mu.Lock()
	c.m[k] = p
	c.mu.Unlock()
	return p
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
