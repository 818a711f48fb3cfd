// Package reduce implements the fused vector-algebra reduction engine: a
// catalog of fused elementwise-update-plus-reduction algorithms executed
// through one generic dispatch path over a shared pair of reduction buffers.
//
// A Context owns the buffers, the completion event and the completion
// strategy. Calls on one Context are not safe to issue concurrently: the
// partial-sum buffers are shared by every launch, so callers serialize use of
// a Context the way solvers naturally do. Independent Contexts are fully
// independent.
package reduce

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"github.com/krylo-hpc/krylo/internal/comm"
	"github.com/krylo-hpc/krylo/internal/device"
	"github.com/krylo-hpc/krylo/internal/parallel"
	"github.com/krylo-hpc/krylo/internal/tune"
)

// MaxMultiN bounds the tile edge of matrix-shaped multi-reductions; the
// reduction buffers are sized to cover a MaxMultiN x MaxMultiN tile of
// partial tuples.
const MaxMultiN = 4

// fastReduceEnv is the one recognized environment toggle: set to "1" to
// select spin-wait completion for the lifetime of the process.
const fastReduceEnv = "KRYLO_ENABLE_FAST_REDUCE"

// CompletionMode selects how the host detects that the device-side reduction
// has finished.
type CompletionMode int

const (
	// EventWait blocks on a completion event recorded after the kernel
	// epilogue.
	EventWait CompletionMode = iota
	// SpinWait busy-polls the host-visible buffer for the kernel-written
	// sequence sentinel, trading CPU spinning for event overhead. Requires
	// mapped host memory on a 64-bit host.
	SpinWait
)

// String returns a human-readable name for the mode.
func (m CompletionMode) String() string {
	switch m {
	case EventWait:
		return "event"
	case SpinWait:
		return "spin"
	default:
		return "unknown"
	}
}

// Config carries the options a Context latches at construction.
// The zero value selects event completion, the detected device, a
// single-process communicator and a cached heuristic tuner.
type Config struct {
	Completion CompletionMode
	Dev        *device.Device    // nil: device.Detect()
	Comm       comm.Communicator // nil: comm.Single{}
	Tuner      tune.Tuner        // nil: tune.NewCache(tune.NewHeuristic(dev))
	Workers    int               // 0: one per CPU
}

// ConfigFromEnv resolves the environment toggle once and returns the
// resulting Config. Absent or unrecognized values select event completion.
func ConfigFromEnv() Config {
	var cfg Config
	if os.Getenv(fastReduceEnv) == "1" {
		cfg.Completion = SpinWait
	}
	return cfg
}

// Telemetry counts the work routed through a Context, from the per-algorithm
// flop and stream declarations. The counters inform tuning and reporting,
// never numerical behavior.
type Telemetry struct {
	Launches uint64
	Flops    uint64
	Bytes    uint64
}

// Context owns the process-shared reduction state: the device partial-sum
// buffer, the host-visible buffer and its device-side alias, the completion
// event and the completion mode. Construct with New, release with Close.
type Context struct {
	dev    *device.Device
	stream *device.Stream
	event  *device.Event

	deviceBuf []float64
	hostBuf   []float64
	hostAlias []float64 // device-visible alias of the host buffer
	mapped    bool

	mode  CompletionMode
	comm  comm.Communicator
	tuner tune.Tuner
	exec  parallel.Config

	maxBlocks int
	seq       uint64        // host-side launch counter
	sentinel  atomic.Uint64 // completion word of the host-visible buffer

	stats  Telemetry
	closed bool
}

// New allocates the reduction buffers and completion event for cfg and
// returns a live Context. The buffer footprint is computed from the device
// capability report: maxBlocks = 2 x multiprocessor count, and capacity
// covers the larger of the single-reduction and multi-reduction footprints.
// Buffer allocation failure is fatal; there is no degraded path.
func New(cfg Config) *Context {
	dev := cfg.Dev
	if dev == nil {
		dev = device.Detect()
	}
	cm := cfg.Comm
	if cm == nil {
		cm = comm.Single{}
	}
	tn := cfg.Tuner
	if tn == nil {
		tn = tune.NewCache(tune.NewHeuristic(dev))
	}
	exec := parallel.Config{Workers: cfg.Workers}
	if exec.Workers <= 0 {
		exec = parallel.DefaultConfig()
	}

	mode := cfg.Completion
	if mode == SpinWait {
		if !dev.CanMapHostMemory {
			log.Printf("reduce: spin-wait completion needs mapped host memory; falling back to event completion")
			mode = EventWait
		} else {
			log.Printf("reduce: experimental spin-wait completion enabled")
		}
	}

	maxBlocks := 2 * dev.Multiprocessors
	if maxBlocks < 1 {
		maxBlocks = 1
	}
	single := 2 * maxBlocks * tupleWords
	multi := single * MaxMultiN * MaxMultiN
	words := max(single, multi)

	c := &Context{
		dev:       dev,
		stream:    device.NewStream(),
		event:     device.NewEvent(),
		deviceBuf: make([]float64, words),
		hostBuf:   make([]float64, words), // zero-filled so diagnostics never read garbage sentinels
		mode:      mode,
		comm:      cm,
		tuner:     tn,
		exec:      exec,
		maxBlocks: maxBlocks,
	}

	if dev.CanMapHostMemory {
		// Mapped host memory: the device-visible alias is the host buffer
		// itself, distinct from the device buffer. The kernel epilogue writes
		// the folded result straight into host-visible memory.
		c.mapped = true
		c.hostAlias = c.hostBuf
	} else {
		// Pinned host memory: the device alias is the device buffer; the
		// host performs an explicit device-to-host step after completion.
		c.hostAlias = c.deviceBuf
	}

	return c
}

// Close releases the buffers and the event and nils all handles. Closing an
// already closed Context is a no-op, so init/teardown cycles are safe.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.stream.Close()
	c.deviceBuf = nil
	c.hostBuf = nil
	c.hostAlias = nil
	c.event = nil
	c.closed = true
}

// checkLive panics if the context has been closed; every operation calls it
// before touching the buffers.
func (c *Context) checkLive() {
	if c.closed {
		panic("reduce: context used after Close")
	}
}

// Device returns the capability report the context was sized from.
func (c *Context) Device() *device.Device { return c.dev }

// Mode returns the latched completion mode.
func (c *Context) Mode() CompletionMode { return c.mode }

// FastReduce reports whether spin-wait completion is in effect.
func (c *Context) FastReduce() bool { return c.mode == SpinWait }

// DeviceBuffer exposes the device partial-sum buffer. Read-only outside the
// engine.
func (c *Context) DeviceBuffer() []float64 { return c.deviceBuf }

// HostBuffer exposes the host-visible result buffer. Read-only outside the
// engine.
func (c *Context) HostBuffer() []float64 { return c.hostBuf }

// HostDeviceAlias exposes the device-visible alias of the host buffer: the
// host buffer itself under mapped memory, the device buffer otherwise.
func (c *Context) HostDeviceAlias() []float64 { return c.hostAlias }

// Event returns the completion event.
func (c *Context) Event() *device.Event { return c.event }

// MaxBlocks returns the partial-sum block capacity of the buffers.
func (c *Context) MaxBlocks() int { return c.maxBlocks }

// Comm returns the communicator applied to every extensive result.
func (c *Context) Comm() comm.Communicator { return c.comm }

// Stats returns a snapshot of the telemetry counters.
func (c *Context) Stats() Telemetry { return c.stats }

// precisionPanic aborts on an unsupported precision combination for an
// algorithm; no silent fallback exists.
func precisionPanic(op string, detail string) {
	panic(fmt.Sprintf("reduce: %s: unsupported combination: %s", op, detail))
}
