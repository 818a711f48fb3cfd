// Package device describes the execution device the reduction engine runs on
// and provides the launch primitives: grid/block geometry, ordered execution
// streams and completion events.
//
// The engine executes on the host; a device here is the capability report the
// buffer manager sizes itself from. Detect probes for a WebGPU adapter first
// so the report names the accelerator when one is present, and always falls
// back to the CPU.
package device

import (
	"runtime"
	"strconv"

	"golang.org/x/sys/cpu"
)

// Device reports the capabilities the reduction engine sizes itself from.
type Device struct {
	Name             string
	Backend          string // "webgpu" or "cpu"
	Multiprocessors  int    // parallel execution units; bounds the partial-sum block count
	CanMapHostMemory bool   // host buffer may be aliased device-side
	Features         []string
}

// Detect queries the available compute device. A WebGPU adapter is probed
// first; when none is available the CPU device is reported. The probe never
// fails: a missing native library degrades to the CPU report.
func Detect() *Device {
	d := &Device{
		Name:             "CPU",
		Backend:          "cpu",
		Multiprocessors:  runtime.NumCPU(),
		CanMapHostMemory: strconv.IntSize == 64,
		Features:         cpuFeatures(),
	}
	if name, err := probeAdapter(); err == nil && name != "" {
		d.Name = name
		d.Backend = "webgpu"
	}
	return d
}

// cpuFeatures summarizes the SIMD capabilities of the host CPU.
func cpuFeatures() []string {
	var fs []string
	if cpu.X86.HasAVX2 {
		fs = append(fs, "avx2")
	}
	if cpu.X86.HasAVX512F {
		fs = append(fs, "avx512f")
	}
	if cpu.X86.HasFMA {
		fs = append(fs, "fma")
	}
	if cpu.ARM64.HasASIMD {
		fs = append(fs, "asimd")
	}
	if cpu.ARM64.HasSVE {
		fs = append(fs, "sve")
	}
	return fs
}
