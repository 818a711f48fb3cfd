// Package main provides the Krylo CLI.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/krylo-hpc/krylo/field"
	"github.com/krylo-hpc/krylo/reduce"
)

const version = "v0.1.0-dev"

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "version":
		fmt.Printf("Krylo %s\n", version)
	case "info":
		info()
	case "bench":
		bench()
	default:
		fmt.Println("Krylo - Fused Reductions for Krylov Solvers")
		fmt.Printf("Version: %s\n\n", version)
		fmt.Println("Commands:")
		fmt.Println("  version    Show version")
		fmt.Println("  info       Show the detected device and reduction configuration")
		fmt.Println("  bench      Run a short fused-reduction benchmark")
	}
}

func info() {
	ctx := reduce.New(reduce.ConfigFromEnv())
	defer ctx.Close()

	dev := ctx.Device()
	fmt.Printf("Device:        %s (%s)\n", dev.Name, dev.Backend)
	fmt.Printf("Processors:    %d\n", dev.Multiprocessors)
	fmt.Printf("Mapped memory: %v\n", dev.CanMapHostMemory)
	if len(dev.Features) > 0 {
		fmt.Printf("Features:      %s\n", strings.Join(dev.Features, " "))
	}
	fmt.Printf("Completion:    %s\n", ctx.Mode())
	fmt.Printf("Max blocks:    %d\n", ctx.MaxBlocks())
}

func bench() {
	ctx := reduce.New(reduce.ConfigFromEnv())
	defer ctx.Close()

	const n = 1 << 20
	r := rand.New(rand.NewSource(42))
	vals := make([]complex128, n)
	for i := range vals {
		vals[i] = complex(2*r.Float64()-1, 2*r.Float64()-1)
	}
	x, err := field.FromComplex(vals, field.Double)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	y, _ := field.FromComplex(vals, field.Double)

	const iters = 50
	start := time.Now()
	for i := 0; i < iters; i++ {
		ctx.CaxpyNorm(complex(1e-3, 0), x, y)
	}
	elapsed := time.Since(start)

	stats := ctx.Stats()
	gflops := float64(stats.Flops) / elapsed.Seconds() / 1e9
	gbps := float64(stats.Bytes) / elapsed.Seconds() / 1e9
	fmt.Printf("caxpyNorm: %d elements x %d iterations in %v\n", n, iters, elapsed)
	fmt.Printf("  %.2f GFLOP/s, %.2f GB/s (%s completion)\n", gflops, gbps, ctx.Mode())
}
