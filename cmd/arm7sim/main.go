// Package main provides the entry point for arm7sim, the ARM7TDMI core's
// reference CLI runner.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/armcore/arm7tdmi/bus"
	"github.com/armcore/arm7tdmi/cpu"
	"github.com/armcore/arm7tdmi/timing"
)

var (
	memSize     = flag.Int("mem", 32*1024*1024, "backing memory size in bytes")
	loadAddr    = flag.Uint("addr", 0, "address to load the image at (execution always starts at address 0)")
	maxCycles   = flag.Uint64("max-cycles", 0, "stop after this many Cycle() calls (0 = unlimited)")
	timingPath  = flag.String("timing-config", "", "path to a timing configuration JSON file")
	fiqDisabled = flag.Bool("no-fiq", false, "keep FIQ permanently masked")
	verbose     = flag.Bool("v", false, "verbose (debug-level) logging")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: arm7sim [options] <image.bin>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	imagePath := flag.Arg(0)
	image, err := os.ReadFile(imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading image: %v\n", err)
		os.Exit(1)
	}

	exitCode, err := run(image, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

// run builds the bus and core, loads image at -addr, and drives Cycle()
// until the bus halts (Hacf) or -max-cycles is reached.
func run(image []byte, logger *slog.Logger) (int, error) {
	mem := bus.NewMemory(*memSize, bus.WithLogger(logger))
	mem.LoadAt(uint32(*loadAddr), image)

	cfg := timing.DefaultConfig()
	if *timingPath != "" {
		loaded, err := timing.LoadConfig(*timingPath)
		if err != nil {
			return 1, fmt.Errorf("loading timing config: %w", err)
		}
		cfg = loaded
	}

	opts := []cpu.Option{cpu.WithTimingConfig(cfg)}
	if *fiqDisabled {
		opts = append(opts, cpu.WithFIQDisabled())
	}
	core := cpu.NewCPU(mem, opts...)

	logger.Info("loaded image", "path", flag.Arg(0), "bytes", len(image), "addr", *loadAddr)

	var cycles uint64
	for !mem.Halted() {
		core.Cycle()
		cycles++
		if *maxCycles > 0 && cycles >= *maxCycles {
			logger.Info("stopped at cycle limit", "cycles", cycles)
			return 0, nil
		}
	}

	logger.Info("halted", "reason", mem.HaltReason(), "cycles", cycles, "pc", core.Reg(15))
	return 2, nil
}
