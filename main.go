// Package main is a stub entry point for this module's ARM7TDMI core.
//
// For the full CLI, use: go run ./cmd/arm7sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("arm7tdmi - ARMv4T interpreter core")
	fmt.Println("")
	fmt.Println("Usage: arm7sim [options] <image.bin>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -addr           address to load the image at (execution starts at 0)")
	fmt.Println("  -mem            backing memory size in bytes")
	fmt.Println("  -max-cycles     stop after this many Cycle() calls")
	fmt.Println("  -timing-config  path to a timing configuration JSON file")
	fmt.Println("  -no-fiq         keep FIQ permanently masked")
	fmt.Println("  -v              verbose (debug-level) logging")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/arm7sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/arm7sim' instead.")
	}
}
