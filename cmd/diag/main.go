// Package main provides a small introspection tool for the decode tables
// and breakpoint bitmap, standing in for the teacher's cmd/spec-check.
package main

import (
	"fmt"

	"github.com/armcore/arm7tdmi/bus"
	"github.com/armcore/arm7tdmi/cpu"
)

func main() {
	fmt.Printf("ARM decode table:   %d entries\n", cpu.ArmTableSize())
	fmt.Printf("Thumb decode table: %d entries\n", cpu.ThumbTableSize())

	mem := bus.NewMemory(4096)
	core := cpu.NewCPU(mem, cpu.WithBreakpointsEnabled(true))

	sample := []uint32{0x00000000, 0x00001000, 0xDEADBEEC, 0xFFFFFFFC}
	for _, addr := range sample {
		core.AddBreakpoint(addr)
	}
	fmt.Printf("Breakpoint pages allocated for %d breakpoints: %d\n", len(sample), core.BreakpointPageCount())
	for _, addr := range sample[:len(sample)-1] {
		core.RemoveBreakpoint(addr)
	}
	fmt.Printf("Breakpoint pages allocated after removing %d: %d\n", len(sample)-1, core.BreakpointPageCount())
}
