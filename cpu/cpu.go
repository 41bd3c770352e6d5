// Package cpu implements the ARM7TDMI (ARMv4T) interpreter core: register
// banking, the barrel shifter, the precomputed ARM/Thumb dispatch tables,
// and the instruction semantics that drive them. The core never touches
// memory directly — every access goes through the bus.Bus the host supplies
// to NewCPU.
package cpu

import (
	"github.com/armcore/arm7tdmi/bus"
	"github.com/armcore/arm7tdmi/isa"
	"github.com/armcore/arm7tdmi/timing"
)

// CPU is one ARM7TDMI core: the register file, the three-slot prefetch
// pipeline, the breakpoint bitmap, and the host bus it issues every access
// through.
//
// Grounded on the teacher's emu.Emulator (emu/emulator.go): a single struct
// bundling register file, host collaborator, and options, constructed
// through a functional-option chain rather than exported-field literal
// construction.
type CPU struct {
	regs        Registers
	bus         bus.Bus
	breakpoints breakpointTable
	cfg         *timing.Config

	p1, p2, p3    uint32
	nextFetchType bool // true = sequential

	fiqDisabled        bool
	breakpointsEnabled bool
}

// Option configures a CPU at construction time.
type Option func(*CPU)

// WithTimingConfig overrides the default internal-cycle cost table.
func WithTimingConfig(cfg *timing.Config) Option {
	return func(c *CPU) {
		c.cfg = cfg
	}
}

// WithFIQDisabled keeps FIQ permanently masked regardless of CPSR.F (Cycle
// never takes FIQ, and every MSR write has F forced to 1), for hosts that
// never wire a FIQ source.
func WithFIQDisabled() Option {
	return func(c *CPU) {
		c.fiqDisabled = true
	}
}

// WithBreakpointsEnabled turns on the breakpoint bitmap check at the end of
// every Cycle. Off by default: a host running without AddBreakpoint calls
// pays nothing for the feature.
func WithBreakpointsEnabled(enabled bool) Option {
	return func(c *CPU) {
		c.breakpointsEnabled = enabled
	}
}

// NewCPU constructs a CPU wired to b and immediately resets it.
func NewCPU(b bus.Bus, opts ...Option) *CPU {
	c := &CPU{
		bus:         b,
		breakpoints: newBreakpointTable(),
		cfg:         timing.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset()
	return c
}

// Reset puts the register file in its power-up state and fills the
// pipeline from the reset vector (address 0).
func (c *CPU) Reset() {
	c.regs.Reset()
	c.nextFetchType = false
	c.flushPipeline()
}

// AddBreakpoint marks addr as a breakpoint. Must not be called concurrently
// with Cycle.
func (c *CPU) AddBreakpoint(addr uint32) {
	c.breakpoints.Add(addr)
}

// RemoveBreakpoint clears a previously set breakpoint. Must not be called
// concurrently with Cycle.
func (c *CPU) RemoveBreakpoint(addr uint32) {
	c.breakpoints.Remove(addr)
}

// CPSR returns the current program status register, for hosts that want to
// inspect flags or mode between cycles.
func (c *CPU) CPSR() uint32 { return c.regs.CPSR() }

// BreakpointPageCount reports how many 64KB breakpoint-bitmap pages are
// currently allocated. Diagnostic only, for tooling that wants a cheap
// picture of breakpoint density without walking the address space.
func (c *CPU) BreakpointPageCount() int { return c.breakpoints.PageCount() }

// ArmTableSize and ThumbTableSize report the size of the precomputed decode
// tables, for tooling that wants to confirm the build without reaching into
// package internals.
func ArmTableSize() int   { return len(armTable) }
func ThumbTableSize() int { return len(thumbTable) }

// Reg reads general register n (0-15).
func (c *CPU) Reg(n uint8) uint32 { return c.regs.Reg(n) }

// checkCondition evaluates cond against the current NZCV flags. An opcode
// whose condition field somehow carries a value outside 0-15 cannot occur —
// the field is four bits wide by construction — so cond.Eval's exhaustive
// switch always has a case to take.
func (c *CPU) checkCondition(cond isa.Cond) bool {
	cpsr := c.regs.CPSR()
	return cond.Eval(cpsr&cpsrN != 0, cpsr&cpsrZ != 0, cpsr&cpsrC != 0, cpsr&cpsrV != 0)
}

// Cycle executes exactly one instruction or one interrupt entry: it samples
// the host's interrupt lines and, if FIQ or IRQ is pending and unmasked,
// enters that interrupt and executes nothing else; otherwise it dispatches
// the opcode sitting in p3 to its ARM or Thumb handler. Finally it checks
// the breakpoint bitmap against the address of the instruction that is now
// about to execute.
//
// Grounded on original_source/arm7tdmi.hpp's top-level step function: FIQ is
// checked ahead of IRQ (FIQ has architectural priority), both checks happen
// before dispatch so a pending interrupt preempts the fetched-but-not-yet-
// executed opcode, and the breakpoint test happens after dispatch against
// the (possibly just-branched) new PC rather than the one just executed.
func (c *CPU) Cycle() {
	cpsr := c.regs.CPSR()

	if !c.fiqDisabled && cpsr&cpsrFIQDisable == 0 && c.bus.PendingFIQ() {
		c.enterFIQ()
	} else if cpsr&cpsrIRQDisable == 0 && c.bus.PendingIRQ() {
		c.enterIRQ()
	} else if cpsr&cpsrThumb != 0 {
		opcode := uint16(c.p3)
		thumbTable[isa.ThumbSignature(opcode)](c, opcode)
	} else {
		opcode := c.p3
		cond := isa.Cond(opcode >> 28)
		if c.checkCondition(cond) {
			armTable[isa.ArmSignature(opcode)](c, opcode)
		} else {
			// A failed condition never reaches the handler at all — it only
			// advances the pipeline, exactly as if the instruction were a
			// single-cycle no-op fetch.
			c.fetchOpcode()
		}
	}

	if c.breakpointsEnabled {
		width := c.instructionWidth()
		next := c.regs.Reg(15) - 2*width
		if c.breakpoints.Test(next) {
			c.bus.Breakpoint()
		}
	}
}
