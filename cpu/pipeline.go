package cpu

// The three-slot prefetch buffer (CPU.p1, p2, p3) is shared by both
// instruction sets: p3 is executed this cycle, p2 is next, and p1 holds the
// word the latest fetch read, which that fetch also moves on into p2.
// Widths are always stored as 32-bit words; Thumb fetches zero-extend into
// the low halfword.
//
// Grounded on original_source/arm7tdmi.hpp's fetchOpcode/flushPipeline
// (exact slot-shift and R15 arithmetic). The teacher's ARM64 model has no
// prefetch queue to generalize from; JetSetIlly-Gopher2600's harmony
// arm7tdmi core supplied the idiomatic Go naming for the seq/non-seq fetch
// hint (CPU.nextFetchType mirrors its own N/S cycle-type bookkeeping).

// instructionWidth returns 4 for ARM state, 2 for Thumb.
func (c *CPU) instructionWidth() uint32 {
	if c.regs.CPSR()&cpsrThumb != 0 {
		return 2
	}
	return 4
}

// fetchOpcode shifts p2 into p3, fetches the next opcode into p1 (and from
// there into p2) from the address in R15, then advances R15 by one
// instruction width.
func (c *CPU) fetchOpcode() {
	width := c.instructionWidth()
	c.p3 = c.p2

	pc := c.regs.Reg(15)
	if width == 2 {
		c.p1 = c.bus.Read(16, pc, true, c.nextFetchType)
	} else {
		c.p1 = c.bus.Read(32, pc, true, c.nextFetchType)
	}
	c.p2 = c.p1
	c.regs.SetReg(15, pc+width)
	c.nextFetchType = true
}

// flushPipeline re-synchronizes the prefetch queue to R15 after a branch,
// mode change, or any other PC write: it aligns R15 down to the
// instruction-width boundary, then advances it by two instruction widths so
// the newly aligned target becomes p3. The first access issued is
// non-sequential, the second sequential.
func (c *CPU) flushPipeline() {
	width := c.instructionWidth()
	target := c.regs.Reg(15) &^ (width - 1)

	if width == 2 {
		c.p3 = c.bus.Read(16, target, true, false)
		c.p2 = c.bus.Read(16, target+width, true, true)
	} else {
		c.p3 = c.bus.Read(32, target, true, false)
		c.p2 = c.bus.Read(32, target+width, true, true)
	}
	c.regs.SetReg(15, target+2*width)
	c.nextFetchType = true
}
