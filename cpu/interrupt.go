package cpu

import "github.com/armcore/arm7tdmi/isa"

// enterFIQ and enterIRQ are the two hardware-interrupt entry sequences
// sampled once at the top of Cycle. Both bank into their target mode with
// enterMode=true (so SPSR_fiq/SPSR_irq ← the pre-entry CPSR and CPSR.mode
// is rewritten, which as a side effect of BankRegisters also clears T —
// exception entry always lands in ARM state), mask both interrupt lines,
// and flush into the fixed vector.
//
// Grounded on original_source/arm7tdmi.hpp's serviceFiq/serviceIrq: the
// return-address adjustment is computed from the Thumb state observed
// *before* banking (oldThumb), since BankRegisters has already cleared T
// by the time R14 is assigned.
func (c *CPU) enterFIQ() {
	oldThumb := c.regs.CPSR()&cpsrThumb != 0

	c.regs.BankRegisters(c.bus, isa.ModeFIQ, true)
	var adjust uint32 = 4
	if oldThumb {
		adjust = 0
	}
	c.regs.SetReg(14, c.regs.Reg(15)-adjust)

	c.regs.SetCPSR(c.regs.CPSR() | cpsrIRQDisable | cpsrFIQDisable)
	c.regs.SetReg(15, 0x0000001C)
	c.flushPipeline()
}

func (c *CPU) enterIRQ() {
	oldThumb := c.regs.CPSR()&cpsrThumb != 0

	c.regs.BankRegisters(c.bus, isa.ModeIRQ, true)
	var adjust uint32 = 4
	if oldThumb {
		adjust = 0
	}
	c.regs.SetReg(14, c.regs.Reg(15)-adjust)

	c.regs.SetCPSR(c.regs.CPSR() | cpsrIRQDisable | cpsrFIQDisable)
	c.regs.SetReg(15, 0x00000018)
	c.flushPipeline()
}

// enterSWIArm and enterSWIThumb are software-interrupt entry from the ARM
// and Thumb SWI handlers respectively. The pipeline is advanced one more
// step *before* banking (so the already-fetched opcode isn't lost to the
// flush), then SVC mode is entered and the return address computed from
// R15's state at that point — always 8 (ARM) or 4 (Thumb) behind, since
// each call site already knows its own instruction width. Entry masks IRQ
// (sets CPSR.I) after SPSR_svc has saved the pre-entry CPSR; F is left as
// it was.
func (c *CPU) enterSWIArm() {
	c.fetchOpcode()
	c.regs.BankRegisters(c.bus, isa.ModeSVC, true)
	c.regs.SetReg(14, c.regs.Reg(15)-8)
	c.regs.SetCPSR(c.regs.CPSR() | cpsrIRQDisable)
	c.regs.SetReg(15, 0x00000008)
	c.flushPipeline()
}

func (c *CPU) enterSWIThumb() {
	c.fetchOpcode()
	c.regs.BankRegisters(c.bus, isa.ModeSVC, true)
	c.regs.SetReg(14, c.regs.Reg(15)-4)
	c.regs.SetCPSR(c.regs.CPSR() | cpsrIRQDisable)
	c.regs.SetReg(15, 0x00000008)
	c.flushPipeline()
}

// enterUndefinedArm and enterUndefinedThumb service an architecturally
// legal but undefined opcode by banking to UND mode and vectoring to 0x4.
// Unlike SWI, banking happens before the extra fetch (matching the
// original's ordering exactly); R14's adjustment is hardcoded per call site
// since each is only ever reached from its own instruction set's dispatch.
func (c *CPU) enterUndefinedArm() {
	c.regs.BankRegisters(c.bus, isa.ModeUND, true)
	c.regs.SetReg(14, c.regs.Reg(15)-4)
	c.fetchOpcode()
	c.regs.SetReg(15, 0x00000004)
	c.flushPipeline()
}

func (c *CPU) enterUndefinedThumb() {
	c.regs.BankRegisters(c.bus, isa.ModeUND, true)
	c.regs.SetReg(14, c.regs.Reg(15)-2)
	c.fetchOpcode()
	c.regs.SetReg(15, 0x00000004)
	c.flushPipeline()
}
