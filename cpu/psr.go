package cpu

import "github.com/armcore/arm7tdmi/isa"

// execMRS implements MRS: copy CPSR, or the current mode's SPSR, into Rd.
// In USR/SYS mode — which have no SPSR — an MRS targeting SPSR reads CPSR
// instead, matching the teacher's SPSR()-returns-false fallback.
func (c *CPU) execMRS(opcode uint32, targetSPSR bool) {
	destReg := uint8((opcode >> 12) & 0xF)
	value := c.regs.CPSR()
	if targetSPSR {
		if spsr, ok := c.regs.SPSR(); ok {
			value = spsr
		}
	}
	c.regs.SetReg(destReg, value)
	c.fetchOpcode()
}

// execMSRReg implements MSR with a register-sourced operand.
func (c *CPU) execMSRReg(opcode uint32, targetSPSR bool) {
	operand := c.regs.Reg(uint8(opcode & 0xF))
	c.writePSR(opcode, targetSPSR, operand)
	c.fetchOpcode()
}

// execMSRImmediate implements MSR with a rotated-immediate operand. Like
// the register form, whether the control byte (and therefore the mode
// field) is written is decided at runtime by opcode bit 16, not by the
// encoding choice between register and immediate operand.
func (c *CPU) execMSRImmediate(opcode uint32, targetSPSR bool) {
	operand, _ := rotateImmediate(opcode&0xFF, uint8((opcode>>8)&0xF), false)
	c.writePSR(opcode, targetSPSR, operand)
	c.fetchOpcode()
}

// writePSR assembles CPSR/SPSR's new value from operand and the current
// value of the target PSR, honoring the flags-field bit (19) and
// control-field bit (16) independently, and — for a CPSR write with the
// control field selected — re-banks into operand's mode field without
// touching CPSR itself (the banking here writes the mode bits directly, so
// BankRegisters must not also rewrite them).
//
// Grounded bit-for-bit on original_source/arm7tdmi.hpp's psrStoreReg and
// psrStoreImmediate: in USR/SYS mode targeting SPSR is a no-op (there is no
// SPSR to write, and the banked register's pointer would be left
// uninitialized on the C++ side, so execution there just returns early
// after issuing its one fetch).
func (c *CPU) writePSR(opcode uint32, targetSPSR bool, operand uint32) {
	mode := c.regs.CurrentMode()
	if targetSPSR && !mode.HasSPSR() {
		return
	}

	var current uint32
	if targetSPSR {
		current, _ = c.regs.SPSR()
	} else {
		current = c.regs.CPSR()
	}

	var result uint32
	if opcode&(1<<19) != 0 {
		result |= operand & 0xF0000000
	} else {
		result |= current & 0xF0000000
	}

	if opcode&(1<<16) != 0 && mode != isa.ModeUSR {
		result |= operand & 0x000000FF
		if !targetSPSR {
			c.regs.BankRegisters(c.bus, isa.Mode(operand&0x1F), false)
		}
	} else {
		result |= current & 0x000000FF
	}

	result |= 0x10 // M[4] is architecturally always 1
	if c.fiqDisabled {
		result |= cpsrFIQDisable
	}

	if targetSPSR {
		c.regs.SetSPSR(result)
	} else {
		c.regs.SetCPSR(result)
	}
}
