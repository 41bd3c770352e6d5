package cpu

import (
	"math/bits"

	"github.com/armcore/arm7tdmi/isa"
)

// rotateMisaligned implements the ARM7TDMI's misaligned-load rotation: a
// word or halfword read from an address that isn't naturally aligned
// rotates the bus's (aligned, wrapped) result right by the misalignment in
// bits rather than faulting. width is the access width in bytes (2 or 4).
func rotateMisaligned(value uint32, address uint32, width uint8) uint32 {
	shift := (address & (uint32(width) - 1)) * 8
	return bits.RotateLeft32(value, -int(shift))
}

// execSWP implements SWP/SWPB: a read and a write to the same address with
// no other bus access between them.
func (c *CPU) execSWP(opcode uint32, byteWord bool) {
	address := c.regs.Reg(uint8((opcode >> 16) & 0xF))
	srcReg := uint8(opcode & 0xF)
	destReg := uint8((opcode >> 12) & 0xF)
	c.fetchOpcode()

	var result uint32
	if byteWord {
		result = c.bus.Read(8, address, false, true)
		c.bus.Write(8, address, c.regs.Reg(srcReg), false)
	} else {
		result = rotateMisaligned(c.bus.Read(32, address, false, true), address, 4)
		c.bus.Write(32, address, c.regs.Reg(srcReg), false)
	}
	c.regs.SetReg(destReg, result)
	c.bus.ICycle(int(c.cfg.SWPInternalCycles))

	if destReg == 15 {
		c.flushPipeline()
	}
}

// execHalfwordDataTransfer implements LDRH/STRH/LDRSB/LDRSH and their
// immediate/register-offset, pre/post-index, up/down variants. shBits
// carries the SH field straight from the opcode: 1=halfword, 2=signed
// byte, 3=signed halfword (0 never reaches here — that signature belongs
// to the single-data-swap/multiply families instead).
//
// Grounded on arm7tdmi.hpp's halfwordDataTransfer, including the hardware
// quirk in LDRSH: a misaligned signed-halfword load rotates like any other
// misaligned halfword access, then sign-extends from bit 7 of the rotated
// byte rather than bit 15 — the real ARM7TDMI silicon bug this models
// reads the wrong byte's sign when the address is odd.
func (c *CPU) execHalfwordDataTransfer(opcode uint32, prePostIndex, upDown, immediateOffset, writeBack, loadStore bool, shBits uint8) {
	baseReg := uint8((opcode >> 16) & 0xF)
	srcDestReg := uint8((opcode >> 12) & 0xF)

	var offset uint32
	if immediateOffset {
		offset = ((opcode & 0xF00) >> 4) | (opcode & 0xF)
	} else {
		offset = c.regs.Reg(uint8(opcode & 0xF))
	}

	address := c.regs.Reg(baseReg)
	if prePostIndex {
		if upDown {
			address += offset
		} else {
			address -= offset
		}
	}
	c.fetchOpcode()

	var result uint32
	if loadStore {
		switch shBits {
		case 1: // LDRH
			result = rotateMisaligned(c.bus.Read(16, address, false, false), address, 2)
		case 2: // LDRSB
			result = uint32(int32(c.bus.Read(8, address, false, false)<<24) >> 24)
		case 3: // LDRSH
			result = rotateMisaligned(c.bus.Read(16, address, false, false), address, 2)
			if address&1 != 0 {
				result = uint32(int32(result<<24) >> 24)
			} else {
				result = uint32(int32(result<<16) >> 16)
			}
		}
	} else {
		if shBits == 1 { // STRH
			c.bus.Write(16, address, c.regs.Reg(srcDestReg), false)
		}
		c.nextFetchType = false
	}

	if writeBack && prePostIndex {
		c.regs.SetReg(baseReg, address)
	}
	if !prePostIndex {
		if upDown {
			address += offset
		} else {
			address -= offset
		}
		c.regs.SetReg(baseReg, address)
	}
	if loadStore {
		c.regs.SetReg(srcDestReg, result)
		c.bus.ICycle(int(c.cfg.LDRInternalCycles))
		if srcDestReg == 15 {
			c.flushPipeline()
		}
	}
}

// execSingleDataTransfer implements LDR/STR/LDRB/STRB. Despite its name,
// "immediate" here is opcode bit 25 exactly as the ARM reference manual
// defines it for this family — true means the offset is a shifted
// register, false means it is the raw 12-bit immediate field — which is
// the opposite sense from the data-processing immediate bit. Kept under
// the same name the decode table already uses for it.
func (c *CPU) execSingleDataTransfer(opcode uint32, immediate, prePostIndex, upDown, byteWord, writeBack, loadStore bool) {
	baseReg := uint8((opcode >> 16) & 0xF)
	srcDestReg := uint8((opcode >> 12) & 0xF)

	offset := c.computeTransferOffset(opcode, immediate)

	address := c.regs.Reg(baseReg)
	if prePostIndex {
		if upDown {
			address += offset
		} else {
			address -= offset
		}
	}
	c.fetchOpcode()

	var result uint32
	if loadStore {
		if byteWord {
			result = c.bus.Read(8, address, false, false)
		} else {
			result = rotateMisaligned(c.bus.Read(32, address, false, false), address, 4)
		}
	} else {
		if byteWord {
			c.bus.Write(8, address, c.regs.Reg(srcDestReg), false)
		} else {
			c.bus.Write(32, address, c.regs.Reg(srcDestReg), false)
		}
		c.nextFetchType = false
	}

	if writeBack && prePostIndex {
		c.regs.SetReg(baseReg, address)
	}
	if !prePostIndex {
		if upDown {
			address += offset
		} else {
			address -= offset
		}
		c.regs.SetReg(baseReg, address)
	}
	if loadStore {
		c.regs.SetReg(srcDestReg, result)
		c.bus.ICycle(int(c.cfg.LDRInternalCycles))
		if srcDestReg == 15 {
			c.flushPipeline()
		}
	}
}

// computeTransferOffset evaluates the single-data-transfer offset field:
// the raw 12-bit immediate when regShifted is false, or a barrel-shifted
// register operand (same shifter as data processing, carry-out discarded)
// when true.
func (c *CPU) computeTransferOffset(opcode uint32, regShifted bool) uint32 {
	if !regShifted {
		return opcode & 0xFFF
	}

	cpsr := c.regs.CPSR()
	carryIn := cpsr&cpsrC != 0
	shiftType := isa.ShiftType((opcode >> 5) & 3)
	value := c.regs.Reg(uint8(opcode & 0xF))

	if opcode&(1<<4) != 0 {
		amount := uint8(c.regs.Reg(uint8((opcode>>8)&0xF)) & 0xFF)
		result, _ := shift(shiftType, value, amount, false, carryIn)
		return result
	}
	amount := uint8((opcode >> 7) & 0x1F)
	result, _ := shift(shiftType, value, amount, true, carryIn)
	return result
}
