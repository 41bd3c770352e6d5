package cpu

import "math/bits"

// execMultiply implements MUL/MLA. Grounded on arm7tdmi.hpp's multiply: the
// extra fetch happens immediately after reading the multiplier operand, Rd
// is written unconditionally unless it names r15 (architecturally
// undefined, silently dropped rather than flushing the pipeline), and the
// multiplier-dependent cycle cost is charged last regardless of what else
// ran.
func (c *CPU) execMultiply(opcode uint32, accumulate bool, sBit bool) {
	destReg := uint8((opcode >> 16) & 0xF)
	multiplier := c.regs.Reg(uint8((opcode >> 8) & 0xF))
	c.fetchOpcode()

	result := multiplier * c.regs.Reg(uint8(opcode&0xF))
	if accumulate {
		result += c.regs.Reg(uint8((opcode >> 12) & 0xF))
		c.bus.ICycle(int(c.cfg.MultiplyAccumulateCycles))
	}
	if destReg != 15 {
		c.regs.SetReg(destReg, result)
	}
	if sBit {
		c.regs.SetCPSR(setNZ(c.regs.CPSR(), result))
	}

	c.bus.ICycle(boothCycles(multiplier))
}

// execMultiplyLong implements UMULL/UMLAL/SMULL/SMLAL.
func (c *CPU) execMultiplyLong(opcode uint32, signedMul bool, accumulate bool, sBit bool) {
	destLow := uint8((opcode >> 12) & 0xF)
	destHigh := uint8((opcode >> 16) & 0xF)
	multiplier := c.regs.Reg(uint8((opcode >> 8) & 0xF))
	c.fetchOpcode()

	var result uint64
	var cycles int
	if signedMul {
		result = uint64(int64(int32(multiplier)) * int64(int32(c.regs.Reg(uint8(opcode&0xF)))))
		cycles = boothCycles(multiplier)
	} else {
		result = uint64(multiplier) * uint64(c.regs.Reg(uint8(opcode&0xF)))
		cycles = (31-bits.LeadingZeros32(multiplier))/8 + 1
	}
	if accumulate {
		result += uint64(c.regs.Reg(destHigh))<<32 | uint64(c.regs.Reg(destLow))
		c.bus.ICycle(int(c.cfg.MultiplyAccumulateCycles))
	}
	if sBit {
		cpsr := c.regs.CPSR()
		cpsr = setFlag(cpsr, cpsrN, result>>63 != 0)
		cpsr = setFlag(cpsr, cpsrZ, result == 0)
		c.regs.SetCPSR(cpsr)
	}

	c.bus.ICycle(cycles + int(c.cfg.MultiplyLongCycles))

	if destLow != 15 {
		c.regs.SetReg(destLow, uint32(result))
	}
	if destHigh != 15 {
		c.regs.SetReg(destHigh, uint32(result>>32))
	}
}

// boothCycles computes the data-dependent multiplier cost for ARM's MUL,
// MLA, and the signed long-multiply forms.
func boothCycles(multiplier uint32) int {
	return boothCyclesRaw(multiplier) + 1
}

// boothCyclesRaw is the shared core of the multiplier-cost formula: the
// position of the highest bit that differs from its neighbor, counting
// from either end, measured in whole bytes. ARM's MUL/MLA/SMULL/SMLAL add
// one to this; Thumb's MUL does not.
func boothCyclesRaw(multiplier uint32) int {
	lz := bits.LeadingZeros32(multiplier)
	lo := bits.LeadingZeros32(^multiplier)
	m := lz
	if lo > m {
		m = lo
	}
	return (31 - m) / 8
}
