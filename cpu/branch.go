package cpu

// execBranch implements B and BL. The branch target is computed from R15
// before the instruction's own fetchOpcode call advances it, matching
// arm7tdmi.hpp's branch: the 24-bit signed word offset is shifted left two
// bits and sign-extended by shifting a byte-aligned 32-bit value right six
// (not two) places, since the offset field itself was already shifted left
// eight to reach the top of the word.
func (c *CPU) execBranch(opcode uint32, link bool) {
	offset := int32((opcode&0x00FFFFFF)<<8) >> 6
	address := c.regs.Reg(15) + uint32(offset)
	c.fetchOpcode()

	if link {
		c.regs.SetReg(14, c.regs.Reg(15)-8)
	}
	c.regs.SetReg(15, address)
	c.flushPipeline()
}

// execBX implements BX: switch instruction sets per Rm's bit 0, then branch
// to Rm with that bit (and, for ARM state, the low two alignment bits)
// masked off.
func (c *CPU) execBX(opcode uint32) {
	rm := c.regs.Reg(uint8(opcode & 0xF))
	newThumb := rm&1 != 0

	newAddress := rm &^ 3
	if newThumb {
		newAddress = rm &^ 1
	}
	c.fetchOpcode()

	c.regs.SetCPSR(setFlag(c.regs.CPSR(), cpsrThumb, newThumb))
	c.regs.SetReg(15, newAddress)
	c.flushPipeline()
}
