package cpu

import (
	"math/bits"

	"github.com/armcore/arm7tdmi/isa"
)

// execBlockDataTransfer implements LDM/STM. Grounded on
// arm7tdmi.hpp's blockDataTransfer:
//   - an empty register list still transfers R15 and bumps the base by
//     ±0x40, as if all sixteen registers had been named;
//   - writeback happens at the first register actually transferred, not
//     before or after the loop;
//   - the S bit forces access through the USR/SYS bank instead of the
//     active window when the current mode is privileged and (for LDM) R15
//     is not in the list — the one case where S instead means "also
//     restore CPSR from SPSR", handled by the trailing LeaveMode call;
//   - only the first bus access of the transfer is non-sequential.
func (c *CPU) execBlockDataTransfer(opcode uint32, prePostIndex, upDown, sBit, writeBack, loadStore bool) {
	baseReg := uint8((opcode >> 16) & 0xF)
	mode := c.regs.CurrentMode()
	useUserBank := sBit && !(loadStore && opcode&(1<<15) != 0) && mode != isa.ModeUSR && mode != isa.ModeSYS

	emptyList := opcode&0xFFFF == 0
	count := uint32(bits.OnesCount16(uint16(opcode)))

	address := c.regs.Reg(baseReg)
	var writeBackAddress uint32
	if upDown {
		writeBackAddress = address + count*4
		if emptyList {
			writeBackAddress += 0x40
		}
		if prePostIndex {
			address += 4
		}
	} else {
		address -= count * 4
		if emptyList {
			address -= 0x40
		}
		writeBackAddress = address
		if !prePostIndex {
			address += 4
		}
	}

	c.fetchOpcode()

	userBankBoundary := uint8(13)
	if mode == isa.ModeFIQ {
		userBankBoundary = 8
	}

	if loadStore {
		if emptyList {
			if writeBack {
				c.regs.SetReg(baseReg, writeBackAddress)
			}
			c.regs.SetReg(15, c.bus.Read(32, address, false, false))
			c.flushPipeline()
		} else {
			first := true
			for i := uint8(0); i < 16; i++ {
				if opcode&(1<<i) == 0 {
					continue
				}
				if first && writeBack {
					c.regs.SetReg(baseReg, writeBackAddress)
				}
				value := c.bus.Read(32, address, false, !first)
				if useUserBank && i >= userBankBoundary && i != 15 {
					c.regs.SetRegUserBank(i, value)
				} else {
					c.regs.SetReg(i, value)
				}
				address += 4
				first = false
			}
			c.bus.ICycle(int(c.cfg.LDRInternalCycles))
			if opcode&(1<<15) != 0 {
				c.flushPipeline()
			}
		}
	} else {
		if emptyList {
			c.bus.Write(32, address, c.regs.Reg(15), false)
			if writeBack {
				c.regs.SetReg(baseReg, writeBackAddress)
			}
		} else {
			first := true
			for i := uint8(0); i < 16; i++ {
				if opcode&(1<<i) == 0 {
					continue
				}
				var value uint32
				if useUserBank && i >= userBankBoundary && i != 15 {
					value = c.regs.RegUserBank(i)
				} else {
					value = c.regs.Reg(i)
				}
				c.bus.Write(32, address, value, !first)
				address += 4
				if first {
					if writeBack {
						c.regs.SetReg(baseReg, writeBackAddress)
					}
					first = false
				}
			}
		}
		c.nextFetchType = false
	}

	if sBit && loadStore && opcode&(1<<15) != 0 {
		c.regs.LeaveMode(c.bus)
	}
}
