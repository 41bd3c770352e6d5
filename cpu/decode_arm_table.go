package cpu

import "github.com/armcore/arm7tdmi/isa"

// armHandler executes one decoded ARM instruction. The boolean/integer
// parameters the table closure captured at init() time (immediate bit, S
// bit, shift type, P/U/B/W/L bits, and so on) are exactly the bits the
// ARMv4T encoding carries in opcode[27:20] and opcode[7:4] — the same bits
// ArmSignature extracts — so nothing about the instruction's *shape* is
// re-derived at dispatch time, only its register fields and immediate
// payload, which live outside the signature.
type armHandler func(c *CPU, opcode uint32)

// Mask/bits pairs below are ported verbatim (same literal bit patterns)
// from original_source/arm7tdmi/arm7tdmi.hpp's armXxxMask/armXxxBits
// constants, which are already defined over the 12-bit signature space
// (bits 27:20 then 7:4) rather than the full 32-bit opcode. The case order
// of decodeArm's switch is copied from that file's decode<lutFillIndex>()
// exactly.
const (
	armUndefined1Mask uint16 = 0b1111_1011_0000
	armUndefined1Bits uint16 = 0b0011_0000_0000

	armUndefined2Mask uint16 = 0b1110_0000_0001
	armUndefined2Bits uint16 = 0b0110_0000_0001

	armUndefined3Mask uint16 = 0b1_1111_1111_1111 & 0xFFF
	armUndefined3Bits uint16 = 0b0_0001_0110_0001 & 0xFFF

	armUndefined4Mask uint16 = 0b1_1111_1001_1111 & 0xFFF
	armUndefined4Bits uint16 = 0b0_0001_0000_0101 & 0xFFF

	armMultiplyMask uint16 = 0b1111_1100_1111
	armMultiplyBits uint16 = 0b0000_0000_1001

	armMultiplyLongMask uint16 = 0b1111_1000_1111
	armMultiplyLongBits uint16 = 0b0000_1000_1001

	armPsrLoadMask uint16 = 0b1111_1011_1111
	armPsrLoadBits uint16 = 0b0001_0000_0000

	armPsrStoreRegMask uint16 = 0b1111_1011_1111
	armPsrStoreRegBits uint16 = 0b0001_0010_0000

	armPsrStoreImmediateMask uint16 = 0b1111_1011_0000
	armPsrStoreImmediateBits uint16 = 0b0011_0010_0000

	armSingleDataSwapMask uint16 = 0b1111_1011_1111
	armSingleDataSwapBits uint16 = 0b0001_0000_1001

	armBranchExchangeMask uint16 = 0b1111_1111_1111
	armBranchExchangeBits uint16 = 0b0001_0010_0001

	armHalfwordDataTransferMask uint16 = 0b1110_0000_1001
	armHalfwordDataTransferBits uint16 = 0b0000_0000_1001

	armDataProcessingMask uint16 = 0b1100_0000_0000
	armDataProcessingBits uint16 = 0b0000_0000_0000

	armSingleDataTransferMask uint16 = 0b1100_0000_0000
	armSingleDataTransferBits uint16 = 0b0100_0000_0000

	armBlockDataTransferMask uint16 = 0b1110_0000_0000
	armBlockDataTransferBits uint16 = 0b1000_0000_0000

	armBranchMask uint16 = 0b1110_0000_0000
	armBranchBits uint16 = 0b1010_0000_0000

	armCoprocessorDataTransferMask uint16 = 0b1110_0000_0000
	armCoprocessorDataTransferBits uint16 = 0b1100_0000_0000

	armCoprocessorDataOperationMask uint16 = 0b1111_0000_0001
	armCoprocessorDataOperationBits uint16 = 0b1110_0000_0000

	armCoprocessorRegisterTransferMask uint16 = 0b1111_0000_0001
	armCoprocessorRegisterTransferBits uint16 = 0b1110_0000_0001

	armSoftwareInterruptMask uint16 = 0b1111_0000_0000
	armSoftwareInterruptBits uint16 = 0b1111_0000_0000
)

var armTable [4096]armHandler

func init() {
	for sig := 0; sig < 4096; sig++ {
		idx := uint16(sig)
		armTable[sig] = decodeArm(idx)
	}
}

func decodeArm(idx uint16) armHandler {
	switch {
	case idx&armUndefined1Mask == armUndefined1Bits,
		idx&armUndefined2Mask == armUndefined2Bits,
		idx&armUndefined3Mask == armUndefined3Bits,
		idx&armUndefined4Mask == armUndefined4Bits:
		return execUndefinedArm

	case idx&armMultiplyMask == armMultiplyBits:
		accumulate := idx&0b0000_0010_0000 != 0
		sBit := idx&0b0000_0001_0000 != 0
		return func(c *CPU, opcode uint32) { c.execMultiply(opcode, accumulate, sBit) }

	case idx&armMultiplyLongMask == armMultiplyLongBits:
		signedMul := idx&0b0000_0100_0000 != 0
		accumulate := idx&0b0000_0010_0000 != 0
		sBit := idx&0b0000_0001_0000 != 0
		return func(c *CPU, opcode uint32) { c.execMultiplyLong(opcode, signedMul, accumulate, sBit) }

	case idx&armPsrLoadMask == armPsrLoadBits:
		targetSPSR := idx&0b0000_0100_0000 != 0
		return func(c *CPU, opcode uint32) { c.execMRS(opcode, targetSPSR) }

	case idx&armPsrStoreRegMask == armPsrStoreRegBits:
		targetSPSR := idx&0b0000_0100_0000 != 0
		return func(c *CPU, opcode uint32) { c.execMSRReg(opcode, targetSPSR) }

	case idx&armPsrStoreImmediateMask == armPsrStoreImmediateBits:
		targetSPSR := idx&0b0000_0100_0000 != 0
		return func(c *CPU, opcode uint32) { c.execMSRImmediate(opcode, targetSPSR) }

	case idx&armSingleDataSwapMask == armSingleDataSwapBits:
		byteWord := idx&0b0000_0100_0000 != 0
		return func(c *CPU, opcode uint32) { c.execSWP(opcode, byteWord) }

	case idx&armBranchExchangeMask == armBranchExchangeBits:
		return func(c *CPU, opcode uint32) { c.execBX(opcode) }

	case idx&armHalfwordDataTransferMask == armHalfwordDataTransferBits:
		prePostIndex := idx&0b0001_0000_0000 != 0
		upDown := idx&0b0000_1000_0000 != 0
		immediateOffset := idx&0b0000_0100_0000 != 0
		writeBack := idx&0b0000_0010_0000 != 0
		loadStore := idx&0b0000_0001_0000 != 0
		shBits := uint8((idx & 0b0000_0000_0110) >> 1)
		return func(c *CPU, opcode uint32) {
			c.execHalfwordDataTransfer(opcode, prePostIndex, upDown, immediateOffset, writeBack, loadStore, shBits)
		}

	case idx&armDataProcessingMask == armDataProcessingBits:
		immediate := idx&0b0010_0000_0000 != 0
		operation := uint8((idx & 0b0001_1110_0000) >> 5)
		sBit := idx&0b0000_0001_0000 != 0
		return func(c *CPU, opcode uint32) { c.execDataProcessing(opcode, immediate, operation, sBit) }

	case idx&armSingleDataTransferMask == armSingleDataTransferBits:
		immediate := idx&0b0010_0000_0000 != 0
		prePostIndex := idx&0b0001_0000_0000 != 0
		upDown := idx&0b0000_1000_0000 != 0
		byteWord := idx&0b0000_0100_0000 != 0
		writeBack := idx&0b0000_0010_0000 != 0
		loadStore := idx&0b0000_0001_0000 != 0
		return func(c *CPU, opcode uint32) {
			c.execSingleDataTransfer(opcode, immediate, prePostIndex, upDown, byteWord, writeBack, loadStore)
		}

	case idx&armBlockDataTransferMask == armBlockDataTransferBits:
		prePostIndex := idx&0b0001_0000_0000 != 0
		upDown := idx&0b0000_1000_0000 != 0
		sBit := idx&0b0000_0100_0000 != 0
		writeBack := idx&0b0000_0010_0000 != 0
		loadStore := idx&0b0000_0001_0000 != 0
		return func(c *CPU, opcode uint32) {
			c.execBlockDataTransfer(opcode, prePostIndex, upDown, sBit, writeBack, loadStore)
		}

	case idx&armBranchMask == armBranchBits:
		link := idx&0b0001_0000_0000 != 0
		return func(c *CPU, opcode uint32) { c.execBranch(opcode, link) }

	case idx&armCoprocessorDataTransferMask == armCoprocessorDataTransferBits,
		idx&armCoprocessorDataOperationMask == armCoprocessorDataOperationBits:
		return execUndefinedArm

	case idx&armCoprocessorRegisterTransferMask == armCoprocessorRegisterTransferBits:
		load := idx&0b0000_0001_0000 != 0
		return func(c *CPU, opcode uint32) { c.execCoprocessorRegisterTransfer(opcode, load) }

	case idx&armSoftwareInterruptMask == armSoftwareInterruptBits:
		return func(c *CPU, opcode uint32) { c.enterSWIArm() }

	default:
		return execUnknownArm
	}
}

func execUndefinedArm(c *CPU, opcode uint32) {
	c.enterUndefinedArm()
}

func execUnknownArm(c *CPU, opcode uint32) {
	c.bus.Log("no decode table entry for ARM signature %#x at PC=%#x", isa.ArmSignature(opcode), c.regs.Reg(15))
	c.bus.Hacf("arm decoder fell through")
}
