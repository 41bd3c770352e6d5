package cpu

import "github.com/armcore/arm7tdmi/isa"

// thumbHandler executes one decoded Thumb instruction, analogous to
// armHandler but over the 10-bit Thumb signature (opcode bits 15:6).
type thumbHandler func(c *CPU, opcode uint16)

// Mask/bits pairs ported verbatim from arm7tdmi.hpp's thumbXxxMask/Bits
// constants and decodeThumb<lutFillIndex>()'s priority order.
const (
	thumbAddSubtractMask uint16 = 0b1111_1000_00
	thumbAddSubtractBits uint16 = 0b0001_1000_00

	thumbMoveShiftedRegMask uint16 = 0b1110_0000_00
	thumbMoveShiftedRegBits uint16 = 0b0000_0000_00

	thumbAluImmediateMask uint16 = 0b1110_0000_00
	thumbAluImmediateBits uint16 = 0b0010_0000_00

	thumbAluRegMask uint16 = 0b1111_1100_00
	thumbAluRegBits uint16 = 0b0100_0000_00

	thumbHighRegOperationMask uint16 = 0b1111_1100_00
	thumbHighRegOperationBits uint16 = 0b0100_0100_00

	thumbPcRelativeLoadMask uint16 = 0b1111_1000_00
	thumbPcRelativeLoadBits uint16 = 0b0100_1000_00

	thumbLoadStoreRegOffsetMask uint16 = 0b1111_0010_00
	thumbLoadStoreRegOffsetBits uint16 = 0b0101_0000_00

	thumbLoadStoreSextMask uint16 = 0b1111_0010_00
	thumbLoadStoreSextBits uint16 = 0b0101_0010_00

	thumbLoadStoreImmediateOffsetMask uint16 = 0b1110_0000_00
	thumbLoadStoreImmediateOffsetBits uint16 = 0b0110_0000_00

	thumbLoadStoreHalfwordMask uint16 = 0b1111_0000_00
	thumbLoadStoreHalfwordBits uint16 = 0b1000_0000_00

	thumbSpRelativeLoadStoreMask uint16 = 0b1111_0000_00
	thumbSpRelativeLoadStoreBits uint16 = 0b1001_0000_00

	thumbLoadAddressMask uint16 = 0b1111_0000_00
	thumbLoadAddressBits uint16 = 0b1010_0000_00

	thumbSpAddOffsetMask uint16 = 0b1111_1111_00
	thumbSpAddOffsetBits uint16 = 0b1011_0000_00

	thumbPushPopRegistersMask uint16 = 0b1111_0110_00
	thumbPushPopRegistersBits uint16 = 0b1011_0100_00

	thumbMultipleLoadStoreMask uint16 = 0b1111_0000_00
	thumbMultipleLoadStoreBits uint16 = 0b1100_0000_00

	thumbUndefined1Mask uint16 = 0b1111_1111_00
	thumbUndefined1Bits uint16 = 0b1101_1110_00

	thumbSoftwareInterruptMask uint16 = 0b1111_1111_00
	thumbSoftwareInterruptBits uint16 = 0b1101_1111_00

	thumbConditionalBranchMask uint16 = 0b1111_0000_00
	thumbConditionalBranchBits uint16 = 0b1101_0000_00

	thumbUnconditionalBranchMask uint16 = 0b1111_1000_00
	thumbUnconditionalBranchBits uint16 = 0b1110_0000_00

	thumbUndefined2Mask uint16 = 0b1111_1000_00
	thumbUndefined2Bits uint16 = 0b1110_1000_00

	thumbLongBranchLinkMask uint16 = 0b1111_0000_00
	thumbLongBranchLinkBits uint16 = 0b1111_0000_00
)

var thumbTable [1024]thumbHandler

func init() {
	for sig := 0; sig < 1024; sig++ {
		idx := uint16(sig)
		thumbTable[sig] = decodeThumb(idx)
	}
}

func decodeThumb(idx uint16) thumbHandler {
	switch {
	case idx&thumbAddSubtractMask == thumbAddSubtractBits:
		isSub := idx&0b0000_0010_00 != 0
		immediate := idx&0b0000_0100_00 != 0
		rnOrImm := uint8(idx & 0b0000_0001_11)
		return func(c *CPU, opcode uint16) { c.execThumbAddSubtract(opcode, isSub, immediate, rnOrImm) }

	case idx&thumbMoveShiftedRegMask == thumbMoveShiftedRegBits:
		op := uint8((idx & 0b0001_1000_00) >> 5)
		amount := uint8(idx & 0b0000_0111_11)
		return func(c *CPU, opcode uint16) { c.execThumbMoveShiftedReg(opcode, op, amount) }

	case idx&thumbAluImmediateMask == thumbAluImmediateBits:
		op := uint8((idx & 0b0001_1000_00) >> 5)
		rd := uint8((idx & 0b0000_0111_00) >> 2)
		return func(c *CPU, opcode uint16) { c.execThumbAluImmediate(opcode, op, rd) }

	case idx&thumbAluRegMask == thumbAluRegBits:
		op := uint8(idx & 0b0000_0011_11)
		return func(c *CPU, opcode uint16) { c.execThumbAluReg(opcode, op) }

	case idx&thumbHighRegOperationMask == thumbHighRegOperationBits:
		op := uint8((idx & 0b0000_0011_00) >> 2)
		h1 := idx&0b0000_0000_10 != 0
		h2 := idx&0b0000_0000_01 != 0
		return func(c *CPU, opcode uint16) { c.execThumbHighRegOperation(opcode, op, h1, h2) }

	case idx&thumbPcRelativeLoadMask == thumbPcRelativeLoadBits:
		rd := uint8((idx & 0b0000_0111_00) >> 2)
		return func(c *CPU, opcode uint16) { c.execThumbPcRelativeLoad(opcode, rd) }

	case idx&thumbLoadStoreRegOffsetMask == thumbLoadStoreRegOffsetBits:
		loadStore := idx&0b0000_1000_00 != 0
		byteWord := idx&0b0000_0100_00 != 0
		return func(c *CPU, opcode uint16) { c.execThumbLoadStoreRegOffset(opcode, loadStore, byteWord) }

	case idx&thumbLoadStoreSextMask == thumbLoadStoreSextBits:
		hsBits := uint8((idx & 0b0000_1100_00) >> 4)
		return func(c *CPU, opcode uint16) { c.execThumbLoadStoreSext(opcode, hsBits) }

	case idx&thumbLoadStoreImmediateOffsetMask == thumbLoadStoreImmediateOffsetBits:
		byteWord := idx&0b0001_0000_00 != 0
		loadStore := idx&0b0000_1000_00 != 0
		return func(c *CPU, opcode uint16) { c.execThumbLoadStoreImmediateOffset(opcode, byteWord, loadStore) }

	case idx&thumbLoadStoreHalfwordMask == thumbLoadStoreHalfwordBits:
		loadStore := idx&0b0000_1000_00 != 0
		return func(c *CPU, opcode uint16) { c.execThumbLoadStoreHalfword(opcode, loadStore) }

	case idx&thumbSpRelativeLoadStoreMask == thumbSpRelativeLoadStoreBits:
		loadStore := idx&0b0000_1000_00 != 0
		rd := uint8((idx & 0b0000_0111_00) >> 2)
		return func(c *CPU, opcode uint16) { c.execThumbSpRelativeLoadStore(opcode, loadStore, rd) }

	case idx&thumbLoadAddressMask == thumbLoadAddressBits:
		sp := idx&0b0000_1000_00 != 0
		rd := uint8((idx & 0b0000_0111_00) >> 2)
		return func(c *CPU, opcode uint16) { c.execThumbLoadAddress(opcode, sp, rd) }

	case idx&thumbSpAddOffsetMask == thumbSpAddOffsetBits:
		negative := idx&0b0000_0000_10 != 0
		return func(c *CPU, opcode uint16) { c.execThumbSpAddOffset(opcode, negative) }

	case idx&thumbPushPopRegistersMask == thumbPushPopRegistersBits:
		loadStore := idx&0b0000_1000_00 != 0
		pcLr := idx&0b0000_0001_00 != 0
		return func(c *CPU, opcode uint16) { c.execThumbPushPopRegisters(opcode, loadStore, pcLr) }

	case idx&thumbMultipleLoadStoreMask == thumbMultipleLoadStoreBits:
		loadStore := idx&0b0000_1000_00 != 0
		rb := uint8((idx & 0b0000_0111_00) >> 2)
		return func(c *CPU, opcode uint16) { c.execThumbMultipleLoadStore(opcode, loadStore, rb) }

	case idx&thumbUndefined1Mask == thumbUndefined1Bits:
		return execUndefinedThumb

	case idx&thumbSoftwareInterruptMask == thumbSoftwareInterruptBits:
		return func(c *CPU, opcode uint16) { c.enterSWIThumb() }

	case idx&thumbConditionalBranchMask == thumbConditionalBranchBits:
		cond := isa.Cond((idx & 0b0000_1111_00) >> 2)
		return func(c *CPU, opcode uint16) { c.execThumbConditionalBranch(opcode, cond) }

	case idx&thumbUnconditionalBranchMask == thumbUnconditionalBranchBits:
		return func(c *CPU, opcode uint16) { c.execThumbUnconditionalBranch(opcode) }

	case idx&thumbUndefined2Mask == thumbUndefined2Bits:
		return execUndefinedThumb

	case idx&thumbLongBranchLinkMask == thumbLongBranchLinkBits:
		low := idx&0b0000_1000_00 != 0
		return func(c *CPU, opcode uint16) { c.execThumbLongBranchLink(opcode, low) }

	default:
		return execUnknownThumb
	}
}

func execUndefinedThumb(c *CPU, opcode uint16) {
	c.enterUndefinedThumb()
}

func execUnknownThumb(c *CPU, opcode uint16) {
	c.bus.Log("no decode table entry for Thumb signature %#x at PC=%#x", isa.ThumbSignature(opcode), c.regs.Reg(15))
	c.bus.Hacf("thumb decoder fell through")
}
