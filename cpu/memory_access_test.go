package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ARM single data transfer", func() {
	It("stores and loads a word round-trip through STR/LDR", func() {
		c, mem := newTestCPU()
		loadARM(mem, 0,
			armDPImmRotate(dpMOV, false, 0, 1, 0xAB, 0),         // r1 = 0xAB
			armDPImmRotate(dpMOV, false, 0, 2, 0x20, 0),         // r2 = 0x20 (base address)
			armLDRSTR(false, false, true, true, false, 2, 1, 0), // STR r1, [r2]
			armLDRSTR(true, false, true, true, false, 2, 3, 0),  // LDR r3, [r2]
		)
		run(c, 4)

		Expect(c.Reg(3)).To(Equal(uint32(0xAB)))
	})

	It("rotates a misaligned word load instead of faulting", func() {
		c, mem := newTestCPU()
		mem.Write32(0x40, 0x12345678)
		loadARM(mem, 0,
			armDPImmRotate(dpMOV, false, 0, 1, 0x41, 0),         // r1 = 0x41 (one byte past alignment)
			armLDRSTR(true, false, true, true, false, 1, 0, 0), // LDR r0, [r1]
		)
		run(c, 2)

		// Address 0x41 reads the word at 0x40 (0x12345678) rotated right by
		// 8 bits: 0x78123456.
		Expect(c.Reg(0)).To(Equal(uint32(0x78123456)))
	})

	It("sign-extends a byte load via LDRSB", func() {
		c, mem := newTestCPU()
		mem.Write8(0x50, 0xFF) // -1
		loadARM(mem, 0,
			armDPImmRotate(dpMOV, false, 0, 1, 0x50, 0),
			armHalfword(true, true, true, false, 1, 0, 2, 0), // LDRSB r0, [r1]
		)
		run(c, 2)
		Expect(c.Reg(0)).To(Equal(uint32(0xFFFFFFFF)))
	})

	It("sign-extends LDRSH from bit 7, not bit 15, on an odd address", func() {
		c, mem := newTestCPU()
		// Halfword at the aligned address 0x60 is 0x1234; an access to the
		// odd address 0x61 rotates it to 0x0012 and then this core's LDRSH
		// sign-extends from bit 7 of the rotated byte (0x12, positive) per
		// the ARM7TDMI's documented silicon quirk.
		mem.Write16(0x60, 0x1234)
		loadARM(mem, 0,
			armDPImmRotate(dpMOV, false, 0, 1, 0x61, 0),
			armHalfword(true, true, true, false, 1, 0, 3, 0), // LDRSH r0, [r1]
		)
		run(c, 2)
		Expect(c.Reg(0)).To(Equal(uint32(0x00000012)))
	})

	It("swaps memory and register atomically via SWP", func() {
		c, mem := newTestCPU()
		mem.Write32(0x70, 0xDEADBEEF)
		loadARM(mem, 0,
			armDPImmRotate(dpMOV, false, 0, 1, 0x70, 0), // r1 = address
			armDPImmRotate(dpMOV, false, 0, 2, 0x42, 0), // r2 = new value
			armSWP(false, 1, 0, 2),                      // SWP r0, r2, [r1]
		)
		run(c, 3)

		Expect(c.Reg(0)).To(Equal(uint32(0xDEADBEEF)))
		Expect(mem.Read32(0x70)).To(Equal(uint32(0x42)))
	})

	It("flushes the pipeline when LDR targets r15", func() {
		c, mem := newTestCPU()
		mem.Write32(0x80, 0x100) // branch target address
		loadARM(mem, 0,
			armDPImmRotate(dpMOV, false, 0, 1, 0x80, 0),
			armLDRSTR(true, false, true, true, false, 1, 15, 0), // LDR r15, [r1]
		)
		loadARM(mem, 0x100, armDPImmRotate(dpMOV, false, 0, 0, 0x77, 0))
		run(c, 3)

		Expect(c.Reg(0)).To(Equal(uint32(0x77)))
	})
})
