package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ARM block data transfer", func() {
	It("stores multiple registers with STMIA and advances the base by writeback", func() {
		c, mem := newTestCPU()
		loadARM(mem, 0,
			armDPImmRotate(dpMOV, false, 0, 1, 0x10, 0),       // r1 = 0x10 (base)
			armDPImmRotate(dpMOV, false, 0, 2, 0xAA, 0),       // r2 = 0xAA
			armDPImmRotate(dpMOV, false, 0, 3, 0xBB, 0),       // r3 = 0xBB
			armLDM(false, true, false, true, false, 1, 0b1100), // STMIA r1!, {r2,r3}
		)
		run(c, 4)

		Expect(mem.Read32(0x10)).To(Equal(uint32(0xAA)))
		Expect(mem.Read32(0x14)).To(Equal(uint32(0xBB)))
		Expect(c.Reg(1)).To(Equal(uint32(0x18)))
	})

	It("loads multiple registers with LDMIA from a fixed base", func() {
		c, mem := newTestCPU()
		mem.Write32(0x20, 0x1111)
		mem.Write32(0x24, 0x2222)
		loadARM(mem, 0,
			armDPImmRotate(dpMOV, false, 0, 1, 0x20, 0),
			armLDM(false, true, false, false, true, 1, 0b1100), // LDMIA r1, {r2,r3}
		)
		run(c, 2)

		Expect(c.Reg(2)).To(Equal(uint32(0x1111)))
		Expect(c.Reg(3)).To(Equal(uint32(0x2222)))
	})

	It("transfers only r15 and moves the base by 0x40 for an empty register list", func() {
		c, mem := newTestCPU()
		mem.Write32(0x104, 0x999) // read address is base+4: IB pre-increments before the transfer
		loadARM(mem, 0,
			armDPImmRotate(dpMOV, false, 0, 1, 1, 12), // r1 = 0x100 (imm8=1 rotated right 24)
			armLDM(true, true, false, true, true, 1, 0), // LDMIB r1!, {} (empty list)
		)
		run(c, 2)

		Expect(c.Reg(1)).To(Equal(uint32(0x100 + 0x40)))
	})

	It("triggers LeaveMode when S is set and r15 is in the LDM register list", func() {
		c, mem := newTestCPU()
		mem.Write32(0x200, 0x55) // r0's loaded value
		mem.Write32(0x204, 0x10) // new PC
		loadARM(mem, 0,
			armDPImmRotate(dpMOV, false, 0, 1, 0x80, 15), // r1 = 0x200 (imm8=0x80 rotated right 30)
			armMSRImm(true, 0x1, 0x10), // SPSR_svc = USR mode, so LeaveMode lands somewhere valid
			armLDM(false, true, true, false, true, 1, 0b1000_0000_0000_0001), // LDMIA r1, {r0,pc}^
		)
		run(c, 3)

		Expect(c.Reg(0)).To(Equal(uint32(0x55)))
		Expect(mem.Halted()).To(BeFalse())
		Expect(c.Reg(15)).To(BeNumerically(">=", uint32(0x10)))
	})
})
