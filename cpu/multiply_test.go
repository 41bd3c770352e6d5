package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ARM multiply", func() {
	It("computes MUL and charges the data-dependent booth cycle cost against the multiplier operand", func() {
		c, mem := newTestCPU()
		loadARM(mem, 0,
			armDPImmRotate(dpMOV, false, 0, 1, 6, 0), // r1 = 6
			armDPImmRotate(dpMOV, false, 0, 2, 7, 0), // r2 = 7
			armMUL(0, 1, 2, false),                   // MUL r0, r1, r2 (multiplier is Rs=r2=7)
		)
		before := mem.Cycles()
		run(c, 3)

		Expect(c.Reg(0)).To(Equal(uint32(42)))
		// multiplier=7=0b111: leading zeros=29, leading ones(of ^7=0xFFFFFFF8)=0,
		// m=29, boothCyclesRaw=(31-29)/8=0, booth=+1=1.
		Expect(mem.Cycles() - before).To(Equal(1))
	})

	It("adds the accumulate cycle on top of the booth cost for MLA", func() {
		c, mem := newTestCPU()
		loadARM(mem, 0,
			armDPImmRotate(dpMOV, false, 0, 1, 3, 0), // r1 = 3
			armDPImmRotate(dpMOV, false, 0, 2, 5, 0), // r2 = 5
			armDPImmRotate(dpMOV, false, 0, 3, 100, 0), // r3 = 100 (accumulator)
			armMULWithAccum(0, 3, 1, 2, false),       // MLA r0, r1, r2, r3 -> r1*r2+r3
		)
		before := mem.Cycles()
		run(c, 4)

		Expect(c.Reg(0)).To(Equal(uint32(115)))
		// multiplier=5=0b101: leading zeros=29, m=29, raw=0, booth=1, +1 accumulate = 2.
		Expect(mem.Cycles() - before).To(Equal(2))
	})

	It("sets Z and N from the 64-bit result for UMULL", func() {
		c, mem := newTestCPU()
		loadARM(mem, 0,
			armDP(dpMOV, false, 0, 1, 0),  // r1 = 0
			armDP(dpMOV, false, 0, 2, 0),  // r2 = 0
			armMULL(3, 4, 1, 2, false, false, true), // UMULLS r3, r4, r1, r2 -> 0
		)
		run(c, 3)

		Expect(c.Reg(3)).To(Equal(uint32(0)))
		Expect(c.Reg(4)).To(Equal(uint32(0)))
		Expect(c.CPSR() & flagZ).NotTo(BeZero())
	})

	It("sign-extends both operands for SMULL", func() {
		c, mem := newTestCPU()
		loadARM(mem, 0,
			armDP(dpMVN, false, 0, 1, 0),            // r1 = -1
			armDPImmRotate(dpMOV, false, 0, 2, 2, 0), // r2 = 2
			armMULL(3, 4, 1, 2, true, false, false), // SMULL r3, r4, r1, r2 -> -1*2 = -2
		)
		run(c, 3)

		Expect(c.Reg(4)).To(Equal(uint32(0xFFFFFFFE))) // RdLo: low 32 bits of -2
		Expect(c.Reg(3)).To(Equal(uint32(0xFFFFFFFF))) // RdHi: sign-extended high word
	})
})
