package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ARM branch and PSR transfer", func() {
	It("branches forward and sets LR on BL", func() {
		c, mem := newTestCPU()
		loadARM(mem, 0,
			armB(true, 2), // BL forward by 2 words from the instruction after the one this offset is relative to
		)
		loadARM(mem, 0x10, armDPImmRotate(dpMOV, false, 0, 0, 0x99, 0))
		run(c, 1)

		// R15 reads 8 (the instruction's address plus 8, by ARM's pipeline
		// convention) when the offset is added, so address = 8 + 2*4 = 0x10.
		// BL's own fetch then advances R15 to 12, so LR = 12 - 8 = 4.
		Expect(c.Reg(15)).To(Equal(uint32(0x10 + 8)))
		Expect(c.Reg(14)).To(Equal(uint32(4)))

		run(c, 1)
		Expect(c.Reg(0)).To(Equal(uint32(0x99)))
	})

	It("switches to Thumb state via BX when Rm's bit 0 is set", func() {
		c, mem := newTestCPU()
		loadThumb(mem, 0x200, thumbALUImmediate(0, 0, 0x22)) // MOV r0, #0x22 (Thumb)
		loadARM(mem, 0,
			armDPImmRotate(dpMOV, false, 0, 1, 0x80, 15), // r1 = 0x80 ROR 30 = 0x200
			armDP(dpADD, false, 1, 1, 1),                 // r1 += 1 -> 0x201 (bit0 set -> Thumb)
			armBX(1),
		)
		run(c, 3)
		Expect(c.CPSR() & (1 << 5)).NotTo(BeZero()) // T bit set

		run(c, 1)
		Expect(c.Reg(0)).To(Equal(uint32(0x22)))
	})

	It("writes only the flags field when MSR's flags-field bit is set, leaving the mode untouched", func() {
		c, mem := newTestCPU()
		loadARM(mem, 0,
			armMSRImmRotate(false, 0x8, 0x80, 4), // MSR CPSR_f, #0x80000000 (N flag)
		)
		run(c, 1)

		Expect(c.CPSR() & flagN).NotTo(BeZero())
		// Mode/control byte (SVC, I, F from reset) must be untouched: only
		// the flags field (bit 19) was selected.
		Expect(c.CPSR() & 0xFF).To(Equal(uint32(0xD3)))
	})

	It("round-trips CPSR through MRS then back via MSR register form unchanged", func() {
		c, mem := newTestCPU()
		loadARM(mem, 0,
			armMRS(0, false),         // r0 = CPSR
			armMSRReg(false, 0x1, 0), // MSR CPSR_c, r0 (writes the same control byte back)
		)
		before := uint32(0xD3) // SVC mode, I and F set, reset state
		run(c, 2)

		Expect(c.CPSR() & 0xFF).To(Equal(before & 0xFF))
	})

	It("enters SVC mode and vectors to 0x08 on SWI", func() {
		c, mem := newTestCPU()
		loadARM(mem, 0, armSWI())
		run(c, 1)

		Expect(c.Reg(15)).To(Equal(uint32(0x08 + 8)))
		Expect(c.Reg(14)).To(Equal(uint32(4))) // return address: instruction after SWI
	})
})
