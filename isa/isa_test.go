package isa_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/armcore/arm7tdmi/isa"
)

var _ = Describe("Cond", func() {
	DescribeTable("evaluates the NZCV truth table",
		func(cond isa.Cond, n, z, c, v, want bool) {
			Expect(cond.Eval(n, z, c, v)).To(Equal(want))
		},
		Entry("EQ true", isa.CondEQ, false, true, false, false, true),
		Entry("EQ false", isa.CondEQ, false, false, false, false, false),
		Entry("NE", isa.CondNE, false, false, false, false, true),
		Entry("CS", isa.CondCS, false, false, true, false, true),
		Entry("CC", isa.CondCC, false, false, false, false, true),
		Entry("MI", isa.CondMI, true, false, false, false, true),
		Entry("PL", isa.CondPL, false, false, false, false, true),
		Entry("VS", isa.CondVS, false, false, false, true, true),
		Entry("VC", isa.CondVC, false, false, false, false, true),
		Entry("HI true", isa.CondHI, false, false, true, false, true),
		Entry("HI false (Z set)", isa.CondHI, false, true, true, false, false),
		Entry("LS true (C clear)", isa.CondLS, false, false, false, false, true),
		Entry("GE true (N==V)", isa.CondGE, true, false, false, true, true),
		Entry("LT true (N!=V)", isa.CondLT, true, false, false, false, true),
		Entry("GT true", isa.CondGT, false, false, false, false, true),
		Entry("LE true (Z set)", isa.CondLE, false, true, false, false, true),
		Entry("AL always true", isa.CondAL, false, false, false, false, true),
		Entry("NV always true (reserved)", isa.CondNV, false, false, false, false, true),
	)
})

var _ = Describe("Mode", func() {
	It("accepts the seven architectural modes", func() {
		for _, m := range []isa.Mode{isa.ModeUSR, isa.ModeFIQ, isa.ModeIRQ, isa.ModeSVC, isa.ModeABT, isa.ModeUND, isa.ModeSYS} {
			Expect(m.Valid()).To(BeTrue())
			Expect(m & 0x10).To(Equal(isa.Mode(0x10)), "bit 4 of every legal mode must be 1")
		}
	})

	It("rejects an arbitrary unbanked value", func() {
		Expect(isa.Mode(0x00).Valid()).To(BeFalse())
	})

	It("treats every mode but USR as privileged", func() {
		Expect(isa.ModeUSR.Privileged()).To(BeFalse())
		Expect(isa.ModeSYS.Privileged()).To(BeTrue())
		Expect(isa.ModeSVC.Privileged()).To(BeTrue())
	})
})

var _ = Describe("signature extraction", func() {
	It("extracts the ARM 12-bit signature from bits 27:20 and 7:4", func() {
		// MOVS r0, #0 -> 0xE3B00000
		// bits 27:20 = 0x3B, bits 7:4 = 0x0 -> signature 0x3B0
		Expect(isa.ArmSignature(0xE3B00000)).To(Equal(uint16(0x3B0)))
	})

	It("extracts the Thumb 10-bit signature from bits 15:6", func() {
		var opcode uint16 = 0b1100_0001_0100_0001 // arbitrary LDMIA-shaped encoding
		want := (opcode >> 6) & 0x3FF
		Expect(isa.ThumbSignature(opcode)).To(Equal(want))
	})

	It("is exhaustive over the ARM signature space", func() {
		Expect(isa.ArmSignature(0xFFFFFFFF)).To(BeNumerically("<", 4096))
		Expect(isa.ArmSignature(0x00000000)).To(BeNumerically(">=", 0))
	})

	It("is exhaustive over the Thumb signature space", func() {
		Expect(isa.ThumbSignature(0xFFFF)).To(BeNumerically("<", 1024))
	})
})
