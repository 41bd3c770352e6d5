package cpu

// execCoprocessorRegisterTransfer implements MRC/MCR. Only coprocessor 14
// (the debug coprocessor) is architecturally present on an ARM7TDMI without
// an external coprocessor attached, and even that one has nothing behind
// it here — the access is accepted (so software probing for CP14 doesn't
// trap) but moves no data. Every other coprocessor number is undefined.
//
// Grounded on arm7tdmi.hpp's armCoprocessorRegisterTransfer, which carries
// the same comment about being "just barely stubbed to pass a test".
func (c *CPU) execCoprocessorRegisterTransfer(opcode uint32, load bool) {
	copNum := (opcode >> 8) & 0xF
	if copNum != 14 {
		c.enterUndefinedArm()
		return
	}
	c.fetchOpcode()
}
