package cpu

// CPSR/SPSR bit positions used across the register file, interrupt entry,
// and PSR transfer instructions.
const (
	cpsrN = 1 << 31 // negative/less-than
	cpsrZ = 1 << 30 // zero
	cpsrC = 1 << 29 // carry/borrow/extend
	cpsrV = 1 << 28 // overflow

	cpsrIRQDisable = 1 << 7 // I: 1 masks IRQ
	cpsrFIQDisable = 1 << 6 // F: 1 masks FIQ
	cpsrThumb      = 1 << 5 // T: 1 selects Thumb state
)
