// Package bus defines the narrow contract the CPU core requires from its
// host: typed memory access, internal-cycle timing, a breakpoint hook, and
// an unrecoverable-error hook. The core never holds a reference to the bus
// outside the duration of a single Cycle call.
package bus

// Bus is the collaborator the core consumes. Widths are always 8, 16, or
// 32. The code/data flag on reads is set by the core itself: fetches pass
// isCode=true, every other access passes isCode=false. seq distinguishes a
// sequential bus access (contiguous with the previous one) from a
// non-sequential one, matching real ARM7TDMI wait-state accounting.
type Bus interface {
	// Read returns a zero-extended value of the given width from addr.
	Read(width uint8, addr uint32, isCode, seq bool) uint32

	// Write stores the low `width` bits of value at addr.
	Write(width uint8, addr uint32, value uint32, seq bool)

	// ICycle advances time by n internal cycles with no associated bus
	// access (used by shift-by-register, multiply, LDR, SWP, and block
	// transfer).
	ICycle(n int)

	// Breakpoint is invoked once per Cycle when the address of the
	// next-to-execute instruction has a breakpoint bit set.
	Breakpoint()

	// Hacf ("halt and catch fire") is invoked for architecturally
	// impossible conditions: a decode table miss, or an invalid mode
	// reaching bankRegisters. reason is a human-readable diagnostic; for a
	// decode table miss the core has already logged the offending
	// signature/PC before calling this.
	Hacf(reason string)

	// Log is a text sink for core-side diagnostics.
	Log(format string, args ...any)

	// PendingFIQ and PendingIRQ report the host-driven interrupt lines,
	// sampled once at the top of every Cycle.
	PendingFIQ() bool
	PendingIRQ() bool
}
