// Package isa provides the architectural constants and pure decode-support
// functions shared by the ARM and Thumb sides of the ARMv4T instruction set:
// condition codes, processor modes, shift types, and the bit-signature
// extraction used to index the core's precomputed dispatch tables.
//
// Nothing in this package touches CPU state; every function here is a pure
// mapping from bits to architectural meaning, so it can be exercised and
// tested without a register file, a bus, or a pipeline.
package isa

// Cond is a 4-bit ARM/Thumb condition code, held in bits 31..28 of every ARM
// opcode and in bits 11..8 of a Thumb conditional-branch opcode.
type Cond uint8

// Condition codes. The bit pattern matches the ARMv4T architecture
// reference exactly; NV (0b1111) is architecturally reserved but, per
// ARMv4, still evaluates as always-true.
const (
	CondEQ Cond = 0b0000 // Z set
	CondNE Cond = 0b0001 // Z clear
	CondCS Cond = 0b0010 // C set (unsigned higher or same)
	CondCC Cond = 0b0011 // C clear (unsigned lower)
	CondMI Cond = 0b0100 // N set
	CondPL Cond = 0b0101 // N clear
	CondVS Cond = 0b0110 // V set
	CondVC Cond = 0b0111 // V clear
	CondHI Cond = 0b1000 // C set and Z clear
	CondLS Cond = 0b1001 // C clear or Z set
	CondGE Cond = 0b1010 // N == V
	CondLT Cond = 0b1011 // N != V
	CondGT Cond = 0b1100 // Z clear and N == V
	CondLE Cond = 0b1101 // Z set or N != V
	CondAL Cond = 0b1110 // always
	CondNV Cond = 0b1111 // reserved, always (ARMv4)
)

// Eval decides whether cond is satisfied by the given NZCV flags. Grounded
// on the teacher's emu.BranchUnit.CheckCondition switch; the bit patterns
// and flag tests are unchanged between ARM64 and ARMv4T condition fields.
func (cond Cond) Eval(n, z, c, v bool) bool {
	switch cond {
	case CondEQ:
		return z
	case CondNE:
		return !z
	case CondCS:
		return c
	case CondCC:
		return !c
	case CondMI:
		return n
	case CondPL:
		return !n
	case CondVS:
		return v
	case CondVC:
		return !v
	case CondHI:
		return c && !z
	case CondLS:
		return !c || z
	case CondGE:
		return n == v
	case CondLT:
		return n != v
	case CondGT:
		return !z && (n == v)
	case CondLE:
		return z || (n != v)
	case CondAL, CondNV:
		return true
	default:
		return false
	}
}

// ShiftType is the two-bit shift-operation selector from a data-processing
// or single-data-transfer register-shift opcode field.
type ShiftType uint8

// Shift types, as encoded in opcode bits 6:5 of a shifted-register operand.
const (
	ShiftLSL ShiftType = 0b00
	ShiftLSR ShiftType = 0b01
	ShiftASR ShiftType = 0b10
	ShiftROR ShiftType = 0b11
)

// Mode is a CPSR/SPSR processor mode field (bits 4:0). Bit 4 is always 1 on
// a legal mode value; the five-bit raw encodings below are the values
// actually stored in CPSR, not a sequential enum, so they can round-trip
// through CPSR without translation.
type Mode uint8

// Processor modes. USR and SYS share one register bank (no SPSR); the other
// five each have a private R13/R14 and SPSR, and FIQ additionally shadows
// R8-R12.
const (
	ModeUSR Mode = 0x10
	ModeFIQ Mode = 0x11
	ModeIRQ Mode = 0x12
	ModeSVC Mode = 0x13
	ModeABT Mode = 0x17
	ModeUND Mode = 0x1B
	ModeSYS Mode = 0x1F
)

// Valid reports whether m is one of the seven architecturally defined
// modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeUSR, ModeFIQ, ModeIRQ, ModeSVC, ModeABT, ModeUND, ModeSYS:
		return true
	default:
		return false
	}
}

// Privileged reports whether m is a mode other than USR (every privileged
// mode has its own banked R13/R14; SYS shares USR's bank but still runs
// privileged).
func (m Mode) Privileged() bool {
	return m != ModeUSR
}

// HasSPSR reports whether m has a banked SPSR. USR and SYS have none — there
// is no exception entry that lands in either, so any CPSR write that banks
// into one of them must never touch an SPSR slot.
func (m Mode) HasSPSR() bool {
	return m != ModeUSR && m != ModeSYS
}

// String names a mode for logging and test failure output.
func (m Mode) String() string {
	switch m {
	case ModeUSR:
		return "USR"
	case ModeFIQ:
		return "FIQ"
	case ModeIRQ:
		return "IRQ"
	case ModeSVC:
		return "SVC"
	case ModeABT:
		return "ABT"
	case ModeUND:
		return "UND"
	case ModeSYS:
		return "SYS"
	default:
		return "???"
	}
}

// ArmSignature extracts the 12-bit table index used by the core's ARM
// dispatch table: opcode bits 27:20 concatenated with bits 7:4.
func ArmSignature(opcode uint32) uint16 {
	hi := (opcode >> 20) & 0xFF
	lo := (opcode >> 4) & 0xF
	return uint16(hi<<4 | lo)
}

// ThumbSignature extracts the 10-bit table index used by the core's Thumb
// dispatch table: opcode bits 15:6.
func ThumbSignature(opcode uint16) uint16 {
	return (opcode >> 6) & 0x3FF
}
