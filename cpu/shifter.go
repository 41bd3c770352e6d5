package cpu

import "github.com/armcore/arm7tdmi/isa"

// shift computes the barrel-shifted operand and shifter-carry-out for a
// register-shift or immediate-shift data-processing/single-data-transfer
// operand. immediate distinguishes an opcode-immediate shift amount (where
// amount 0 carries special per-type meaning) from a register-sourced one
// (where amount 0 always just preserves the value and carryIn).
//
// Grounded bit-for-bit on original_source/arm7tdmi.hpp's shifter edge
// cases; stylistically modeled on the teacher's applyShift32/applyShift64
// free functions in emu/emulator.go (plain switch over a ShiftType), here
// extended to also return the shifter-carry-out the ARM64 model never
// needed.
func shift(shiftType isa.ShiftType, value uint32, amount uint8, immediate bool, carryIn bool) (uint32, bool) {
	switch shiftType {
	case isa.ShiftLSL:
		return shiftLSL(value, amount, carryIn)
	case isa.ShiftLSR:
		return shiftLSR(value, amount, immediate, carryIn)
	case isa.ShiftASR:
		return shiftASR(value, amount, immediate, carryIn)
	case isa.ShiftROR:
		return shiftROR(value, amount, immediate, carryIn)
	default:
		return value, carryIn
	}
}

func shiftLSL(value uint32, amount uint8, carryIn bool) (uint32, bool) {
	switch {
	case amount == 0:
		return value, carryIn
	case amount < 32:
		carry := (value>>(32-amount))&1 != 0
		return value << amount, carry
	case amount == 32:
		return 0, value&1 != 0
	default:
		return 0, false
	}
}

func shiftLSR(value uint32, amount uint8, immediate bool, carryIn bool) (uint32, bool) {
	if amount == 0 {
		if immediate {
			amount = 32 // LSR #0 in the encoding means LSR #32
		} else {
			return value, carryIn
		}
	}
	switch {
	case amount < 32:
		carry := (value>>(amount-1))&1 != 0
		return value >> amount, carry
	case amount == 32:
		return 0, value>>31 != 0
	default:
		return 0, false
	}
}

func shiftASR(value uint32, amount uint8, immediate bool, carryIn bool) (uint32, bool) {
	if !immediate && amount == 0 {
		// Register-sourced shift amount of zero leaves the operand and
		// carry untouched, regardless of shift type.
		return value, carryIn
	}
	if (immediate && amount == 0) || amount > 31 {
		if value>>31 != 0 {
			return 0xFFFFFFFF, true
		}
		return 0, false
	}
	carry := (value>>(amount-1))&1 != 0
	return uint32(int32(value) >> amount), carry
}

func shiftROR(value uint32, amount uint8, immediate bool, carryIn bool) (uint32, bool) {
	if amount == 0 {
		if immediate {
			// RRX: rotate right through carry by one bit.
			var c uint32
			if carryIn {
				c = 1
			}
			return (value >> 1) | (c << 31), value&1 != 0
		}
		return value, carryIn
	}
	if !immediate && amount&31 == 0 {
		return value, value>>31 != 0
	}
	amt := amount & 31
	result := value>>amt | value<<(32-amt)
	return result, result>>31 != 0
}

// rotateImmediate computes a data-processing immediate operand: an 8-bit
// immediate rotated right by twice the 4-bit rotate field.
func rotateImmediate(imm8 uint32, rotateField uint8, carryIn bool) (uint32, bool) {
	if rotateField == 0 {
		return imm8, carryIn
	}
	amt := (rotateField * 2) & 31
	result := imm8>>amt | imm8<<(32-amt)
	return result, result>>31 != 0
}
