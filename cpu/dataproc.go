package cpu

import "github.com/armcore/arm7tdmi/isa"

// execDataProcessing implements all sixteen ARM data-processing opcodes
// (AND..MVN) behind one entry point, closing over the immediate/operation/S
// bits the table already decoded.
//
// Grounded bit-for-bit on original_source/arm7tdmi.hpp's dataProcessing:
// note the fetchOpcode ordering. A register-shifted operand costs an extra
// internal fetch issued *before* the shift amount and Rm are read (so a
// shift-by-register instruction sees R15 already advanced by one
// instruction width when Rm or Rs is r15 — the classic "PC+12" read); an
// immediate-shifted operand instead issues its one fetchOpcode call after
// the ALU result is computed, same as every other ARM instruction.
func (c *CPU) execDataProcessing(opcode uint32, immediate bool, operation uint8, sBit bool) {
	shiftReg := !immediate && opcode&(1<<4) != 0
	if shiftReg {
		c.fetchOpcode()
	}

	operand2, shifterCarry := c.computeDataProcessingOperand2(opcode, immediate)

	cpsr := c.regs.CPSR()
	carryIn := cpsr&cpsrC != 0
	operationCarry := carryIn
	operationOverflow := cpsr&cpsrV != 0

	operand1 := c.regs.Reg(uint8((opcode >> 16) & 0xF))
	destReg := uint8((opcode >> 12) & 0xF)

	var result uint32
	switch operation {
	case 0x0: // AND
		result = operand1 & operand2
	case 0x1: // EOR
		result = operand1 ^ operand2
	case 0x2: // SUB
		operationCarry = operand1 >= operand2
		result = operand1 - operand2
		operationOverflow = subOverflow(operand1, operand2, result)
	case 0x3: // RSB
		operationCarry = operand2 >= operand1
		result = operand2 - operand1
		operationOverflow = subOverflow(operand2, operand1, result)
	case 0x4: // ADD
		wide := uint64(operand1) + uint64(operand2)
		result = uint32(wide)
		operationCarry = wide>>32 != 0
		operationOverflow = addOverflow(operand1, operand2, result)
	case 0x5: // ADC
		wide := uint64(operand1) + uint64(operand2) + boolToU64(carryIn)
		result = uint32(wide)
		operationCarry = wide>>32 != 0
		operationOverflow = addOverflow(operand1, operand2, result)
	case 0x6: // SBC
		borrow := boolToU64(!carryIn)
		wide := uint64(operand1) - (uint64(operand2) + borrow)
		result = uint32(wide)
		operationCarry = uint64(operand1) >= uint64(operand2)+borrow
		operationOverflow = subOverflow(operand1, operand2, result)
	case 0x7: // RSC
		borrow := boolToU64(!carryIn)
		wide := uint64(operand2) - (uint64(operand1) + borrow)
		result = uint32(wide)
		operationCarry = uint64(operand2) >= uint64(operand1)+borrow
		operationOverflow = subOverflow(operand2, operand1, result)
	case 0x8: // TST
		result = operand1 & operand2
	case 0x9: // TEQ
		result = operand1 ^ operand2
	case 0xA: // CMP
		operationCarry = operand1 >= operand2
		result = operand1 - operand2
		operationOverflow = subOverflow(operand1, operand2, result)
	case 0xB: // CMN
		wide := uint64(operand1) + uint64(operand2)
		result = uint32(wide)
		operationCarry = wide>>32 != 0
		operationOverflow = addOverflow(operand1, operand2, result)
	case 0xC: // ORR
		result = operand1 | operand2
	case 0xD: // MOV
		result = operand2
	case 0xE: // BIC
		result = operand1 &^ operand2
	case 0xF: // MVN
		result = ^operand2
	}

	if sBit {
		cpsr = c.regs.CPSR()
		println("DEBUG before setNZ cpsr=", cpsr, "result=", result)
		cpsr = setNZ(cpsr, result)
		println("DEBUG after setNZ cpsr=", cpsr)
		if operation < 2 || operation == 8 || operation == 9 || operation >= 0xC {
			cpsr = setFlag(cpsr, cpsrC, shifterCarry)
		} else {
			cpsr = setFlag(cpsr, cpsrC, operationCarry)
			cpsr = setFlag(cpsr, cpsrV, operationOverflow)
		}
		c.regs.SetCPSR(cpsr)
	}

	if shiftReg {
		c.bus.ICycle(int(c.cfg.ShiftByRegisterCycles))
	} else {
		c.fetchOpcode()
	}

	writesResult := operation < 8 || operation >= 0xC
	if writesResult {
		c.regs.SetReg(destReg, result)
		if destReg == 15 {
			if sBit {
				c.regs.LeaveMode(c.bus)
			}
			c.flushPipeline()
		}
	} else if sBit && destReg == 15 {
		c.regs.LeaveMode(c.bus)
	}
}

// computeDataProcessingOperand2 evaluates operand2 (the shifter_operand of
// the ARM reference manual) and the shifter carry-out, for both the
// immediate-rotate and register-shift encodings.
func (c *CPU) computeDataProcessingOperand2(opcode uint32, immediate bool) (uint32, bool) {
	cpsr := c.regs.CPSR()
	carryIn := cpsr&cpsrC != 0

	if immediate {
		imm8 := opcode & 0xFF
		rotate := uint8((opcode >> 8) & 0xF)
		return rotateImmediate(imm8, rotate, carryIn)
	}

	shiftType := isa.ShiftType((opcode >> 5) & 3)
	value := c.regs.Reg(uint8(opcode & 0xF))

	if opcode&(1<<4) != 0 {
		amount := uint8(c.regs.Reg(uint8((opcode>>8)&0xF)) & 0xFF)
		return shift(shiftType, value, amount, false, carryIn)
	}
	amount := uint8((opcode >> 7) & 0x1F)
	return shift(shiftType, value, amount, true, carryIn)
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
