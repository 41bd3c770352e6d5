package cpu

// setFlag returns cpsr with bit set or cleared according to on.
func setFlag(cpsr uint32, bit uint32, on bool) uint32 {
	if on {
		return cpsr | bit
	}
	return cpsr &^ bit
}

// setNZ returns cpsr with N and Z updated from result, the common tail of
// every flag-setting ARM and Thumb data operation.
func setNZ(cpsr uint32, result uint32) uint32 {
	cpsr = setFlag(cpsr, cpsrN, result>>31 != 0)
	cpsr = setFlag(cpsr, cpsrZ, result == 0)
	return cpsr
}

// subOverflow reports the V flag for a-b=result: true when the operands'
// signs differ and the result's sign differs from a's.
func subOverflow(a, b, result uint32) bool {
	return (a^b)&(a^result)&0x80000000 != 0
}

// addOverflow reports the V flag for a+b=result: true when the operands'
// signs agree and the result's sign differs from theirs.
func addOverflow(a, b, result uint32) bool {
	return ^(a^b)&(a^result)&0x80000000 != 0
}
