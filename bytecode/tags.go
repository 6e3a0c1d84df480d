package bytecode

const (
	operationBit = 7
	boundaryBit  = 6

	// OperandMask extracts the 5-bit circuit id of a DEFINE or APPLY byte.
	OperandMask = 0x1F

	// LiteralMask extracts the 7-bit wire-slot operand of a literal byte.
	LiteralMask = 0x7F
)

// DefineByte encodes a DEFINE boundary for the given circuit id.
func DefineByte(id int) byte {
	return 0xC0 | byte(id&OperandMask)
}

// ApplyByte encodes an APPLY marker for the given target circuit id.
func ApplyByte(id int) byte {
	return 0x80 | byte(id&OperandMask)
}

// LiteralByte encodes a wire-slot literal.
func LiteralByte(slot int) byte {
	return byte(slot & LiteralMask)
}

// isOperation reports whether b is an operation byte (DEFINE or APPLY)
// rather than a literal.
func isOperation(b byte) bool {
	return b>>operationBit&1 == 1
}

// isBoundary reports whether an operation byte is a DEFINE boundary.
func isBoundary(b byte) bool {
	return b>>boundaryBit&1 == 1
}

func operand(b byte) int {
	return int(b & OperandMask)
}

func literal(b byte) int {
	return int(b & LiteralMask)
}
