// Package bytecode decodes circuit definition streams into a circuit table.
//
// The format is a flat byte stream. The two high bits of every byte are
// control bits; the rest is a small unsigned operand:
//
//	11xxxxxx  DEFINE boundary, operand = circuit id (5 bits)
//	10xxxxxx  APPLY, operand = target circuit id (5 bits)
//	0xxxxxxx  literal, operand = wire-slot index (7 bits)
//
// A definition is DEFINE(id) (APPLY(target) literal*)* DEFINE(id): the same
// boundary byte opens and closes it, and each APPLY is followed by exactly
// target.inputs + target.outputs literals, inputs first.
//
// Definitions carry no explicit arity. The decoder infers each circuit's
// input and output count from the order wire slots are first touched: a slot
// first seen in an input position is an external input, a slot first seen in
// an output position is an external output, and a slot that switches roles
// within the same definition is reclassified as an internal wire and removed
// from the inferred arity. See Decoder for the exact rules.
//
// Any malformed stream aborts the whole decode with a *DecodeError; no
// partial definition is ever committed to the table.
package bytecode
