package bytecode

import "fmt"

// Program builds a definition stream byte by byte. It is the encoding
// counterpart of the decoder, used by the standard library and by tests to
// write streams without hand-assembling tag bytes.
//
// Builder misuse (closing with no open definition, operands out of the tag
// bit-width) panics: programs are assembled by code, not by external input.
type Program struct {
	buf  []byte
	open int // id of the open definition, -1 when none
}

// NewProgram returns an empty program builder.
func NewProgram() *Program {
	return &Program{open: -1}
}

// Define opens a definition for the given circuit id.
func (p *Program) Define(id int) *Program {
	if p.open != -1 {
		panic(fmt.Sprintf("bytecode: Define(%d) while circuit %d is still open", id, p.open))
	}
	if id < 0 || id > OperandMask {
		panic(fmt.Sprintf("bytecode: circuit id %d does not fit the operand width", id))
	}
	p.open = id
	p.buf = append(p.buf, DefineByte(id))
	return p
}

// Apply emits an APPLY of target wired to the given parent-frame slots,
// target inputs first, then target outputs.
func (p *Program) Apply(target int, slots ...int) *Program {
	if p.open == -1 {
		panic("bytecode: Apply outside a definition")
	}
	if target < 0 || target > OperandMask {
		panic(fmt.Sprintf("bytecode: target id %d does not fit the operand width", target))
	}
	p.buf = append(p.buf, ApplyByte(target))
	for _, slot := range slots {
		if slot < 0 || slot > LiteralMask {
			panic(fmt.Sprintf("bytecode: wire slot %d does not fit the literal width", slot))
		}
		p.buf = append(p.buf, LiteralByte(slot))
	}
	return p
}

// End closes the open definition with its matching boundary byte.
func (p *Program) End() *Program {
	if p.open == -1 {
		panic("bytecode: End with no open definition")
	}
	p.buf = append(p.buf, DefineByte(p.open))
	p.open = -1
	return p
}

// Bytes returns the assembled stream.
func (p *Program) Bytes() []byte {
	if p.open != -1 {
		panic(fmt.Sprintf("bytecode: Bytes with definition of circuit %d still open", p.open))
	}
	return p.buf
}
