// Package library ships the canonical gate definitions built on the NAND
// primitive: the basic boolean gates and a small adder family. Their ids
// and wirings are fixed, so bytecode that builds on them can rely on both.
package library

import (
	"fmt"

	"github.com/chazu/nandvm/bytecode"
	"github.com/chazu/nandvm/circuit"
)

// Circuit ids of the standard library. NAND is the seeded primitive; every
// other gate is decoded from its program below, each building only on
// earlier ids.
const (
	NandID      = circuit.NandID
	NotID       = 1
	AndID       = 2
	OrID        = 3
	NorID       = 4
	XorID       = 5
	HalfAdderID = 6
	FullAdderID = 7
	Adder4ID    = 8
)

// NotProgram defines NOT: one NAND with both inputs on slot 0.
// Frame: 0 in, 1 out.
func NotProgram() []byte {
	return bytecode.NewProgram().
		Define(NotID).
		Apply(NandID, 0, 0, 1).
		End().
		Bytes()
}

// AndProgram defines AND as NAND followed by NOT.
// Frame: 0 1 in, 2 out, 3 internal.
func AndProgram() []byte {
	return bytecode.NewProgram().
		Define(AndID).
		Apply(NandID, 0, 1, 3).
		Apply(NotID, 3, 2).
		End().
		Bytes()
}

// OrProgram defines OR as NAND over inverted inputs.
// Frame: 0 1 in, 2 out, 3 4 internal.
func OrProgram() []byte {
	return bytecode.NewProgram().
		Define(OrID).
		Apply(NandID, 0, 0, 3).
		Apply(NandID, 1, 1, 4).
		Apply(NandID, 3, 4, 2).
		End().
		Bytes()
}

// NorProgram defines NOR as OR followed by NOT.
// Frame: 0 1 in, 2 out, 3 internal.
func NorProgram() []byte {
	return bytecode.NewProgram().
		Define(NorID).
		Apply(OrID, 0, 1, 3).
		Apply(NotID, 3, 2).
		End().
		Bytes()
}

// XorProgram defines XOR from four NANDs.
// Frame: 0 1 in, 2 out, 3 4 5 internal.
func XorProgram() []byte {
	return bytecode.NewProgram().
		Define(XorID).
		Apply(NandID, 0, 1, 3).
		Apply(NandID, 0, 3, 4).
		Apply(NandID, 1, 3, 5).
		Apply(NandID, 4, 5, 2).
		End().
		Bytes()
}

// HalfAdderProgram defines the half adder.
// Frame: 0 1 in, 2 carry out, 3 sum out.
func HalfAdderProgram() []byte {
	return bytecode.NewProgram().
		Define(HalfAdderID).
		Apply(XorID, 0, 1, 3).
		Apply(AndID, 0, 1, 2).
		End().
		Bytes()
}

// FullAdderProgram defines the full adder over two XORs, two ANDs and an OR.
// Frame: 0 1 2 in (a, b, carry-in), 3 carry out, 4 sum out, 5 6 7 internal.
func FullAdderProgram() []byte {
	return bytecode.NewProgram().
		Define(FullAdderID).
		Apply(XorID, 0, 1, 5).
		Apply(XorID, 5, 2, 4).
		Apply(AndID, 5, 2, 6).
		Apply(AndID, 0, 1, 7).
		Apply(OrID, 6, 7, 3).
		End().
		Bytes()
}

// Adder4Program defines the 4-bit ripple-carry adder from four full adders.
// Frame: 0..3 a (msb first), 4..7 b, 8 carry-in; 9 carry out,
// 10..13 sum (msb first); 14 15 16 internal carries.
//
// Stages are listed least-significant first, so each stage finds its
// carry-in already resolved and the whole adder settles in a single pass.
func Adder4Program() []byte {
	return bytecode.NewProgram().
		Define(Adder4ID).
		Apply(FullAdderID, 3, 7, 8, 14, 13).
		Apply(FullAdderID, 2, 6, 14, 15, 12).
		Apply(FullAdderID, 1, 5, 15, 16, 11).
		Apply(FullAdderID, 0, 4, 16, 9, 10).
		End().
		Bytes()
}

// Programs returns every library program in load order.
func Programs() [][]byte {
	return [][]byte{
		NotProgram(),
		AndProgram(),
		OrProgram(),
		NorProgram(),
		XorProgram(),
		HalfAdderProgram(),
		FullAdderProgram(),
		Adder4Program(),
	}
}

// Load decodes the whole library into t, which must still be unfrozen.
func Load(t *circuit.Table) error {
	dec := bytecode.NewDecoder(t)
	for i, p := range Programs() {
		if err := dec.DecodeBytes(p); err != nil {
			return fmt.Errorf("library: program %d: %w", i, err)
		}
	}
	return nil
}

// NewTable returns a frozen table holding the NAND primitive and the whole
// standard library.
func NewTable() (*circuit.Table, error) {
	t := circuit.NewTable()
	if err := Load(t); err != nil {
		return nil, err
	}
	t.Freeze()
	return t, nil
}
