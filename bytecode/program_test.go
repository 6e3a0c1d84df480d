package bytecode

import (
	"bytes"
	"testing"
)

// Golden encodings of the standard gates, byte for byte.
func TestProgramEncoding(t *testing.T) {
	cases := []struct {
		name string
		p    *Program
		want []byte
	}{
		{
			"not",
			NewProgram().Define(1).Apply(0, 0, 0, 1).End(),
			[]byte{0xC1, 0x80, 0x00, 0x00, 0x01, 0xC1},
		},
		{
			"and",
			NewProgram().Define(2).Apply(0, 0, 1, 3).Apply(1, 3, 2).End(),
			[]byte{0xC2, 0x80, 0x00, 0x01, 0x03, 0x81, 0x03, 0x02, 0xC2},
		},
		{
			"or",
			NewProgram().Define(3).Apply(0, 0, 0, 3).Apply(0, 1, 1, 4).Apply(0, 3, 4, 2).End(),
			[]byte{0xC3, 0x80, 0x00, 0x00, 0x03, 0x80, 0x01, 0x01, 0x04, 0x80, 0x03, 0x04, 0x02, 0xC3},
		},
		{
			"nor",
			NewProgram().Define(4).Apply(3, 0, 1, 3).Apply(1, 3, 2).End(),
			[]byte{0xC4, 0x83, 0x00, 0x01, 0x03, 0x81, 0x03, 0x02, 0xC4},
		},
		{
			"xor",
			NewProgram().
				Define(5).
				Apply(0, 0, 1, 3).
				Apply(0, 0, 3, 4).
				Apply(0, 1, 3, 5).
				Apply(0, 4, 5, 2).
				End(),
			[]byte{
				0xC5,
				0x80, 0x00, 0x01, 0x03,
				0x80, 0x00, 0x03, 0x04,
				0x80, 0x01, 0x03, 0x05,
				0x80, 0x04, 0x05, 0x02,
				0xC5,
			},
		},
	}
	for _, tc := range cases {
		if got := tc.p.Bytes(); !bytes.Equal(got, tc.want) {
			t.Errorf("%s: bytes = % X, want % X", tc.name, got, tc.want)
		}
	}
}

func TestProgramMisusePanics(t *testing.T) {
	cases := []struct {
		name string
		f    func()
	}{
		{"end without define", func() { NewProgram().End() }},
		{"apply outside definition", func() { NewProgram().Apply(0, 0, 1, 2) }},
		{"nested define", func() { NewProgram().Define(1).Define(2) }},
		{"id too wide", func() { NewProgram().Define(32) }},
		{"slot too wide", func() { NewProgram().Define(1).Apply(0, 128) }},
		{"bytes with open definition", func() { NewProgram().Define(1).Bytes() }},
	}
	for _, tc := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: no panic", tc.name)
				}
			}()
			tc.f()
		}()
	}
}

func TestTagBytes(t *testing.T) {
	if b := DefineByte(5); b != 0xC5 {
		t.Errorf("DefineByte(5) = %#02x, want 0xC5", b)
	}
	if b := ApplyByte(5); b != 0x85 {
		t.Errorf("ApplyByte(5) = %#02x, want 0x85", b)
	}
	if b := LiteralByte(5); b != 0x05 {
		t.Errorf("LiteralByte(5) = %#02x, want 0x05", b)
	}

	if !isOperation(0xC5) || !isBoundary(0xC5) || operand(0xC5) != 5 {
		t.Error("boundary byte misdecoded")
	}
	if !isOperation(0x85) || isBoundary(0x85) || operand(0x85) != 5 {
		t.Error("apply byte misdecoded")
	}
	if isOperation(0x05) || literal(0x05) != 5 {
		t.Error("literal byte misdecoded")
	}
	// Bit 6 is payload in a literal, not a boundary flag.
	if isOperation(0x45) || literal(0x45) != 0x45 {
		t.Error("literal with bit 6 set misdecoded")
	}
}
