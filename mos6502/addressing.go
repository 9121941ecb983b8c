package mos6502

// AddressingMode identifies how an opcode's operand byte(s) are
// turned into an effective address.
// https://www.nesdev.org/obelisk-6502-guide/addressing.html
type AddressingMode uint8

const (
	Implicit AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX // Indexed Indirect: (zp,X)
	IndirectY // Indirect Indexed: (zp),Y
)

var modeNames = map[AddressingMode]string{
	Implicit: "IMPLICIT", Accumulator: "ACCUMULATOR", Immediate: "IMMEDIATE",
	ZeroPage: "ZERO_PAGE", ZeroPageX: "ZERO_PAGE_X", ZeroPageY: "ZERO_PAGE_Y",
	Relative: "RELATIVE", Absolute: "ABSOLUTE", AbsoluteX: "ABSOLUTE_X",
	AbsoluteY: "ABSOLUTE_Y", Indirect: "INDIRECT", IndirectX: "INDIRECT_X",
	IndirectY: "INDIRECT_Y",
}

func (m AddressingMode) String() string { return modeNames[m] }
