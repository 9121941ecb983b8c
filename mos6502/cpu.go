// Package mos6502 implements the MOS Technologies 6502 processor
// https://en.wikipedia.org/wiki/MOS_Technology_6502
package mos6502

import "fmt"

// 6502 Interrupt Vectors
// https://en.wikipedia.org/wiki/Interrupts_in_65xx_processors
const (
	intReset = 0xFFFC
	intNMI   = 0xFFFA
)

// 6502 Processor Status Flags
// https://www.nesdev.org/obelisk-6502-guide/registers.html
const (
	StatusCarry            = 1 << 0 // C
	StatusZero             = 1 << 1 // Z
	StatusInterruptDisable = 1 << 2 // I
	StatusDecimal          = 1 << 3 // D
	StatusBreak            = 1 << 4 // B
	StatusUnused           = 1 << 5 // always on
	StatusOverflow         = 1 << 6 // V
	StatusNegative         = 1 << 7 // N
)

const stackPage = 0x0100

// State is the CPU's coarse run state, per spec.md §4.6.
type State uint8

const (
	Running State = iota
	Interrupted
	Halted
)

func (s State) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case Interrupted:
		return "INTERRUPTED"
	case Halted:
		return "HALTED"
	default:
		return "UNKNOWN"
	}
}

// Bus is everything the CPU needs from its memory bus: byte-addressed
// load/store, a way to advance the rest of the machine in step with
// consumed cycles, and a way to ask whether the PPU wants attention.
// A local interface here, rather than importing the bus package
// directly, keeps the ownership edge CPU -> Bus one-directional, per
// spec.md §9's ownership graph.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
	Tick(cpuCycles int)
	PollNMI() bool
}

// StepCallback is invoked once per fetch/execute iteration, before the
// opcode at PC is read, so it observes the CPU exactly as it is about
// to execute (spec.md §4.6 step 2). It is meant for tracing.
type StepCallback func(c *CPU)

// CPU is a single MOS 6502/2A03 core. It owns nothing besides its own
// registers and the Bus it was constructed with (spec.md §9).
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8

	bus   Bus
	state State
}

// New returns a CPU wired to bus. Call Reset before running it; the
// zero-value CPU has undefined register contents, matching real
// hardware before its first reset pulse.
func New(bus Bus) *CPU {
	return &CPU{bus: bus}
}

// Reset puts the CPU in its documented power-on state: A=X=Y=0,
// SP=0xFD, P=0x24 (I and the always-on bit set), PC loaded from the
// reset vector at 0xFFFC (spec.md §8 scenario 1).
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = StatusInterruptDisable | StatusUnused
	c.PC = c.read16(intReset)
	c.state = Running
}

func (c *CPU) State() State { return c.state }

func (c *CPU) String() string {
	return fmt.Sprintf("A=%02X X=%02X Y=%02X SP=%02X P=%02X PC=%04X %s",
		c.A, c.X, c.Y, c.SP, c.P, c.PC, c.statusString())
}

func (c *CPU) statusString() string {
	flags := []struct {
		bit  uint8
		name string
	}{
		{StatusNegative, "N"}, {StatusOverflow, "V"}, {StatusUnused, "U"},
		{StatusBreak, "B"}, {StatusDecimal, "D"}, {StatusInterruptDisable, "I"},
		{StatusZero, "Z"}, {StatusCarry, "C"},
	}
	out := make([]byte, len(flags))
	for i, f := range flags {
		if c.P&f.bit != 0 {
			out[i] = f.name[0]
		} else {
			out[i] = '-'
		}
	}
	return string(out)
}

// Run executes instructions until the CPU halts (BRK) or ctx-style
// caller wants to stop; this core has no cancellation of its own
// (spec.md §5), so Run simply loops to Halted.
func (c *CPU) Run(onStep StepCallback) {
	for c.state != Halted {
		c.Step(onStep)
	}
}

// Step runs exactly one fetch/execute iteration, per spec.md §4.6.
func (c *CPU) Step(onStep StepCallback) {
	if c.bus.PollNMI() {
		c.serviceNMI()
	}

	if onStep != nil {
		onStep(c)
	}

	preFetch := c.PC
	opByte := c.bus.Read(c.PC)
	c.PC++

	op := opcodeTable[opByte]
	addr, crossed := c.operandAddr(op.mode)
	op.fn(c, op.mode, addr)

	cycles := int(op.cycles)
	if crossed && op.pageCross {
		cycles++
	}
	c.bus.Tick(cycles)

	if c.PC == preFetch+1 {
		c.PC += uint16(op.length) - 1
	}
}

// serviceNMI pushes PC and P, sets I, ticks the bus for the interrupt
// cost, and loads PC from the NMI vector (spec.md §4.6 "NMI entry").
func (c *CPU) serviceNMI() {
	c.state = Interrupted
	c.pushAddr(c.PC)
	c.push(c.P&^StatusBreak | StatusUnused)
	c.P |= StatusInterruptDisable
	c.bus.Tick(2)
	c.PC = c.read16(intNMI)
	c.state = Running
}

// --- flags ---

func (c *CPU) setFlag(mask uint8, on bool) {
	if on {
		c.P |= mask
	} else {
		c.P &^= mask
	}
}

func (c *CPU) flag(mask uint8) bool {
	return c.P&mask != 0
}

func (c *CPU) setZN(v uint8) {
	c.setFlag(StatusZero, v == 0)
	c.setFlag(StatusNegative, v&0x80 != 0)
}

// --- stack ---

func (c *CPU) push(v uint8) {
	c.bus.Write(stackPage+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.bus.Read(stackPage + uint16(c.SP))
}

func (c *CPU) pushAddr(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v & 0xFF))
}

func (c *CPU) popAddr() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return hi<<8 | lo
}

// --- memory helpers ---

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.bus.Read(addr))
	hi := uint16(c.bus.Read(addr + 1))
	return hi<<8 | lo
}

// read16Bugged reproduces the JMP ($xxFF) page-wrap quirk: the high
// byte is fetched from the *same* page rather than the next one
// (spec.md §4.6 "JMP indirect quirk").
func (c *CPU) read16Bugged(addr uint16) uint16 {
	lo := uint16(c.bus.Read(addr))
	var hiAddr uint16
	if addr&0x00FF == 0x00FF {
		hiAddr = addr &^ 0x00FF
	} else {
		hiAddr = addr + 1
	}
	hi := uint16(c.bus.Read(hiAddr))
	return hi<<8 | lo
}

func highByte(addr uint16) uint16 { return addr & 0xFF00 }

// operandAddr computes the effective address for mode, and whether
// computing it crossed a page boundary (spec.md §4.6 "Addressing-mode
// effective address"). It reads operand bytes starting at c.PC, which
// must point just past the opcode byte.
func (c *CPU) operandAddr(mode AddressingMode) (addr uint16, crossed bool) {
	switch mode {
	case Implicit, Accumulator:
		return 0, false
	case Immediate, Relative:
		return c.PC, false
	case ZeroPage:
		return uint16(c.bus.Read(c.PC)), false
	case ZeroPageX:
		return uint16(c.bus.Read(c.PC) + c.X), false
	case ZeroPageY:
		return uint16(c.bus.Read(c.PC) + c.Y), false
	case Absolute:
		return c.read16(c.PC), false
	case AbsoluteX:
		base := c.read16(c.PC)
		addr := base + uint16(c.X)
		return addr, highByte(addr) != highByte(base)
	case AbsoluteY:
		base := c.read16(c.PC)
		addr := base + uint16(c.Y)
		return addr, highByte(addr) != highByte(base)
	case Indirect:
		ptr := c.read16(c.PC)
		return c.read16Bugged(ptr), false
	case IndirectX:
		zp := c.bus.Read(c.PC) + c.X
		lo := uint16(c.bus.Read(uint16(zp)))
		hi := uint16(c.bus.Read(uint16(zp + 1)))
		return hi<<8 | lo, false
	case IndirectY:
		zp := c.bus.Read(c.PC)
		lo := uint16(c.bus.Read(uint16(zp)))
		hi := uint16(c.bus.Read(uint16(zp + 1)))
		base := hi<<8 | lo
		addr := base + uint16(c.Y)
		return addr, highByte(addr) != highByte(base)
	default:
		panic("unknown addressing mode")
	}
}
