// Package bus implements the CPU's view of the NES address space: 2
// KiB of work RAM, the PPU register window, the controller port, OAM
// DMA, and PRG-ROM, wired together and ticked in lockstep with the
// PPU (spec.md §4.4).
package bus

import (
	"github.com/kestrelnes/gintendo/joypad"
	"github.com/kestrelnes/gintendo/mapper"
	"github.com/kestrelnes/gintendo/ppu"
)

const wramSize = 2048

// FrameView is the read-only PPU surface and mutable joypad surface
// handed to the host's frame callback, per spec.md §6.
type FrameView interface {
	Ctrl() ppu.Ctrl
	Mask() ppu.Mask
	Status() ppu.Status
	ScrollX() uint8
	ScrollY() uint8
	OAM() [256]uint8
	Palette() [32]uint8
	VRAM() [2048]uint8
	ChrRead(addr uint16) uint8
}

// FrameCallback is invoked once per completed PPU frame (spec.md
// §4.4, §6). It must not call back into the CPU.
type FrameCallback func(frame FrameView, joy *joypad.Joypad)

// Bus is the sole owner of the PPU, the joypad, WRAM, and the frame
// callback, per spec.md §9's ownership graph. The host constructs it
// and hands it to a CPU, which then owns it exclusively.
type Bus struct {
	wram    [wramSize]uint8
	ppu     *ppu.PPU
	joypad  *joypad.Joypad
	mapper  mapper.Mapper
	onFrame FrameCallback
}

// New constructs a bus over m, invoking onFrame once per completed
// PPU frame. onFrame may be nil for headless use (e.g. CPU-only
// tests).
func New(m mapper.Mapper, onFrame FrameCallback) *Bus {
	return &Bus{
		ppu:     ppu.New(m),
		joypad:  &joypad.Joypad{},
		mapper:  m,
		onFrame: onFrame,
	}
}

// Joypad returns the bus's owned joypad, so a host can drive button
// state without reaching through the frame callback.
func (b *Bus) Joypad() *joypad.Joypad { return b.joypad }

// Snapshot returns the current PPU state as a read-only FrameView,
// for callers (the trace debugger, tests) that need to inspect PPU
// state outside of a completed-frame callback.
func (b *Bus) Snapshot() FrameView { return b.ppu }

// PollNMI reports whether the PPU has raised an NMI request, clearing
// the latch. The owning CPU calls this once per fetch/execute
// iteration (spec.md §4.6 step 1).
func (b *Bus) PollNMI() bool {
	return b.ppu.PollNMI()
}

// Tick advances the PPU by 3*cpuCycles dots, per spec.md §4.4's tick
// policy, invoking the frame callback on every completed frame.
func (b *Bus) Tick(cpuCycles int) {
	if b.ppu.Tick(cpuCycles*3) && b.onFrame != nil {
		b.onFrame(b.ppu, b.joypad)
	}
}

// Read dispatches a CPU load across the address map in spec.md §4.4.
// Reads of unmapped regions report 0 rather than erroring, matching
// the open-bus convention the spec assigns to "unmapped" reads. A read
// of a write-only PPU register is a programmer-contract violation and
// panics.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x1FFF:
		return b.wram[addr%wramSize]
	case addr <= 0x3FFF:
		return b.readPPU(addr & 0x2007)
	case addr <= 0x4013, addr == 0x4015:
		return 0
	case addr == 0x4014:
		return 0
	case addr == 0x4016, addr == 0x4017:
		if addr == 0x4017 {
			return 0
		}
		return b.joypad.Read()
	case addr <= 0x7FFF:
		return 0
	default:
		return b.mapper.PrgRead(addr)
	}
}

// Write dispatches a CPU store. Writes to PRG-ROM are a programmer-
// contract violation per spec.md §7 and panic rather than being
// silently dropped.
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr <= 0x1FFF:
		b.wram[addr%wramSize] = val
	case addr <= 0x3FFF:
		b.writePPU(addr&0x2007, val)
	case addr <= 0x4013, addr == 0x4015:
		// APU and other unmapped $4000-range registers: ignored.
	case addr == 0x4014:
		b.oamDMA(val)
	case addr == 0x4016:
		b.joypad.Write(val)
	case addr == 0x4017:
		// ignored: no second controller port modeled.
	case addr <= 0x7FFF:
		// unmapped: ignored.
	default:
		if err := b.mapper.PrgWrite(addr, val); err != nil {
			panic(err)
		}
	}
}

func (b *Bus) readPPU(reg uint16) uint8 {
	switch reg {
	case ppu.StatusAddr:
		return b.ppu.ReadStatus()
	case ppu.OAMDataAddr:
		return b.ppu.ReadOAMData()
	case ppu.DataAddr:
		return b.ppu.ReadData()
	default:
		panic("read of write-only PPU register")
	}
}

func (b *Bus) writePPU(reg uint16, val uint8) {
	switch reg {
	case ppu.CtrlAddr:
		b.ppu.WriteCtrl(val)
	case ppu.MaskAddr:
		b.ppu.WriteMask(val)
	case ppu.OAMAddrAddr:
		b.ppu.WriteOAMAddr(val)
	case ppu.OAMDataAddr:
		b.ppu.WriteOAMData(val)
	case ppu.ScrollAddr:
		b.ppu.WriteScroll(val)
	case ppu.AddrAddr:
		b.ppu.WriteAddr(val)
	case ppu.DataAddr:
		b.ppu.WriteData(val)
	default:
		panic("write of read-only PPU register")
	}
}

// oamDMA copies 256 sequential CPU bytes starting at val<<8 into OAM.
// Per spec.md §5, this is atomic from the CPU's point of view: no PPU
// tick occurs during it, and it consumes no bus-visible cycles beyond
// what the CPU core itself accounts for around the $4014 store.
func (b *Bus) oamDMA(val uint8) {
	base := uint16(val) << 8
	data := make([]uint8, 256)
	for i := range data {
		data[i] = b.Read(base + uint16(i))
	}
	b.ppu.WriteOAMDMA(data)
}
