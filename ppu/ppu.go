// Package ppu implements the NES Picture Processing Unit's timing
// core: the scanline/dot counter, VBlank/NMI signaling, and
// VRAM/OAM/palette storage with their address-mirroring rules. It
// does not render pixels; see spec.md §1 Non-goals.
package ppu

import (
	"github.com/kestrelnes/gintendo/mapper"
	"github.com/kestrelnes/gintendo/rom"
)

const (
	vramSize    = 2048
	oamSize     = 256
	paletteSize = 32

	dotsPerScanline   = 341
	scanlinesPerFrame = 262
	vblankStartLine   = 241
)

// Register addresses, for callers (the bus) that dispatch by address.
const (
	CtrlAddr    = 0x2000
	MaskAddr    = 0x2001
	StatusAddr  = 0x2002
	OAMAddrAddr = 0x2003
	OAMDataAddr = 0x2004
	ScrollAddr  = 0x2005
	AddrAddr    = 0x2006
	DataAddr    = 0x2007
)

// PPU is the timing core described in spec.md §3-4. It owns CHR
// access through a mapper, its own VRAM/OAM/palette, and the
// scanline/dot counters that drive VBlank, NMI, and frame-complete
// signaling.
type PPU struct {
	mapper mapper.Mapper

	ctrl   Ctrl
	mask   Mask
	status Status

	addr   *addrRegister
	scroll scrollRegister
	wLatch bool // shared by addr and scroll writes; reset by a status read

	oamAddr uint8
	oam     [oamSize]uint8
	vram    [vramSize]uint8
	palette [paletteSize]uint8

	readBuffer uint8

	scanline int
	dot      int

	nmiLatch bool
}

// New returns a PPU wired to m for CHR reads/writes and nametable
// mirroring mode.
func New(m mapper.Mapper) *PPU {
	return &PPU{
		mapper: m,
		addr:   newAddrRegister(),
	}
}

// --- CPU-facing register ports ---

// WriteCtrl handles a $2000 write.
func (p *PPU) WriteCtrl(val uint8) {
	p.ctrl = Ctrl(val)
}

// WriteMask handles a $2001 write.
func (p *PPU) WriteMask(val uint8) {
	p.mask = Mask(val)
}

// ReadStatus handles a $2002 read: it snapshots the current bits,
// clears VBlank, and resets the address/scroll write-latch, in that
// order (spec.md §4.2).
func (p *PPU) ReadStatus() uint8 {
	v := uint8(p.status)
	p.status &^= StatusVBlank
	p.wLatch = false
	return v
}

// WriteOAMAddr handles a $2003 write.
func (p *PPU) WriteOAMAddr(val uint8) {
	p.oamAddr = val
}

// ReadOAMData handles a $2004 read.
func (p *PPU) ReadOAMData() uint8 {
	return p.oam[p.oamAddr]
}

// WriteOAMData handles a $2004 write; the OAM address post-increments.
func (p *PPU) WriteOAMData(val uint8) {
	p.oam[p.oamAddr] = val
	p.oamAddr++
}

// WriteScroll handles a $2005 write, alternating between the X and Y
// scroll components on the shared write-latch.
func (p *PPU) WriteScroll(val uint8) {
	p.scroll.write(val, !p.wLatch)
	p.wLatch = !p.wLatch
}

// WriteAddr handles a $2006 write, alternating between the high and
// low address bytes on the shared write-latch (spec.md §4.2: the
// latch is shared with scrollRegister).
func (p *PPU) WriteAddr(val uint8) {
	p.addr.write(val, !p.wLatch)
	p.wLatch = !p.wLatch
}

// ReadData handles a $2007 read. Reads below the palette range are
// buffered: this call returns the *previous* buffered value and
// refills the buffer from the new address (spec.md §4.3). Every
// access advances the VRAM address by the control-selected increment.
func (p *PPU) ReadData() uint8 {
	addr := p.addr.get()
	p.addr.increment(p.ctrl.VRAMIncrement())

	if addr >= 0x3F00 {
		v := p.readPalette(addr)
		p.readBuffer = p.vram[p.mirroredNametableAddr(addr&0x2FFF)]
		return v
	}

	v := p.readBuffer
	p.readBuffer = p.read(addr)
	return v
}

// WriteData handles a $2007 write.
func (p *PPU) WriteData(val uint8) {
	addr := p.addr.get()
	p.write(addr, val)
	p.addr.increment(p.ctrl.VRAMIncrement())
}

// WriteOAMDMA copies 256 bytes into OAM starting at the current OAM
// address, wrapping around, per spec.md §4.3. The caller (the bus) is
// responsible for sourcing the bytes from CPU memory.
func (p *PPU) WriteOAMDMA(data []uint8) {
	for _, b := range data {
		p.oam[p.oamAddr] = b
		p.oamAddr++
	}
}

// --- internal VRAM address space ---

func (p *PPU) read(addr uint16) uint8 {
	a := addr & 0x3FFF
	switch {
	case a < 0x2000:
		return p.mapper.ChrRead(a)
	case a < 0x3F00:
		return p.vram[p.mirroredNametableAddr(a)]
	default:
		return p.readPalette(a)
	}
}

func (p *PPU) write(addr uint16, val uint8) {
	a := addr & 0x3FFF
	switch {
	case a < 0x2000:
		p.mapper.ChrWrite(a, val)
	case a < 0x3F00:
		p.vram[p.mirroredNametableAddr(a)] = val
	default:
		p.writePalette(a, val)
	}
}

// mirroredNametableAddr maps a $2000-$2FFF (or its $3000-$3EFF
// mirror) address onto the 2 KiB of physical nametable VRAM, per the
// cartridge's declared mirroring.
func (p *PPU) mirroredNametableAddr(addr uint16) uint16 {
	idx := (addr & 0x2FFF) - 0x2000
	table := idx / 0x400
	offset := idx % 0x400

	switch p.mapper.Mirroring() {
	case rom.Vertical:
		// tables {0,2} share the first page, {1,3} the second.
		return (table%2)*0x400 + offset
	case rom.FourScreen:
		return idx % vramSize
	default: // Horizontal: tables {0,1} share the first page, {2,3} the second.
		return (table/2)*0x400 + offset
	}
}

// paletteIndex remaps the four background-color aliases
// ($3F10/$3F14/$3F18/$3F1C -> $3F00/$3F04/$3F08/$3F0C) before wrapping
// into the 32-byte palette RAM.
func paletteIndex(addr uint16) uint16 {
	i := (addr - 0x3F00) % paletteSize
	if i >= 0x10 && i%4 == 0 {
		i -= 0x10
	}
	return i
}

func (p *PPU) readPalette(addr uint16) uint8 {
	return p.palette[paletteIndex(addr)]
}

func (p *PPU) writePalette(addr uint16, val uint8) {
	p.palette[paletteIndex(addr)] = val
}

// --- timing core ---

// Tick advances the dot/scanline counters by cycles PPU dots and
// reports whether a frame completed during this call (spec.md §4.3).
func (p *PPU) Tick(cycles int) (frameComplete bool) {
	for i := 0; i < cycles; i++ {
		if p.tickOne() {
			frameComplete = true
		}
	}
	return frameComplete
}

func (p *PPU) tickOne() bool {
	p.dot++
	if p.dot < dotsPerScanline {
		return false
	}
	p.dot -= dotsPerScanline
	p.scanline++

	switch {
	case p.scanline == vblankStartLine:
		p.status |= StatusVBlank
		p.status &^= StatusSprite0Hit
		if p.ctrl.GenerateNMI() {
			p.nmiLatch = true
		}
	case p.scanline == scanlinesPerFrame:
		p.scanline = 0
		p.nmiLatch = false
		p.status &^= StatusSprite0Hit
		p.status &^= StatusVBlank
		return true
	}
	return false
}

// PollNMI returns whether the PPU has latched an NMI request and
// clears the latch, per spec.md §4.3.
func (p *PPU) PollNMI() bool {
	v := p.nmiLatch
	p.nmiLatch = false
	return v
}

// --- read-only view for the host frame callback ---

func (p *PPU) Ctrl() Ctrl     { return p.ctrl }
func (p *PPU) Mask() Mask     { return p.mask }
func (p *PPU) Status() Status { return p.status }
func (p *PPU) Scanline() int  { return p.scanline }
func (p *PPU) Dot() int       { return p.dot }

func (p *PPU) OAM() [oamSize]uint8         { return p.oam }
func (p *PPU) Palette() [paletteSize]uint8 { return p.palette }
func (p *PPU) VRAM() [vramSize]uint8       { return p.vram }
func (p *PPU) ScrollX() uint8              { return p.scroll.x }
func (p *PPU) ScrollY() uint8              { return p.scroll.y }

func (p *PPU) ChrRead(addr uint16) uint8 { return p.mapper.ChrRead(addr) }
