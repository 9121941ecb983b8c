// Package mapper implements NES cartridge mappers. Only mapper 0
// (NROM-128/NROM-256) is supported, matching spec.md's Non-goal of
// "cartridge mappers beyond the identity mapping".
package mapper

import (
	"fmt"

	"github.com/kestrelnes/gintendo/rom"
)

// Mapper abstracts cartridge-specific PRG/CHR addressing so the bus
// and PPU never need to know which board a ROM was built for.
type Mapper interface {
	ID() uint8
	Name() string
	PrgRead(addr uint16) uint8
	PrgWrite(addr uint16, val uint8) error
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, val uint8)
	Mirroring() rom.Mirroring
}

// New returns the mapper for r's declared mapper number, or an error
// if this core has no support for it. Loading a ROM this way means a
// bad mapper number is an error the host can report, rather than a
// runtime contract violation surfaced mid-emulation.
func New(r *rom.ROM) (Mapper, error) {
	switch r.MapperNum() {
	case 0:
		return newNROM(r), nil
	default:
		return nil, fmt.Errorf("unsupported mapper %d", r.MapperNum())
	}
}
