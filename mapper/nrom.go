package mapper

import (
	"fmt"

	"github.com/kestrelnes/gintendo/rom"
)

// nrom implements mapper 0: PRG-ROM is either 16 KiB (NROM-128, mirrored
// across both halves of $8000-$FFFF) or 32 KiB (NROM-256, mapped
// directly); CHR is fixed ROM with no bank switching.
type nrom struct {
	prg       []byte
	chr       []byte
	mirroring rom.Mirroring
}

func newNROM(r *rom.ROM) *nrom {
	return &nrom{prg: r.PRG(), chr: r.CHR(), mirroring: r.Mirroring()}
}

func (m *nrom) ID() uint8     { return 0 }
func (m *nrom) Name() string  { return "NROM" }

func (m *nrom) PrgRead(addr uint16) uint8 {
	off := addr - 0x8000
	if len(m.prg) == 0x4000 {
		off %= 0x4000
	}
	return m.prg[off]
}

// PrgWrite always fails: PRG-ROM is read-only hardware. Per spec.md
// §7 this is a programmer-contract violation, not a recoverable
// open-bus write.
func (m *nrom) PrgWrite(addr uint16, val uint8) error {
	return fmt.Errorf("write to read-only PRG-ROM at 0x%04X", addr)
}

func (m *nrom) ChrRead(addr uint16) uint8 {
	return m.chr[addr]
}

// ChrWrite is a no-op: this core models only CHR-ROM boards, which
// have no CHR-RAM to modify.
func (m *nrom) ChrWrite(addr uint16, val uint8) {}

func (m *nrom) Mirroring() rom.Mirroring { return m.mirroring }
