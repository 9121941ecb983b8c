package rom

import (
	"fmt"
	"io"
)

const (
	headerSize     = 16
	trainerSize    = 512
	prgBlockSize   = 16384
	chrBlockSize   = 8192
)

// ROM holds the parsed contents of an iNES v1 cartridge image: PRG-ROM,
// CHR-ROM, and the mirroring mode the PPU should use. Only mapper 0
// (NROM) is accepted; anything else is a load-time error rather than a
// runtime contract violation, since the cartridge itself cannot be
// faithfully emulated.
type ROM struct {
	prg       []byte
	chr       []byte
	mapperNum uint8
	mirroring Mirroring
	hasPRGRAM bool
}

// Load parses an iNES v1 image from r. It accepts only mapper 0
// (NROM-128/NROM-256) and iNES version 1 headers; a 512-byte trainer,
// if present, is read and discarded as the core has no use for it.
func Load(r io.Reader) (*ROM, error) {
	hbytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, hbytes); err != nil {
		return nil, fmt.Errorf("reading iNES header: %w", err)
	}

	h := parseHeader(hbytes)
	if !h.isINesFormat() {
		return nil, fmt.Errorf("not an iNES image: bad magic %q", hbytes[0:4])
	}
	if v := h.iNesVersion(); v != 0 {
		return nil, fmt.Errorf("unsupported iNES version tag %d (only version 1 is accepted)", v)
	}
	if mn := h.mapperNum(); mn != 0 {
		return nil, fmt.Errorf("unsupported mapper %d (only mapper 0/NROM is accepted)", mn)
	}

	if h.hasTrainer() {
		if _, err := io.CopyN(io.Discard, r, trainerSize); err != nil {
			return nil, fmt.Errorf("reading trainer: %w", err)
		}
	}

	prg := make([]byte, prgBlockSize*int(h.prgSize))
	if _, err := io.ReadFull(r, prg); err != nil {
		return nil, fmt.Errorf("reading PRG-ROM (wanted %d bytes): %w", len(prg), err)
	}

	chr := make([]byte, chrBlockSize*int(h.chrSize))
	if _, err := io.ReadFull(r, chr); err != nil {
		return nil, fmt.Errorf("reading CHR-ROM (wanted %d bytes): %w", len(chr), err)
	}

	return &ROM{
		prg:       prg,
		chr:       chr,
		mapperNum: h.mapperNum(),
		mirroring: h.mirroring(),
		hasPRGRAM: h.hasPRGRAM(),
	}, nil
}

// ForTest builds a ROM value directly from in-memory PRG/CHR data,
// bypassing header parsing. Exported for use by sibling packages'
// tests that need a *ROM without synthesizing an iNES byte stream.
func ForTest(prg, chr []byte, mapperNum uint8, mirroring Mirroring, hasPRGRAM bool) *ROM {
	return &ROM{prg: prg, chr: chr, mapperNum: mapperNum, mirroring: mirroring, hasPRGRAM: hasPRGRAM}
}

func (r *ROM) PRG() []byte { return r.prg }
func (r *ROM) CHR() []byte { return r.chr }

// PRGBlocks reports how many 16 KiB PRG-ROM blocks this image carries;
// NROM-128 has 1, NROM-256 has 2.
func (r *ROM) PRGBlocks() int { return len(r.prg) / prgBlockSize }

func (r *ROM) MapperNum() uint8      { return r.mapperNum }
func (r *ROM) Mirroring() Mirroring  { return r.mirroring }
func (r *ROM) HasPRGRAM() bool       { return r.hasPRGRAM }
