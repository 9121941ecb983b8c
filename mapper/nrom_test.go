package mapper

import (
	"testing"

	"github.com/kestrelnes/gintendo/rom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func romWith(prg, chr []byte, mirroring rom.Mirroring) *rom.ROM {
	return rom.ForTest(prg, chr, 0, mirroring, false)
}

func TestNROM128Mirrors(t *testing.T) {
	prg := make([]byte, 0x4000)
	prg[0] = 0x11
	prg[0x3FFF] = 0x22

	r, err := New(romWith(prg, make([]byte, 0x2000), rom.Horizontal))
	require.NoError(t, err)

	assert.Equal(t, uint8(0x11), r.PrgRead(0x8000))
	assert.Equal(t, uint8(0x11), r.PrgRead(0xC000)) // mirrored
	assert.Equal(t, uint8(0x22), r.PrgRead(0xBFFF))
	assert.Equal(t, uint8(0x22), r.PrgRead(0xFFFF))
}

func TestNROM256DoesNotMirror(t *testing.T) {
	prg := make([]byte, 0x8000)
	prg[0] = 0x11
	prg[0x4000] = 0x33

	r, err := New(romWith(prg, make([]byte, 0x2000), rom.Vertical))
	require.NoError(t, err)

	assert.Equal(t, uint8(0x11), r.PrgRead(0x8000))
	assert.Equal(t, uint8(0x33), r.PrgRead(0xC000))
}

func TestPrgWriteFails(t *testing.T) {
	r, err := New(romWith(make([]byte, 0x4000), make([]byte, 0x2000), rom.Horizontal))
	require.NoError(t, err)

	assert.Error(t, r.PrgWrite(0x8000, 0xFF))
}

func TestUnsupportedMapperErrors(t *testing.T) {
	r := rom.ForTest(make([]byte, 0x4000), make([]byte, 0x2000), 4, rom.Horizontal, false)
	_, err := New(r)
	assert.Error(t, err)
}
