package rom

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func synthesizeImage(prgBlocks, chrBlocks int, flags6, flags7 byte, trainer bool) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x4E, 0x45, 0x53, 0x1A, byte(prgBlocks), byte(chrBlocks), flags6, flags7})
	buf.Write(make([]byte, 8)) // flags 8-15

	if trainer {
		buf.Write(make([]byte, trainerSize))
	}
	buf.Write(bytes.Repeat([]byte{0xEA}, prgBlockSize*prgBlocks))
	buf.Write(bytes.Repeat([]byte{0x11}, chrBlockSize*chrBlocks))

	return buf.Bytes()
}

func TestLoadValidNROM(t *testing.T) {
	img := synthesizeImage(2, 1, flag6Mirroring, 0x00, false)

	r, err := Load(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, 2, r.PRGBlocks())
	assert.Len(t, r.PRG(), 2*prgBlockSize)
	assert.Len(t, r.CHR(), chrBlockSize)
	assert.Equal(t, uint8(0), r.MapperNum())
	assert.Equal(t, Vertical, r.Mirroring())
}

func TestLoadSkipsTrainer(t *testing.T) {
	img := synthesizeImage(1, 1, flag6Trainer, 0x00, true)

	r, err := Load(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Len(t, r.PRG(), prgBlockSize)
	assert.Equal(t, uint8(0xEA), r.PRG()[0])
}

func TestLoadRejectsBadMagic(t *testing.T) {
	img := synthesizeImage(1, 1, 0, 0, false)
	img[0] = 'X'

	_, err := Load(bytes.NewReader(img))
	assert.Error(t, err)
}

func TestLoadRejectsNonMapperZero(t *testing.T) {
	img := synthesizeImage(1, 1, 0x10, 0x00, false)

	_, err := Load(bytes.NewReader(img))
	assert.Error(t, err)
}

func TestLoadRejectsNES2(t *testing.T) {
	img := synthesizeImage(1, 1, 0x00, 0x08, false)

	_, err := Load(bytes.NewReader(img))
	assert.Error(t, err)
}
