package bus

import (
	"testing"

	"github.com/kestrelnes/gintendo/joypad"
	"github.com/kestrelnes/gintendo/mapper"
	"github.com/kestrelnes/gintendo/rom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBus(t *testing.T, onFrame FrameCallback) *Bus {
	t.Helper()
	prg := make([]byte, 0x4000)
	r := rom.ForTest(prg, make([]byte, 0x2000), 0, rom.Horizontal, false)
	m, err := mapper.New(r)
	require.NoError(t, err)
	return New(m, onFrame)
}

func TestWRAMMirroring(t *testing.T) {
	b := testBus(t, nil)
	b.Write(0x0000, 0x42)
	assert.Equal(t, uint8(0x42), b.Read(0x0800))
	assert.Equal(t, uint8(0x42), b.Read(0x1800))
}

func TestPPURegisterMirroring(t *testing.T) {
	b := testBus(t, nil)
	b.Write(0x2000, 0x80)
	b.Write(0x2006, 0x20)
	b.Write(0x2006, 0x00)
	b.Write(0x2007, 0x11)

	// $200F mirrors $2007 (0x200F & 0x2007 == 0x2007)
	b.Write(0x2006, 0x20)
	b.Write(0x2006, 0x00)
	assert.NotPanics(t, func() { b.Read(0x200F) })
}

func TestOAMDMACopies256Bytes(t *testing.T) {
	b := testBus(t, nil)
	for i := 0; i < 256; i++ {
		b.Write(0x0200+uint16(i), uint8(i))
	}
	b.Write(0x4014, 0x02)

	b.Write(0x2003, 0x00)
	assert.Equal(t, uint8(0), b.Read(0x2004))
	b.Write(0x2003, 0xFF)
	assert.Equal(t, uint8(0xFF), b.Read(0x2004))
}

func TestJoypadRoundTrip(t *testing.T) {
	b := testBus(t, nil)
	b.Joypad().SetButton(joypad.A, true)
	b.Write(0x4016, 1)
	b.Write(0x4016, 0)
	assert.Equal(t, uint8(1), b.Read(0x4016))
}

func TestTickInvokesFrameCallbackOncePerFrame(t *testing.T) {
	calls := 0
	b := testBus(t, func(frame FrameView, joy *joypad.Joypad) {
		calls++
	})

	// 89342 PPU dots == one full frame; bus.Tick takes CPU cycles,
	// multiplying by 3 internally, so round the CPU-cycle count up to
	// cover the remainder (89342 isn't a multiple of 3).
	b.Tick((89342 + 2) / 3)
	assert.Equal(t, 1, calls)
}

func TestPRGWritePanics(t *testing.T) {
	b := testBus(t, nil)
	assert.Panics(t, func() { b.Write(0x8000, 0xFF) })
}
