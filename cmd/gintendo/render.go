package main

import (
	"image"

	"github.com/kestrelnes/gintendo/bus"
)

const (
	screenWidth  = 256
	screenHeight = 240
	tilesPerRow  = screenWidth / 8
	tilesPerCol  = screenHeight / 8
	nametableLen = tilesPerRow * tilesPerCol // attribute bytes follow and are ignored
)

// decodeFrame renders nametable 0's background tiles from frame's
// CHR-ROM, VRAM, and palette into an RGBA image. It does not model
// scrolling, sprites, or per-tile attribute palette selection: actual
// pixel decoding is a host concern the core deliberately omits
// (spec.md §1 Non-goals say the core "exposes VRAM/OAM/palette state,
// not a framebuffer"), so this is the minimal renderer that makes that
// state visible, not a cycle-accurate PPU renderer.
func decodeFrame(frame bus.FrameView) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, screenWidth, screenHeight))

	vram := frame.VRAM()
	palette := frame.Palette()
	patternBase := frame.Ctrl().BackgroundPatternAddr()

	bg := [4]uint8{palette[0], palette[1], palette[2], palette[3]}

	for tile := 0; tile < nametableLen; tile++ {
		tileCol := tile % tilesPerRow
		tileRow := tile / tilesPerRow
		tileIndex := vram[tile]

		tileAddr := patternBase + uint16(tileIndex)*16
		var lo, hi [8]uint8
		for y := 0; y < 8; y++ {
			lo[y] = frame.ChrRead(tileAddr + uint16(y))
			hi[y] = frame.ChrRead(tileAddr + uint16(y) + 8)
		}

		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				bit := uint(7 - x)
				colorIdx := ((hi[y]>>bit)&1)<<1 | (lo[y]>>bit)&1
				rgb := nesPalette[bg[colorIdx]&0x3F]
				img.SetRGBA(tileCol*8+x, tileRow*8+y, rgb)
			}
		}
	}

	return img
}
