// Command gintendo is the host binary: it loads an iNES ROM, wires the
// bus/mos6502/ppu/joypad/mapper/rom packages together, and drives
// either a free-running ebiten window or, with -trace, the
// interactive bubbletea instruction stepper. Grounded on the teacher's
// gintendo.go and console/controller.go (spec.md §6 "Host -> core").
package main

import (
	"flag"
	"image"
	"log"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/kestrelnes/gintendo/bus"
	"github.com/kestrelnes/gintendo/joypad"
	"github.com/kestrelnes/gintendo/mapper"
	"github.com/kestrelnes/gintendo/mos6502"
	"github.com/kestrelnes/gintendo/rom"
	"github.com/kestrelnes/gintendo/trace"
)

var (
	romPath = flag.String("rom", "", "path to an iNES v1 ROM (required)")
	scale   = flag.Int("scale", 2, "window scale factor")
	traceOn = flag.Bool("trace", false, "launch the interactive instruction-stepping debugger instead of free-running playback")
)

// keymap mirrors the teacher's console/controller.go binding of
// physical keys to the NES's eight logical buttons (spec.md §4.5).
var keymap = map[ebiten.Key]joypad.Button{
	ebiten.KeyA:     joypad.A,
	ebiten.KeyB:     joypad.B,
	ebiten.KeySpace: joypad.Select,
	ebiten.KeyEnter: joypad.Start,
	ebiten.KeyUp:    joypad.Up,
	ebiten.KeyDown:  joypad.Down,
	ebiten.KeyLeft:  joypad.Left,
	ebiten.KeyRight: joypad.Right,
}

// game implements ebiten.Game. The CPU runs free in its own goroutine
// (mirroring the teacher's `go gintendo.Run(ctx)`); Draw only ever
// reads the most recently decoded frame, guarded by mu.
type game struct {
	cpu *mos6502.CPU
	bus *bus.Bus

	mu    sync.Mutex
	frame *image.RGBA
}

func newGame(m mapper.Mapper) *game {
	g := &game{}
	g.bus = bus.New(m, g.onFrame)
	g.cpu = mos6502.New(g.bus)
	g.cpu.Reset()
	return g
}

// onFrame is the bus.FrameCallback: it polls the host's keyboard into
// the joypad and decodes the just-completed frame for Draw. Per
// spec.md §5 it must not call back into the CPU, and it doesn't.
func (g *game) onFrame(frame bus.FrameView, joy *joypad.Joypad) {
	for key, button := range keymap {
		joy.SetButton(button, ebiten.IsKeyPressed(key))
	}

	img := decodeFrame(frame)
	g.mu.Lock()
	g.frame = img
	g.mu.Unlock()
}

// runCPU drives the CPU until BRK halts it (spec.md §7 "BRK ... exits
// run cleanly"). A ROM with no BRK runs until the process exits.
func (g *game) runCPU() {
	g.cpu.Run(nil)
}

func (g *game) Update() error { return nil }

func (g *game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	frame := g.frame
	g.mu.Unlock()

	if frame == nil {
		ebitenutil.DebugPrint(screen, "waiting for first frame...")
		return
	}
	screen.WritePixels(frame.Pix)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	flag.Parse()
	if *romPath == "" {
		log.Fatal("-rom is required")
	}

	f, err := os.Open(*romPath)
	if err != nil {
		log.Fatalf("opening ROM: %v", err)
	}
	defer f.Close()

	r, err := rom.Load(f)
	if err != nil {
		log.Fatalf("loading ROM: %v", err)
	}

	m, err := mapper.New(r)
	if err != nil {
		log.Fatalf("selecting mapper: %v", err)
	}

	g := newGame(m)

	if *traceOn {
		if err := trace.Run(g.cpu, g.bus); err != nil {
			log.Fatal(err)
		}
		return
	}

	ebiten.SetWindowSize(screenWidth*(*scale), screenHeight*(*scale))
	ebiten.SetWindowTitle("gintendo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	go g.runCPU()

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
