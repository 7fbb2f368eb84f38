// Command gones runs a cartridge image in an ebiten window.
//
// Grounded on bdwalton/gintendo's gintendo.go (flag-driven ROM load,
// ebiten.RunGame) and console/bus.go's Layout/Draw (window sizing, pixel
// blit), generalized to drive the emulation through engine.Engine instead
// of owning the Bus directly, and to source controller input through
// the callback-based controller.Controller instead of polling ebiten
// from inside the core.
package main

import (
	"flag"
	"image"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"gones/controller"
	"gones/engine"
)

var romFile = flag.String("rom", "", "path to an iNES/NES 2.0 ROM image")
var locale = flag.String("locale", "", "BCP-47 locale tag (default: auto-detect, falling back to en)")

const (
	screenWidth  = 256
	screenHeight = 240
)

// game adapts engine.Engine to the ebiten.Game interface, and doubles as
// the PixelSink the engine blits completed frames into.
type game struct {
	eng   *engine.Engine
	frame *image.RGBA
}

// Blit implements engine.PixelSink.
func (g *game) Blit(frame []uint8) {
	copy(g.frame.Pix, frame)
}

func (g *game) Update() error {
	return g.eng.RunFrame()
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.WritePixels(g.frame.Pix)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

var buttonKeys = []ebiten.Key{
	ebiten.KeyA,     // A
	ebiten.KeyB,     // B
	ebiten.KeySpace, // Select
	ebiten.KeyEnter, // Start
	ebiten.KeyUp,    // Up
	ebiten.KeyDown,  // Down
	ebiten.KeyLeft,  // Left
	ebiten.KeyRight, // Right
}

func pollKeyboard() uint8 {
	var buttons uint8
	for i, key := range buttonKeys {
		if ebiten.IsKeyPressed(key) {
			buttons |= 1 << i
		}
	}
	return buttons
}

func main() {
	flag.Parse()
	if *romFile == "" {
		log.Fatal("gones: -rom is required")
	}

	romData, err := os.ReadFile(*romFile)
	if err != nil {
		log.Fatalf("gones: reading ROM: %v", err)
	}

	g := &game{frame: image.NewRGBA(image.Rect(0, 0, screenWidth, screenHeight))}
	eng := engine.Create(g, engine.Config{Locale: *locale})
	g.eng = eng
	eng.SetControllers(controller.New(pollKeyboard), nil)

	if err := eng.Insert(romData); err != nil {
		log.Fatalf("gones: %v", err)
	}

	ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
	ebiten.SetWindowTitle("gones")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
