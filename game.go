package main

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Game adapts the engine to ebiten's Update/Draw cycle. Each Update is one
// loop iteration; Draw uploads whatever frame was last presented.
type Game struct {
	engine  *engine
	fb      *framebuffer
	debug   bool
	started bool
}

func newGame(e *engine, fb *framebuffer, debug bool) *Game {
	return &Game{engine: e, fb: fb, debug: debug}
}

// Update runs one engine iteration and ends the game once the loop stops.
func (g *Game) Update() error {
	g.started = true
	if err := g.engine.iterate(); err != nil {
		return err
	}
	if !g.engine.Running() {
		return ebiten.Termination
	}
	return nil
}

// runWindowed opens the window and drives the engine until it stops. A
// failure before the first Update is reported as ErrDisplayInit.
func runWindowed(cfg Config, g *Game) error {
	winW, winH := cfg.windowSize()
	ebiten.SetWindowSize(winW, winH)
	ebiten.SetWindowTitle(defaultWindowTitle)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(cfg.TPS * updatesPerTick)

	err := ebiten.RunGame(g)
	if err == nil || errors.Is(err, ebiten.Termination) {
		return nil
	}
	if !g.started {
		return fmt.Errorf("%w: %w", ErrDisplayInit, err)
	}
	return err
}

// updatesPerTick is how many ebiten updates run per target tick, so the pacer
// rather than ebiten decides when a tick is owed.
const updatesPerTick = 4
