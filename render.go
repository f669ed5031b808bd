package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Draw uploads the presented frame and the optional debug overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.fb.Presented() > 0 {
		screen.WritePixels(g.fb.Pixels())
	}

	if g.debug {
		cam := g.engine.camera
		msg := fmt.Sprintf("FPS: %.1f (measured %d)\nDelta: %.4f\nCamera: %.4f, %.4f @ %.3f rad\nNear/Far: %.4f / %.4f (arrows)",
			ebiten.ActualFPS(), g.engine.pacer.LastFPS(), g.engine.pacer.Delta(),
			cam.X, cam.Y, cam.Angle, g.engine.floor.Near(), g.engine.floor.Far())
		ebitenutil.DebugPrint(screen, msg)
	}
}

// Layout reports the logical screen size used by ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return g.engine.screenW, g.engine.screenH }
