package main

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGame_UpdateEndsWhenLoopStops(t *testing.T) {
	cfg := engineConfig()
	fb := newFramebuffer(cfg.ScreenWidth, cfg.ScreenHeight)
	clock := newFakeClock(20 * time.Millisecond)
	input := &toggleInput{}
	e := newEngineWithPlanes(cfg, testPlane(t, cfg.FloorNear, cfg.FloorFar, Floor), nil,
		fixedPacing{delta: 1}, cpuProjector{}, fb, input, clock.Now)
	g := newGame(e, fb, false)

	require.NoError(t, g.Update())
	assert.True(t, g.started)
	assert.Equal(t, 1, fb.Presented())

	input.state = input.state.With(ActionQuit, true)
	assert.ErrorIs(t, g.Update(), ebiten.Termination)

	w, h := g.Layout(1920, 1080)
	assert.Equal(t, cfg.ScreenWidth, w)
	assert.Equal(t, cfg.ScreenHeight, h)
}

// toggleInput lets a test change the held state between polls.
type toggleInput struct {
	state InputState
}

func (t *toggleInput) Poll() InputState { return t.state }
