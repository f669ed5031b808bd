package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time { return c.now }

func newSimulatedTerminal(t *testing.T, cols, rows int, fb *framebuffer, tuning bool) (*terminalDisplay, tcell.SimulationScreen, *manualClock) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(cols, rows)
	clock := &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	d := newTerminalDisplayOn(screen, fb, tuning, clock.Now)
	t.Cleanup(d.Close)
	return d, screen, clock
}

func TestTerminalDisplay_DrawsHalfBlocks(t *testing.T) {
	fb := newFramebuffer(8, 4)
	d, screen, _ := newSimulatedTerminal(t, 4, 2, fb, false)

	d.Clear(black)
	d.Set(0, 0, red)
	d.Set(0, 1, blue)
	require.NoError(t, d.Present())
	assert.Equal(t, 1, fb.Presented())

	cells, cols, rows := screen.GetContents()
	require.Equal(t, 4, cols)
	require.Equal(t, 2, rows)
	require.Len(t, cells, cols*rows)
	assert.Equal(t, []rune{upperHalfBlock}, cells[0].Runes)

	fg, bg, _ := cells[0].Style.Decompose()
	assert.NotEqual(t, fg, bg, "top and bottom pixels differ")
}

func TestTerminalDisplay_KeyPressIsHeldBriefly(t *testing.T) {
	d, screen, clock := newSimulatedTerminal(t, 4, 2, newFramebuffer(8, 4), false)

	screen.InjectKey(tcell.KeyRune, 'W', tcell.ModNone)
	require.Eventually(t, func() bool { return d.Poll().Held(ActionForward) }, time.Second, 5*time.Millisecond)

	clock.now = clock.now.Add(terminalKeyHold / 2)
	assert.True(t, d.Poll().Held(ActionForward))

	clock.now = clock.now.Add(terminalKeyHold)
	assert.False(t, d.Poll().Held(ActionForward))
}

func TestTerminalDisplay_TuningKeysNeedDebug(t *testing.T) {
	d, screen, _ := newSimulatedTerminal(t, 4, 2, newFramebuffer(8, 4), false)

	screen.InjectKey(tcell.KeyUp, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'd', tcell.ModNone)
	var in InputState
	require.Eventually(t, func() bool {
		in = d.Poll()
		return in.Held(ActionTurnRight)
	}, time.Second, 5*time.Millisecond)
	assert.False(t, in.Held(ActionFarIncrease))
}

func TestTerminalDisplay_TuningKeys(t *testing.T) {
	d, screen, _ := newSimulatedTerminal(t, 4, 2, newFramebuffer(8, 4), true)

	screen.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)
	require.Eventually(t, func() bool { return d.Poll().Held(ActionNearDecrease) }, time.Second, 5*time.Millisecond)
}

func TestTerminalDisplay_EscapeQuits(t *testing.T) {
	d, screen, clock := newSimulatedTerminal(t, 4, 2, newFramebuffer(8, 4), false)

	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	require.Eventually(t, func() bool { return d.Poll().Held(ActionQuit) }, time.Second, 5*time.Millisecond)

	clock.now = clock.now.Add(time.Minute)
	assert.True(t, d.Poll().Held(ActionQuit), "quit is sticky")

	d.Close()
	d.Close()
}
