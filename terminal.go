package main

import (
	"fmt"
	"image/color"
	"sync"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// terminalKeyHold is how long a key press counts as held. Terminals report
// presses and repeats but never releases.
const terminalKeyHold = 150 * time.Millisecond

// upperHalfBlock draws the top pixel as foreground, the bottom as background.
const upperHalfBlock = '▀'

// terminalDisplay shows presented frames in a terminal, two pixel rows per
// cell, and reads the keyboard from the same screen. It is both the pixel
// sink and the input source of a terminal run.
type terminalDisplay struct {
	screen tcell.Screen
	fb     *framebuffer
	clock  func() time.Time
	tuning bool

	events chan tcell.Event
	done   chan struct{}
	once   sync.Once

	seen [actionCount]time.Time
	quit bool
}

func newTerminalDisplay(fb *framebuffer, tuning bool, clock func() time.Time) (*terminalDisplay, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("%w: creating terminal screen: %w", ErrDisplayInit, err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("%w: initializing terminal: %w", ErrDisplayInit, err)
	}
	return newTerminalDisplayOn(screen, fb, tuning, clock), nil
}

// newTerminalDisplayOn wraps an initialized screen.
func newTerminalDisplayOn(screen tcell.Screen, fb *framebuffer, tuning bool, clock func() time.Time) *terminalDisplay {
	if clock == nil {
		clock = time.Now
	}
	screen.HideCursor()
	screen.Clear()
	d := &terminalDisplay{
		screen: screen,
		fb:     fb,
		clock:  clock,
		tuning: tuning,
		events: make(chan tcell.Event, 64),
		done:   make(chan struct{}),
	}
	go d.readEvents()
	return d
}

func (d *terminalDisplay) readEvents() {
	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case d.events <- ev:
		case <-d.done:
			return
		}
	}
}

func (d *terminalDisplay) Clear(c color.RGBA) { d.fb.Clear(c) }

func (d *terminalDisplay) Set(x, y int, c color.RGBA) { d.fb.Set(x, y, c) }

// Present swaps the framebuffer and redraws the terminal from it.
func (d *terminalDisplay) Present() error {
	if err := d.fb.Present(); err != nil {
		return err
	}
	d.draw()
	return nil
}

func (d *terminalDisplay) draw() {
	cols, rows := d.screen.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	img := d.fb.Image()
	for cy := 0; cy < rows; cy++ {
		top := (2 * cy) * d.fb.height / (2 * rows)
		bottom := (2*cy + 1) * d.fb.height / (2 * rows)
		for cx := 0; cx < cols; cx++ {
			sx := cx * d.fb.width / cols
			t, b := img.RGBAAt(sx, top), img.RGBAAt(sx, bottom)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(t.R), int32(t.G), int32(t.B))).
				Background(tcell.NewRGBColor(int32(b.R), int32(b.G), int32(b.B)))
			d.screen.SetContent(cx, cy, upperHalfBlock, nil, style)
		}
	}
	d.screen.Show()
}

var terminalRunes = map[rune]Action{
	'w': ActionForward,
	's': ActionBackward,
	'a': ActionTurnLeft,
	'd': ActionTurnRight,
	'q': ActionQuit,
}

var terminalTuningKeys = map[tcell.Key]Action{
	tcell.KeyUp:    ActionFarIncrease,
	tcell.KeyDown:  ActionFarDecrease,
	tcell.KeyRight: ActionNearIncrease,
	tcell.KeyLeft:  ActionNearDecrease,
}

// Poll drains pending terminal events without blocking.
func (d *terminalDisplay) Poll() InputState {
	now := d.clock()
	for drained := false; !drained; {
		select {
		case ev := <-d.events:
			d.handle(ev, now)
		default:
			drained = true
		}
	}
	var s InputState
	for a := Action(0); a < actionCount; a++ {
		if !d.seen[a].IsZero() && now.Sub(d.seen[a]) < terminalKeyHold {
			s = s.With(a, true)
		}
	}
	if d.quit {
		s = s.With(ActionQuit, true)
	}
	return s
}

func (d *terminalDisplay) handle(ev tcell.Event, now time.Time) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			d.quit = true
		case tcell.KeyRune:
			if a, ok := terminalRunes[unicode.ToLower(ev.Rune())]; ok {
				if a == ActionQuit {
					d.quit = true
				}
				d.seen[a] = now
			}
		default:
			if a, ok := terminalTuningKeys[ev.Key()]; ok && d.tuning {
				d.seen[a] = now
			}
		}
	case *tcell.EventResize:
		d.screen.Sync()
	}
}

// Close restores the terminal. It is safe to call more than once.
func (d *terminalDisplay) Close() {
	d.once.Do(func() {
		close(d.done)
		d.screen.Fini()
	})
}
