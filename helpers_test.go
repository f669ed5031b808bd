package main

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
	white = color.RGBA{255, 255, 255, 255}
)

func quadTexture(t *testing.T) *TextureBuffer {
	t.Helper()
	tex, err := newTextureBuffer(2, 2, []color.RGBA{red, green, blue, white})
	require.NoError(t, err)
	return tex
}

func testPlane(t *testing.T, near, far float64, o Orientation) *Plane {
	t.Helper()
	p, err := newPlane(quadTexture(t), near, far, o)
	require.NoError(t, err)
	return p
}

type emission struct {
	x, y int
	c    color.RGBA
}

// recordingSink keeps every emission in order.
type recordingSink struct {
	clears   int
	presents int
	pixels   []emission
}

func (s *recordingSink) Clear(color.RGBA) { s.clears++ }
func (s *recordingSink) Set(x, y int, c color.RGBA) { s.pixels = append(s.pixels, emission{x, y, c}) }
func (s *recordingSink) Present() error { s.presents++; return nil }

func (s *recordingSink) at(x, y int) (color.RGBA, bool) {
	for _, p := range s.pixels {
		if p.x == x && p.y == y {
			return p.c, true
		}
	}
	return color.RGBA{}, false
}

// fakeClock advances by step every time it is read.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: step}
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}
