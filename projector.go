package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// vec2 is a world-space point or offset on the ground plane.
type vec2 struct{ X, Y float64 }

func (a vec2) add(b vec2) vec2 { return vec2{a.X + b.X, a.Y + b.Y} }
func (a vec2) sub(b vec2) vec2 { return vec2{a.X - b.X, a.Y - b.Y} }
func (a vec2) scale(s float64) vec2 { return vec2{a.X * s, a.Y * s} }
func (a vec2) div(s float64) vec2 { return vec2{a.X / s, a.Y / s} }
func (a vec2) lerp(b vec2, t float64) vec2 { return b.sub(a).scale(t).add(a) }

// pixelSink receives projected pixels. Clear is called once per frame before
// any Set, Present once after the last.
type pixelSink interface {
	Clear(c color.RGBA)
	Set(x, y int, c color.RGBA)
	Present() error
}

// planeRenderer projects a plane into a sink. The CPU projector is the
// reference; other backends must match its emission order and coordinates.
type planeRenderer interface {
	RenderPlane(p *Plane, cam Camera, fov float64, screenW, screenH int, sink pixelSink) error
	Close()
}

// edgeBound selects how the upper texture bound is tested.
type edgeBound int

const (
	// edgeInclusive rejects only tx > width, letting tx == width through.
	edgeInclusive edgeBound = iota
	// edgeExclusive rejects tx >= width.
	edgeExclusive
)

func parseEdgeBound(s string) (edgeBound, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inclusive":
		return edgeInclusive, nil
	case "exclusive":
		return edgeExclusive, nil
	default:
		return 0, fmt.Errorf("%w: texture edge %q (want inclusive or exclusive)", ErrInvalidConfig, s)
	}
}

func (e edgeBound) String() string {
	if e == edgeExclusive {
		return "exclusive"
	}
	return "inclusive"
}

// viewRays holds the four world-space endpoints of the camera's view cone on
// the near and far planes.
type viewRays struct {
	farLeft, nearLeft   vec2
	farRight, nearRight vec2
}

func castViewRays(cam Camera, near, far, fov float64) viewRays {
	origin := vec2{cam.X, cam.Y}
	left := vec2{math.Cos(cam.Angle - fov/2), math.Sin(cam.Angle - fov/2)}
	right := vec2{math.Cos(cam.Angle + fov/2), math.Sin(cam.Angle + fov/2)}
	return viewRays{
		farLeft:   origin.add(left.scale(far)),
		nearLeft:  origin.add(left.scale(near)),
		farRight:  origin.add(right.scale(far)),
		nearRight: origin.add(right.scale(near)),
	}
}

// scanline returns the world-space start and end of the row at the given
// normalized inverse depth. The result diverges as depth approaches zero.
func (r viewRays) scanline(depth float64) (start, end vec2) {
	start = r.farLeft.sub(r.nearLeft).div(depth).add(r.nearLeft)
	end = r.farRight.sub(r.nearRight).div(depth).add(r.nearRight)
	return start, end
}

// screenRow maps an iterated row index to its final screen row.
func screenRow(y, screenH int, o Orientation) int {
	if o == Ceiling {
		return screenH - (y + screenH/2)
	}
	return y + screenH/2
}

// cpuProjector is the reference implementation of the Mode-7 plane
// projection. It holds no per-frame state.
type cpuProjector struct {
	edge edgeBound
}

func (p cpuProjector) RenderPlane(pl *Plane, cam Camera, fov float64, screenW, screenH int, sink pixelSink) error {
	tex := pl.Texture()
	if tex == nil {
		return fmt.Errorf("rendering %s plane: texture released", pl.Orientation())
	}
	rays := castViewRays(cam, pl.Near(), pl.Far(), fov)
	half := float64(screenH) / 2
	for y := 1; y < screenH/2; y++ {
		start, end := rays.scanline(float64(y) / half)
		dy := screenRow(y, screenH, pl.Orientation())
		for x := 1; x < screenW; x++ {
			sample := start.lerp(end, float64(x)/float64(screenW))
			sink.Set(x, dy, p.resolve(tex, sample))
		}
	}
	return nil
}

func (cpuProjector) Close() {}

// resolve maps a world-space sample to a texel, returning black for anything
// off the texture.
func (p cpuProjector) resolve(tex *TextureBuffer, sample vec2) color.RGBA {
	fx := math.Floor(sample.X * float64(tex.width))
	fy := math.Floor(sample.Y * float64(tex.height))
	if math.IsNaN(fx) || math.IsNaN(fy) {
		return black
	}
	if fx < 0 || fy < 0 {
		return black
	}
	w, h := float64(tex.width), float64(tex.height)
	if p.edge == edgeExclusive {
		if fx >= w || fy >= h {
			return black
		}
	} else if fx > w || fy > h {
		return black
	}
	// On the inclusive edge tx == width reads the first texel of the next
	// row; past the last row there is nothing to read.
	return tex.at(int(fy)*tex.width + int(fx))
}
