package main

import (
	"image"
	"image/color"
)

// framebuffer is a double-buffered RGBA pixel sink. Set and Clear write the
// back buffer; Present swaps it to the front, where the display reads it.
type framebuffer struct {
	width, height int
	back          []byte
	front         []byte
	presented     int
}

func newFramebuffer(width, height int) *framebuffer {
	return &framebuffer{
		width:  width,
		height: height,
		back:   make([]byte, width*height*4),
		front:  make([]byte, width*height*4),
	}
}

func (f *framebuffer) Clear(c color.RGBA) {
	for i := 0; i < len(f.back); i += 4 {
		f.back[i] = c.R
		f.back[i+1] = c.G
		f.back[i+2] = c.B
		f.back[i+3] = c.A
	}
}

// Set writes one pixel; coordinates off the screen are ignored.
func (f *framebuffer) Set(x, y int, c color.RGBA) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	base := (y*f.width + x) * 4
	f.back[base] = c.R
	f.back[base+1] = c.G
	f.back[base+2] = c.B
	f.back[base+3] = c.A
}

func (f *framebuffer) Present() error {
	f.back, f.front = f.front, f.back
	f.presented++
	return nil
}

// Pixels returns the most recently presented frame as RGBA bytes. The slice
// is reused after the next Present.
func (f *framebuffer) Pixels() []byte { return f.front }

// Presented returns how many frames have been presented.
func (f *framebuffer) Presented() int { return f.presented }

// Image copies the presented frame into an image.
func (f *framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	copy(img.Pix, f.front)
	return img
}
