package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/bmp"
)

// black is returned for every sample that falls outside a texture.
var black = color.RGBA{0, 0, 0, 255}

// TextureBuffer holds decoded texels in row-major order. It is never modified
// after loading.
type TextureBuffer struct {
	width  int
	height int
	texels []color.RGBA
}

// newTextureBuffer wraps pre-decoded texels. len(texels) must equal width*height.
func newTextureBuffer(width, height int, texels []color.RGBA) (*TextureBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: texture size %dx%d", ErrTextureLoad, width, height)
	}
	if len(texels) != width*height {
		return nil, fmt.Errorf("%w: %d texels for %dx%d texture", ErrTextureLoad, len(texels), width, height)
	}
	return &TextureBuffer{width: width, height: height, texels: texels}, nil
}

// loadTexture decodes the image at path into a TextureBuffer.
func loadTexture(path string) (*TextureBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %q: %w", ErrTextureLoad, path, err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, bmp.ErrUnsupported) {
		// x/image/bmp stops at 16 bpp and custom channel masks.
		tex, berr := decodeBitfieldsBMP(data)
		if berr != nil {
			return nil, fmt.Errorf("%w: decoding %q: %w", ErrTextureLoad, path, berr)
		}
		return tex, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %q: %w", ErrTextureLoad, path, err)
	}
	tex, err := textureFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %s image %q: %w", ErrTextureLoad, format, path, err)
	}
	return tex, nil
}

// textureFromImage normalizes img to opaque RGB texels. Alpha is dropped,
// not premultiplied, so transparent source pixels keep their color.
func textureFromImage(img image.Image) (*TextureBuffer, error) {
	switch img.ColorModel() {
	case color.RGBA64Model, color.NRGBA64Model, color.Gray16Model, color.Alpha16Model:
		return nil, fmt.Errorf("%w: 16 bits per channel", ErrUnsupportedFormat)
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnsupportedFormat)
	}
	texels := make([]color.RGBA, width*height)
	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+width*4]
			for x := 0; x < width; x++ {
				texels[y*width+x] = color.RGBA{row[x*4], row[x*4+1], row[x*4+2], 255}
			}
		}
	case *image.RGBA:
		for y := 0; y < height; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+width*4]
			for x := 0; x < width; x++ {
				texels[y*width+x] = color.RGBA{row[x*4], row[x*4+1], row[x*4+2], 255}
			}
		}
	default:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				texels[y*width+x] = color.RGBA{c.R, c.G, c.B, 255}
			}
		}
	}
	return newTextureBuffer(width, height, texels)
}

// Width returns the texture width in texels.
func (t *TextureBuffer) Width() int { return t.width }

// Height returns the texture height in texels.
func (t *TextureBuffer) Height() int { return t.height }

// Sample returns the texel at column x, row y. It does not clamp; callers
// must keep 0 <= x < Width() and 0 <= y < Height().
func (t *TextureBuffer) Sample(x, y int) color.RGBA {
	return t.texels[y*t.width+x]
}

// at returns the texel at a flat row-major index, or black past the end.
func (t *TextureBuffer) at(idx int) color.RGBA {
	if idx < 0 || idx >= len(t.texels) {
		return black
	}
	return t.texels[idx]
}
