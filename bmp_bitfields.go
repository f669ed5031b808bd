package main

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"math/bits"
)

const (
	bmpFileHeaderLen = 14
	bmpInfoHeaderLen = 40

	biRGB       = 0
	biBitfields = 3
)

// Default RGB555 layout for uncompressed 16 bpp bitmaps.
var bmp16DefaultMasks = [3]uint32{0x7c00, 0x03e0, 0x001f}

// decodeBitfieldsBMP reads the uncompressed bitmaps x/image/bmp rejects:
// 16 bpp (RGB555 or masked, e.g. RGB565) and 32 bpp with non-default masks.
// Channels are scaled to 8 bits; any alpha mask is ignored.
func decodeBitfieldsBMP(data []byte) (*TextureBuffer, error) {
	le := binary.LittleEndian
	if len(data) < bmpFileHeaderLen+bmpInfoHeaderLen || data[0] != 'B' || data[1] != 'M' {
		return nil, fmt.Errorf("%w: not a BMP file", ErrUnsupportedFormat)
	}
	pixelOffset := int(le.Uint32(data[10:]))
	infoLen := int(le.Uint32(data[14:]))
	width := int(int32(le.Uint32(data[18:])))
	height := int(int32(le.Uint32(data[22:])))
	bpp := int(le.Uint16(data[28:]))
	compression := le.Uint32(data[30:])

	if infoLen < bmpInfoHeaderLen {
		return nil, fmt.Errorf("%w: BMP info header of %d bytes", ErrUnsupportedFormat, infoLen)
	}
	topDown := height < 0
	if topDown {
		height = -height
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: BMP size %dx%d", ErrUnsupportedFormat, width, height)
	}

	var masks [3]uint32
	switch {
	case compression == biRGB && bpp == 16:
		masks = bmp16DefaultMasks
	case compression == biBitfields && (bpp == 16 || bpp == 32):
		// The masks follow a 40 byte header and sit inside the larger ones.
		at := bmpFileHeaderLen + bmpInfoHeaderLen
		if len(data) < at+12 {
			return nil, fmt.Errorf("%w: truncated BMP channel masks", ErrUnsupportedFormat)
		}
		for i := range masks {
			masks[i] = le.Uint32(data[at+4*i:])
		}
	default:
		return nil, fmt.Errorf("%w: BMP with %d bpp and compression %d", ErrUnsupportedFormat, bpp, compression)
	}

	bytesPerPixel := bpp / 8
	stride := (width*bytesPerPixel + 3) &^ 3
	if pixelOffset < 0 || len(data) < pixelOffset+stride*height {
		return nil, fmt.Errorf("%w: truncated BMP pixel data", ErrUnsupportedFormat)
	}

	var channels [3]maskedChannel
	for i, m := range masks {
		channels[i] = newMaskedChannel(m)
	}
	texels := make([]color.RGBA, width*height)
	for row := 0; row < height; row++ {
		y := height - 1 - row
		if topDown {
			y = row
		}
		src := data[pixelOffset+row*stride:]
		for x := 0; x < width; x++ {
			var v uint32
			if bytesPerPixel == 2 {
				v = uint32(le.Uint16(src[x*2:]))
			} else {
				v = le.Uint32(src[x*4:])
			}
			texels[y*width+x] = color.RGBA{channels[0].value(v), channels[1].value(v), channels[2].value(v), 255}
		}
	}
	return newTextureBuffer(width, height, texels)
}

// maskedChannel extracts one colour channel from a packed pixel.
type maskedChannel struct {
	mask  uint32
	shift int
	max   uint32
}

func newMaskedChannel(mask uint32) maskedChannel {
	if mask == 0 {
		return maskedChannel{}
	}
	shift := bits.TrailingZeros32(mask)
	return maskedChannel{mask: mask, shift: shift, max: mask >> shift}
}

func (c maskedChannel) value(px uint32) uint8 {
	if c.max == 0 {
		return 0
	}
	v := (px & c.mask) >> c.shift
	return uint8((uint64(v)*255 + uint64(c.max)/2) / uint64(c.max))
}
