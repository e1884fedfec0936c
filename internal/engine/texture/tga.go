package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// ErrTruncatedTGA reports TGA data that ends before the declared image does.
var ErrTruncatedTGA = errors.New("TGA data truncated")

// tgaReader walks TGA pixel data and places pixels in image order.
type tgaReader struct {
	img           *image.RGBA
	data          []byte
	pos           int
	bytesPerPixel int
	topToBottom   bool
}

// next reads one BGR(A) pixel.
func (r *tgaReader) next() (color.RGBA, bool) {
	if r.pos+r.bytesPerPixel > len(r.data) {
		return color.RGBA{}, false
	}
	p := r.data[r.pos:]
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if r.bytesPerPixel == 4 {
		c.A = p[3]
	}
	r.pos += r.bytesPerPixel
	return c, true
}

// set stores pixel number idx, flipping rows for bottom-up images.
func (r *tgaReader) set(idx int, c color.RGBA) {
	width := r.img.Rect.Dx()
	height := r.img.Rect.Dy()
	x := idx % width
	y := idx / width
	if !r.topToBottom {
		y = height - 1 - y
	}
	r.img.SetRGBA(x, y, c)
}

// DecodeTGA decodes a TGA image. Only uncompressed (type 2) and RLE
// (type 10) true-color images at 24 or 32 bits per pixel are supported.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("%w: header", ErrTruncatedTGA)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d (only uncompressed/RLE true-color supported)", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: id field", ErrTruncatedTGA)
	}

	r := &tgaReader{
		img:           image.NewRGBA(image.Rect(0, 0, width, height)),
		data:          data[offset:],
		bytesPerPixel: bpp / 8,
		topToBottom:   descriptor&0x20 != 0,
	}
	pixelCount := width * height

	if imageType == TGATypeUncompressed {
		if len(r.data) < pixelCount*r.bytesPerPixel {
			return nil, fmt.Errorf("%w: pixel data", ErrTruncatedTGA)
		}
		for i := 0; i < pixelCount; i++ {
			c, _ := r.next()
			r.set(i, c)
		}
		return r.img, nil
	}

	// RLE: a packet header's high bit selects a run of one repeated pixel,
	// otherwise count raw pixels follow.
	idx := 0
	for idx < pixelCount && r.pos < len(r.data) {
		packet := r.data[r.pos]
		r.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			c, ok := r.next()
			if !ok {
				break
			}
			for i := 0; i < count && idx < pixelCount; i++ {
				r.set(idx, c)
				idx++
			}
			continue
		}

		for i := 0; i < count && idx < pixelCount; i++ {
			c, ok := r.next()
			if !ok {
				break
			}
			r.set(idx, c)
			idx++
		}
	}

	return r.img, nil
}
