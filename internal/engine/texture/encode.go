package texture

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Layout written by Encode: a 14-byte file header followed by a 40-byte info
// header, then the raw texel rows.
const (
	encodedHeaderSize = 54
	infoHeaderSize    = 40
	bitsPerTexel      = 24
	pixelsPerMeter    = 2835 // 72 DPI

	// maxEncodedPixelBytes keeps the size fields of the header within uint32.
	maxEncodedPixelBytes = math.MaxUint32 - encodedHeaderSize
)

// checkEncodable rejects textures whose container length does not fit the
// 32-bit size field.
func checkEncodable(width, height uint64) error {
	if width == 0 || height == 0 || width > maxEncodedPixelBytes/BytesPerTexel/height {
		return fmt.Errorf("%w: %dx%d does not fit a container", ErrInvalidDimensions, width, height)
	}
	return nil
}

// encodeHeader builds the container header for a width x height texture.
// The size must have passed checkEncodable.
func encodeHeader(width, height uint32) []byte {
	pixelBytes := BytesPerTexel * width * height
	hdr := make([]byte, encodedHeaderSize)
	le := binary.LittleEndian

	hdr[0], hdr[1] = 'B', 'M'
	le.PutUint32(hdr[offsetFileSize:], encodedHeaderSize+pixelBytes)
	le.PutUint32(hdr[offsetPixelOffset:], encodedHeaderSize)
	le.PutUint32(hdr[14:], infoHeaderSize)
	le.PutUint32(hdr[offsetWidth:], width)
	le.PutUint32(hdr[offsetHeight:], height)
	le.PutUint16(hdr[26:], 1) // planes
	le.PutUint16(hdr[28:], bitsPerTexel)
	le.PutUint32(hdr[34:], pixelBytes)
	le.PutUint32(hdr[38:], pixelsPerMeter)
	le.PutUint32(hdr[42:], pixelsPerMeter)

	return hdr
}

// New builds an asset from row-major R,G,B texels. The texels are copied
// into a fresh container and parsed back, so the result obeys the same
// invariants as a loaded file.
func New(width, height int, rgb []byte) (*Asset, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if err := checkEncodable(uint64(width), uint64(height)); err != nil {
		return nil, err
	}
	if len(rgb) != BytesPerTexel*width*height {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedPixels, BytesPerTexel*width*height, len(rgb))
	}

	data := encodeHeader(uint32(width), uint32(height))
	data = append(data, rgb...)
	return Parse(data)
}

// Encode writes a as a texture container. The pixel block is re-based to
// directly follow the header.
func Encode(w io.Writer, a *Asset) error {
	if err := checkEncodable(uint64(a.header.Width), uint64(a.header.Height)); err != nil {
		return err
	}
	if _, err := w.Write(encodeHeader(a.header.Width, a.header.Height)); err != nil {
		return fmt.Errorf("writing texture header: %w", err)
	}
	if _, err := w.Write(a.pixels()); err != nil {
		return fmt.Errorf("writing texture pixels: %w", err)
	}
	return nil
}
