// Package texture holds the equirectangular texture sampled by the projection:
// a flat grid of R,G,B texels spanning 360° of azimuth across its width and
// 180° of declination down its height.
package texture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// Container header layout. Every field is a little-endian uint32.
const (
	offsetFileSize    = 2
	offsetPixelOffset = 10
	offsetWidth       = 18
	offsetHeight      = 22

	// HeaderSize is the shortest container that holds all header fields.
	HeaderSize = 26

	// BytesPerTexel is the size of one R,G,B texel.
	BytesPerTexel = 3
)

// Container errors.
var (
	ErrTruncatedHeader   = errors.New("truncated texture header")
	ErrInvalidDimensions = errors.New("invalid texture dimensions")
	ErrTruncatedPixels   = errors.New("truncated texture pixel data")
)

// Header holds the container fields the projection needs.
type Header struct {
	FileSize    uint32 // declared container length
	PixelOffset uint32 // byte offset of the first texel
	Width       uint32 // texels per row (full azimuth span)
	Height      uint32 // rows (full declination span)
}

// PixelBytes returns the size of the pixel block described by h.
func (h Header) PixelBytes() uint64 {
	return BytesPerTexel * uint64(h.Width) * uint64(h.Height)
}

// Asset is an immutable texture backed by its container bytes.
type Asset struct {
	header Header
	data   []byte
}

// ParseHeader reads the header fields from the start of a container.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrTruncatedHeader, len(data))
	}

	le := binary.LittleEndian
	return Header{
		FileSize:    le.Uint32(data[offsetFileSize:]),
		PixelOffset: le.Uint32(data[offsetPixelOffset:]),
		Width:       le.Uint32(data[offsetWidth:]),
		Height:      le.Uint32(data[offsetHeight:]),
	}, nil
}

// Parse parses a texture container. The returned asset keeps a reference to
// data; callers must not modify it afterwards.
func Parse(data []byte) (*Asset, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	if h.Width == 0 || h.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, h.Width, h.Height)
	}

	need := uint64(h.PixelOffset) + h.PixelBytes()
	if need > uint64(len(data)) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedPixels, need, len(data))
	}

	return &Asset{header: h, data: data}, nil
}

// Load parses a texture container from disk.
func Load(path string) (*Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture file: %w", err)
	}
	return Parse(data)
}

// Header returns the parsed container header.
func (a *Asset) Header() Header {
	return a.header
}

// Width returns the number of texels per row.
func (a *Asset) Width() int {
	return int(a.header.Width)
}

// Height returns the number of rows.
func (a *Asset) Height() int {
	return int(a.header.Height)
}

// PixelOffset returns the byte offset of the first texel.
func (a *Asset) PixelOffset() int {
	return int(a.header.PixelOffset)
}

// Len returns the length of the backing container.
func (a *Asset) Len() int {
	return len(a.data)
}

// TexelOffset returns the byte offset of texel (row, col). It does not check
// bounds.
func (a *Asset) TexelOffset(row, col int) int {
	return a.PixelOffset() + BytesPerTexel*(row*a.Width()+col)
}

// Texel returns the color at (row, col). A coordinate outside the texture
// means the caller's angle normalization is broken, so Texel panics rather
// than returning an error.
func (a *Asset) Texel(row, col int) (r, g, b uint8) {
	if row < 0 || col < 0 || row >= a.Height() || col >= a.Width() {
		panic(fmt.Sprintf("texture: texel (%d, %d) outside %dx%d texture", row, col, a.Width(), a.Height()))
	}
	i := a.TexelOffset(row, col)
	p := a.data[i : i+BytesPerTexel : i+BytesPerTexel]
	return p[0], p[1], p[2]
}

// pixels returns the texel block without header or trailing bytes.
func (a *Asset) pixels() []byte {
	off := a.PixelOffset()
	return a.data[off : off+int(a.header.PixelBytes())]
}
