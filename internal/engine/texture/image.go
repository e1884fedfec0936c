package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp" // BMP decoder registration
)

// Source formats accepted by Open.
const (
	FormatRaw   = "raw"   // texture container, texels stored as R,G,B
	FormatImage = "image" // any registered image codec, converted on load
)

// ErrUnknownFormat is returned by Open for an unrecognized format name.
var ErrUnknownFormat = errors.New("unknown texture format")

// FromImage flattens img into an R,G,B asset. Alpha is dropped.
func FromImage(img image.Image) (*Asset, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	rgb := make([]byte, 0, BytesPerTexel*width*height)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			rgb = append(rgb, uint8(r>>8), uint8(g>>8), uint8(bl>>8))
		}
	}

	return New(width, height, rgb)
}

// Decode decodes a BMP, PNG or JPEG image into an asset. Images wider than
// maxWidth are scaled down, keeping the aspect ratio; maxWidth <= 0 keeps the
// original size.
func Decode(r io.Reader, maxWidth int) (*Asset, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return FromImage(downscale(img, maxWidth))
}

// downscale shrinks img to maxWidth columns when it is wider.
func downscale(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return img
	}
	return resize.Resize(uint(maxWidth), 0, img, resize.Bilinear)
}

// Open loads a texture from disk in the given format. TGA files are handled
// by DecodeTGA since the standard codecs do not cover them.
func Open(path, format string, maxWidth int) (*Asset, error) {
	switch format {
	case FormatRaw, "":
		return Load(path)
	case FormatImage:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decoding TGA: %w", err)
		}
		return FromImage(downscale(img, maxWidth))
	}

	return Decode(bytes.NewReader(data), maxWidth)
}
