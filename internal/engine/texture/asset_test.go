package texture

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// createTestContainer builds a minimal container with the four header fields
// and the given pixel block at pixelOffset.
func createTestContainer(width, height, pixelOffset uint32, pixels []byte) []byte {
	data := make([]byte, int(pixelOffset)+len(pixels))
	le := binary.LittleEndian
	le.PutUint32(data[offsetFileSize:], uint32(len(data)))
	le.PutUint32(data[offsetPixelOffset:], pixelOffset)
	le.PutUint32(data[offsetWidth:], width)
	le.PutUint32(data[offsetHeight:], height)
	copy(data[pixelOffset:], pixels)
	return data
}

// headerOnly builds just the header fields, whatever the pixel offset says.
func headerOnly(width, height, pixelOffset uint32) []byte {
	data := make([]byte, HeaderSize)
	le := binary.LittleEndian
	le.PutUint32(data[offsetFileSize:], HeaderSize)
	le.PutUint32(data[offsetPixelOffset:], pixelOffset)
	le.PutUint32(data[offsetWidth:], width)
	le.PutUint32(data[offsetHeight:], height)
	return data
}

// sequentialPixels returns width*height texels whose bytes count up from 0.
func sequentialPixels(width, height int) []byte {
	pixels := make([]byte, BytesPerTexel*width*height)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	return pixels
}

func TestParse_ValidContainer(t *testing.T) {
	data := createTestContainer(4, 2, 30, sequentialPixels(4, 2))

	a, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if a.Width() != 4 {
		t.Errorf("expected width 4, got %d", a.Width())
	}
	if a.Height() != 2 {
		t.Errorf("expected height 2, got %d", a.Height())
	}
	if a.PixelOffset() != 30 {
		t.Errorf("expected pixel offset 30, got %d", a.PixelOffset())
	}
	if a.Header().FileSize != uint32(len(data)) {
		t.Errorf("expected file size %d, got %d", len(data), a.Header().FileSize)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncatedHeader},
		{"short header", make([]byte, HeaderSize-1), ErrTruncatedHeader},
		{"zero width", createTestContainer(0, 2, 26, nil), ErrInvalidDimensions},
		{"zero height", createTestContainer(2, 0, 26, nil), ErrInvalidDimensions},
		{"missing pixels", createTestContainer(4, 2, 26, make([]byte, 23)), ErrTruncatedPixels},
		{"offset past end", headerOnly(1, 1, 0xFFFFFFF0), ErrTruncatedPixels},
		{"huge dimensions", createTestContainer(0xFFFFFFFF, 0xFFFFFFFF, 26, nil), ErrTruncatedPixels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTexelOffset(t *testing.T) {
	a, err := Parse(createTestContainer(5, 3, 40, sequentialPixels(5, 3)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	for row := 0; row < a.Height(); row++ {
		for col := 0; col < a.Width(); col++ {
			off := a.TexelOffset(row, col)
			want := 40 + 3*(row*5+col)
			if off != want {
				t.Errorf("TexelOffset(%d, %d) = %d, want %d", row, col, off, want)
			}
			if off+BytesPerTexel > a.Len() {
				t.Errorf("TexelOffset(%d, %d) = %d overruns %d-byte buffer", row, col, off, a.Len())
			}
		}
	}
}

func TestTexel(t *testing.T) {
	a, err := Parse(createTestContainer(4, 2, 26, sequentialPixels(4, 2)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// Texel (1, 2) is texel number 6 -> bytes 18, 19, 20.
	r, g, b := a.Texel(1, 2)
	if r != 18 || g != 19 || b != 20 {
		t.Errorf("Texel(1, 2) = (%d, %d, %d), want (18, 19, 20)", r, g, b)
	}
}

func TestTexel_OutOfRangePanics(t *testing.T) {
	a, err := Parse(createTestContainer(4, 2, 26, sequentialPixels(4, 2)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	coords := [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 4}}
	for _, c := range coords {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Texel(%d, %d) did not panic", c[0], c[1])
				}
			}()
			a.Texel(c[0], c[1])
		}()
	}
}

func TestNewAndEncode(t *testing.T) {
	pixels := sequentialPixels(3, 2)
	a, err := New(3, 2, pixels)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if a.PixelOffset() != encodedHeaderSize {
		t.Errorf("expected pixel offset %d, got %d", encodedHeaderSize, a.PixelOffset())
	}

	var buf bytes.Buffer
	if err := Encode(&buf, a); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	data := buf.Bytes()

	if string(data[:2]) != "BM" {
		t.Errorf("expected BM magic, got %q", data[:2])
	}
	if len(data) != encodedHeaderSize+len(pixels) {
		t.Errorf("expected %d bytes, got %d", encodedHeaderSize+len(pixels), len(data))
	}
	if got := binary.LittleEndian.Uint32(data[offsetFileSize:]); got != uint32(len(data)) {
		t.Errorf("declared file size %d, actual %d", got, len(data))
	}
	if !bytes.Equal(data[encodedHeaderSize:], pixels) {
		t.Error("pixel block differs from input")
	}
}

func TestEncode_RebasesPixelOffset(t *testing.T) {
	src, err := Parse(createTestContainer(2, 2, 100, sequentialPixels(2, 2)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, src); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	dst, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse of encoded data failed: %v", err)
	}
	if dst.PixelOffset() != encodedHeaderSize {
		t.Errorf("expected pixel offset %d, got %d", encodedHeaderSize, dst.PixelOffset())
	}
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			r1, g1, b1 := src.Texel(row, col)
			r2, g2, b2 := dst.Texel(row, col)
			if r1 != r2 || g1 != g2 || b1 != b2 {
				t.Errorf("texel (%d, %d) changed after re-encoding", row, col)
			}
		}
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(0, 1, nil); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("New(0, 1) error = %v, want %v", err, ErrInvalidDimensions)
	}
	if _, err := New(2, 2, make([]byte, 5)); !errors.Is(err, ErrTruncatedPixels) {
		t.Errorf("New with short pixels error = %v, want %v", err, ErrTruncatedPixels)
	}
}

func TestNew_SizeFieldOverflow(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"wraps uint32", 1 << 20, 1 << 12},
		{"one row past limit", 1, (math.MaxUint32-54)/3 + 1},
		{"wide", math.MaxUint32/3 + 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Rejected before the texels are looked at.
			if _, err := New(tt.width, tt.height, nil); !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("New(%d, %d) error = %v, want %v", tt.width, tt.height, err, ErrInvalidDimensions)
			}
		})
	}
}

func TestCheckEncodable_Limit(t *testing.T) {
	limit := uint64(math.MaxUint32-54) / 3
	if err := checkEncodable(limit, 1); err != nil {
		t.Errorf("largest encodable texture rejected: %v", err)
	}
	if err := checkEncodable(limit+1, 1); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions past the limit, got %v", err)
	}
	if err := checkEncodable(1<<32, 1<<32); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions for 2^32 x 2^32, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "globe.bmp")
	if err := os.WriteFile(path, createTestContainer(4, 2, 26, sequentialPixels(4, 2)), 0644); err != nil {
		t.Fatalf("failed to write test texture: %v", err)
	}

	a, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if a.Width() != 4 || a.Height() != 2 {
		t.Errorf("expected 4x2, got %dx%d", a.Width(), a.Height())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.bmp")); err == nil {
		t.Error("expected error loading missing file")
	}
}
